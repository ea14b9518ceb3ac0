package rtclock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToNanoAndFromNanoRoundTrip(t *testing.T) {
	ts := Timespec{Sec: 3, Nsec: 500_000_000}
	require.Equal(t, int64(3_500_000_000), ts.ToNano())
	require.Equal(t, ts, FromNano(ts.ToNano()))
}

func TestAddNanosAcrossSecondBoundary(t *testing.T) {
	ts := Timespec{Sec: 1, Nsec: 900_000_000}
	result := ts.AddNanos(200_000_000)
	require.Equal(t, int64(2_100_000_000), result.ToNano())
}

func TestAddNanosNegative(t *testing.T) {
	ts := Timespec{Sec: 2, Nsec: 0}
	result := ts.AddNanos(-500_000_000)
	require.Equal(t, int64(1_500_000_000), result.ToNano())
}

func TestAdd(t *testing.T) {
	a := Timespec{Sec: 1, Nsec: 0}
	b := Timespec{Sec: 0, Nsec: 500_000_000}
	require.Equal(t, int64(1_500_000_000), a.Add(b).ToNano())
}

func TestSub(t *testing.T) {
	a := Timespec{Sec: 2, Nsec: 0}
	b := Timespec{Sec: 1, Nsec: 500_000_000}
	require.Equal(t, int64(500_000_000), a.Sub(b))
	require.Equal(t, int64(-500_000_000), b.Sub(a))
}

func TestBeforeAfter(t *testing.T) {
	early := Timespec{Sec: 1, Nsec: 0}
	late := Timespec{Sec: 2, Nsec: 0}
	require.True(t, early.Before(late))
	require.False(t, late.Before(early))
	require.True(t, late.After(early))
	require.False(t, early.After(late))
	require.False(t, early.Before(early))
	require.False(t, early.After(early))
}
