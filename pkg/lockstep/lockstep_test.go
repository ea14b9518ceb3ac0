package lockstep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNanosleepReturnsWhenDeadlineReached(t *testing.T) {
	resetForTesting()

	done := make(chan int64, 1)
	go func() {
		done <- Nanosleep(1_000_000_000)
	}()

	time.Sleep(20 * time.Millisecond)
	UpdateTime(Timespec{Sec: 2})

	select {
	case residual := <-done:
		require.Equal(t, int64(0), residual)
	case <-time.After(2 * time.Second):
		t.Fatal("Nanosleep did not return after deadline reached")
	}
}

func TestNanosleepEarlyWake(t *testing.T) {
	resetForTesting()

	done := make(chan int64, 1)
	go func() {
		done <- Nanosleep(5_000_000_000)
	}()

	time.Sleep(20 * time.Millisecond)
	Wake()

	select {
	case residual := <-done:
		require.Greater(t, residual, int64(0))
	case <-time.After(2 * time.Second):
		t.Fatal("Nanosleep did not return after early wake")
	}
}

func TestUpdateTimeSetsCurrentTime(t *testing.T) {
	resetForTesting()
	UpdateTime(Timespec{Sec: 5})
	require.Equal(t, int64(5_000_000_000), CurrentTime().toNano())
}
