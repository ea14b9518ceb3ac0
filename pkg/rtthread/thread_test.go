package rtthread

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateRunsEntryAndJoins(t *testing.T) {
	var ran atomic.Bool
	h := Create(4096, 0, func(arg any) any {
		ran.Store(true)
		return nil
	}, nil, false)

	h.Join()
	require.True(t, ran.Load())
}

func TestCreatePassesArg(t *testing.T) {
	received := make(chan int, 1)
	h := Create(4096, 0, func(arg any) any {
		received <- arg.(int)
		return nil
	}, 42, false)
	h.Join()

	select {
	case v := <-received:
		require.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("entry did not run")
	}
}

func TestHandleTIDAssignedBeforeCreateReturns(t *testing.T) {
	h := Create(4096, 0, func(arg any) any {
		time.Sleep(10 * time.Millisecond)
		return nil
	}, nil, false)
	// TID is populated before Create returns (ready.Wait); only Linux reports
	// a real thread id, other platforms report 0.
	if runtime.GOOS == "linux" {
		require.NotZero(t, h.TID())
	}
	h.Join()
}
