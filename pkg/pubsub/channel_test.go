package pubsub

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testStruct struct {
	X, Y, Z uint32
}

func TestBasicTxRx(t *testing.T) {
	tx, rx := NewChannel[testStruct]()

	tx.Send(testStruct{})
	got := rx.Read()
	require.Equal(t, testStruct{}, got)

	_, ok := rx.TryRead()
	require.False(t, ok, "try_read with no new publish should be absent")
}

func TestTryReadOnceThenAbsent(t *testing.T) {
	tx, rx := NewChannel[int]()

	tx.Send(7)
	v, ok := rx.TryRead()
	require.True(t, ok)
	require.Equal(t, 7, v)

	_, ok = rx.TryRead()
	require.False(t, ok)
}

func TestBlockingRead(t *testing.T) {
	tx, rx := NewChannel[int]()

	start := time.Now()
	done := make(chan int, 1)
	go func() {
		done <- rx.Read()
	}()

	time.Sleep(50 * time.Millisecond)
	tx.Send(99)

	select {
	case v := <-done:
		require.Equal(t, 99, v)
		require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not unblock after Send")
	}
}

func TestPublishCallbackRunsBeforeStoreAndBlocksSend(t *testing.T) {
	tx, rx := NewChannel[int]()

	var sawNew atomic.Bool
	rx.RegisterCallback("cb", func(v int) {
		time.Sleep(50 * time.Millisecond)
		sawNew.Store(v == 42)
	})

	start := time.Now()
	tx.Send(42)
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, 50*time.Millisecond, "Send must block until the callback returns")
	require.True(t, sawNew.Load())

	rx.UnregisterCallback("cb")
	start = time.Now()
	tx.Send(43)
	require.Less(t, time.Since(start), 20*time.Millisecond, "Send must return quickly once the callback is unregistered")
}

func TestVersionStrictlyIncreases(t *testing.T) {
	tx, rx := NewChannel[int]()

	var lastVersion uint32
	for i := 1; i <= 5; i++ {
		tx.Send(i)
		v := rx.Read()
		require.Equal(t, i, v)
		require.Greater(t, rx.lastSeenVersion, lastVersion)
		lastVersion = rx.lastSeenVersion
	}
}

func TestCloneRefcountsAndDestruction(t *testing.T) {
	tx, rx := NewChannel[int]()
	rx2 := rx.Clone()

	require.Equal(t, int32(2), rx.ch.receiverRefs.Load())

	rx2.Close()
	require.Equal(t, int32(1), rx.ch.receiverRefs.Load())
	require.False(t, rx.Destroyed())

	tx.Close()
	require.True(t, tx.Destroyed())
	require.Equal(t, int32(0), rx.ch.senderRefs.Load())

	rx.Close()
	require.True(t, rx.Destroyed())
}

func TestCloneSenderIndependentRefcount(t *testing.T) {
	tx, rx := NewChannel[int]()
	tx2 := tx.Clone()

	tx.Close()
	require.False(t, tx2.Destroyed(), "closing one clone must not destroy the channel while another sender remains")

	tx2.Close()
	rx.Close()
	require.True(t, rx.Destroyed())
}

func TestConcurrentSendsAreSerialized(t *testing.T) {
	tx, rx := NewChannel[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			tx.Send(v)
		}(i)
	}
	wg.Wait()

	// The slot holds whichever send landed last; this just proves no panic
	// or data race under concurrent publish.
	_, _ = rx.TryRead()
}
