// Package rtthread creates OS threads with an explicit scheduling policy and
// priority, the building block every RPOS worker (HRT, periodic scheduler,
// workqueue) is spawned on. A goroutine is pinned to its OS thread with
// runtime.LockOSThread before the scheduling policy is applied, since Go
// goroutines are not otherwise addressable as pthreads.
package rtthread

import (
	"fmt"
	"runtime"
	"sync"
)

// Handle identifies a thread created by Create and lets callers Join it.
type Handle struct {
	done chan struct{}
	tid  int
}

// TID returns the OS thread id backing this handle.
func (h *Handle) TID() int {
	return h.tid
}

// Join blocks until the thread's entry function returns.
func (h *Handle) Join() {
	<-h.done
}

// Create starts entry(arg) on a new, OS-thread-pinned goroutine with the
// requested scheduling policy. When fifo is true the thread is set to
// SCHED_FIFO at priority; insufficient privilege to do so is fatal, matching
// the original design's "no privilege, no FIFO thread" contract. stackBytes
// is accepted for interface parity with the original API; Go goroutine
// stacks grow dynamically and are not pre-sized by this value.
func Create(stackBytes int, priority int, entry func(arg any) any, arg any, fifo bool) *Handle {
	_ = stackBytes

	h := &Handle{done: make(chan struct{})}
	var ready sync.WaitGroup
	ready.Add(1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(h.done)

		h.tid = gettid()
		if fifo {
			if err := setFIFOPriority(priority); err != nil {
				panic(fmt.Sprintf("rtthread: failed to set SCHED_FIFO priority %d: %v", priority, err))
			}
		}
		ready.Done()

		entry(arg)
	}()

	ready.Wait()
	return h
}

// errInsufficientPrivilege is the sentinel thread_other.go's setFIFOPriority
// wraps, so callers can classify it via errors.Is.
var errInsufficientPrivilege = fmt.Errorf("rtthread: operation not permitted")
