// Package hrt implements the High-Resolution Timer queue: a single dedicated
// worker thread dispatching nullary callbacks in non-decreasing deadline
// order. Producers only ever insert; only the worker pops and invokes.
package hrt

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"testing"

	"github.com/ncerzzk/rpos-go/pkg/assert"
	"github.com/ncerzzk/rpos-go/pkg/common"
	"github.com/ncerzzk/rpos-go/pkg/rtclock"
	"github.com/ncerzzk/rpos-go/pkg/rtthread"
)

// Callback is a nullary action dispatched by the HRT worker. It must be
// short and must not call Add on the same queue from within itself while the
// worker still holds the list lock (see Queue's worker algorithm).
type Callback func()

// Entry pairs a deadline with the callback to invoke at or after it.
type Entry struct {
	Deadline Timespec
	Callback Callback
}

// Timespec re-exports rtclock.Timespec so callers constructing Entry values
// don't need a second import for the common case.
type Timespec = rtclock.Timespec

// NewEntry builds an Entry.
func NewEntry(deadline Timespec, cb Callback) Entry {
	return Entry{Deadline: deadline, Callback: cb}
}

// Queue is the deadline-ordered timer queue. Use Instance to reach the
// process-wide singleton; Queue is exported mainly so tests can build
// isolated instances instead of sharing global state.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	wake    chan struct{}
	started sync.Once
}

// NewQueue constructs an HRT queue and starts its dedicated worker thread.
// Priority is the worker's SCHED_FIFO priority in production; under
// testing.Testing() the worker runs without SCHED_FIFO so unit tests never
// require elevated privilege.
func NewQueue(priority int) *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
	}
	q.start(priority)
	return q
}

func (q *Queue) start(priority int) {
	q.started.Do(func() {
		fifo := !testing.Testing()
		rtthread.Create(common.DefaultStackBytes, priority, func(any) any {
			q.run()
			return nil
		}, nil, fifo)

		// Reserve SIGCONT's disposition the way the original design does,
		// even though this implementation's actual wakeup path is the
		// buffered channel below rather than a delivered signal.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGCONT)
		go func() {
			for range sigCh {
			}
		}()
	})
}

// Add inserts entry, preserving deadline order. Equal-deadline entries are
// placed after existing equal-deadline entries (stable insertion order). If
// entry becomes the new head, the worker is woken immediately.
func (q *Queue) Add(entry Entry) {
	q.mu.Lock()
	pos := len(q.entries)
	for i, e := range q.entries {
		if e.Deadline.After(entry.Deadline) {
			pos = i
			break
		}
	}
	q.entries = append(q.entries, Entry{})
	copy(q.entries[pos+1:], q.entries[pos:])
	q.entries[pos] = entry
	becameHead := pos == 0
	assert.AssertMsg(q.deadlinesNonDecreasingLocked(), "hrt queue deadline order violated after insert")
	q.mu.Unlock()

	if becameHead {
		q.signalWake()
	}
}

// deadlinesNonDecreasingLocked checks Add's ordering invariant. Callers must
// hold q.mu. A no-op unless built with CONFIG_FLOW_ASSERTIONS.
func (q *Queue) deadlinesNonDecreasingLocked() bool {
	for i := 1; i < len(q.entries); i++ {
		if q.entries[i].Deadline.Before(q.entries[i-1].Deadline) {
			return false
		}
	}
	return true
}

func (q *Queue) signalWake() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) run() {
	for {
		q.mu.Lock()
		if len(q.entries) == 0 {
			q.mu.Unlock()
			q.sleepInterruptible(rtclock.DurationOneMS)
			continue
		}

		head := q.entries[0]
		now := rtclock.GetTimeNow()
		if !now.Before(head.Deadline) {
			q.entries = q.entries[1:]
			head.Callback()
			q.mu.Unlock()
			continue
		}

		remaining := head.Deadline.Sub(now)
		q.mu.Unlock()

		sleepFor := remaining
		if sleepFor > rtclock.DurationOneMS {
			sleepFor = rtclock.DurationOneMS
		}
		if sleepFor < 0 {
			sleepFor = 0
		}
		q.sleepInterruptible(sleepFor)
	}
}

// sleepInterruptible sleeps up to ns nanoseconds, returning early if a wake
// is signaled via the wake channel.
func (q *Queue) sleepInterruptible(ns int64) {
	if ns <= 0 {
		return
	}
	done := make(chan struct{})
	go func() {
		rtclock.Nanosleep(ns)
		close(done)
	}()
	select {
	case <-done:
	case <-q.wake:
	}
}

var (
	instance     *Queue
	instanceOnce sync.Once
)

// Instance returns the process-wide HRT queue, lazily constructed on first
// access at the original design's top real-time priority.
func Instance() *Queue {
	instanceOnce.Do(func() {
		instance = NewQueue(common.DefaultHRTPriority)
	})
	return instance
}
