// Package workqueue implements a deferred-execution FIFO pool: a single
// dedicated real-time thread draining a queue of Callables, the same shape
// as original_source/src/workqueue.rs, adapted to the thread primitive in
// pkg/rtthread and the queue-plus-condvar idiom used throughout this
// runtime. It is an external collaborator of the core (per SPEC_FULL.md
// §1/§4.6): it consumes the thread primitive but is not part of the
// scheduling/messaging substrate itself.
package workqueue

import (
	"sync"
	"testing"

	"github.com/ncerzzk/rpos-go/pkg/rtthread"
)

// Callable is anything a WorkQueue can run.
type Callable interface {
	Call()
}

// CallableFunc adapts a plain func() to Callable.
type CallableFunc func()

// Call implements Callable.
func (f CallableFunc) Call() { f() }

// WorkQueue is a FIFO queue of Callables drained by one dedicated thread.
type WorkQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []Callable
	exiting  bool
	thread   *rtthread.Handle
}

// New constructs a WorkQueue and starts its worker thread at priority with
// the given stack size hint. Under testing.Testing() the worker runs
// without SCHED_FIFO so unit tests never require elevated privilege.
func New(stackBytes, priority int) *WorkQueue {
	q := &WorkQueue{}
	q.cond = sync.NewCond(&q.mu)

	fifo := !testing.Testing()
	q.thread = rtthread.Create(stackBytes, priority, func(any) any {
		q.run()
		return nil
	}, nil, fifo)

	return q
}

// Add appends item to the queue and wakes the worker.
func (q *WorkQueue) Add(item Callable) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Signal()
}

// Exit requests the worker stop after draining whatever is currently queued.
func (q *WorkQueue) Exit() {
	q.mu.Lock()
	q.exiting = true
	q.mu.Unlock()
	q.cond.Signal()
}

// Join waits for the worker thread to stop, which only happens after Exit.
func (q *WorkQueue) Join() {
	q.thread.Join()
}

func (q *WorkQueue) run() {
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.exiting {
			q.cond.Wait()
		}
		if len(q.items) == 0 && q.exiting {
			q.mu.Unlock()
			return
		}
		item := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		item.Call()
	}
}

// WorkItem binds a Callable to a queue it can schedule itself onto, mirroring
// the original design's WorkItem::schedule helper.
type WorkItem struct {
	queue *WorkQueue
	task  Callable
}

// NewWorkItem binds task to queue.
func NewWorkItem(queue *WorkQueue, task Callable) *WorkItem {
	return &WorkItem{queue: queue, task: task}
}

// Schedule enqueues this item's task on its queue.
func (w *WorkItem) Schedule() {
	w.queue.Add(w.task)
}
