// Package pubsub implements the latest-value channel: a single-slot mailbox
// shared by one or more Senders and Receivers, updated under a mutex with
// condition-variable wakeup, plus named publish-time callbacks invoked
// synchronously on the sending goroutine before the slot is overwritten.
package pubsub

import (
	"sync"
	"sync/atomic"

	"github.com/ncerzzk/rpos-go/pkg/assert"
)

// channel is the shared, reference-counted state behind a Sender/Receiver
// pair. It is never copied; Sender and Receiver hold a pointer to it.
type channel[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	slot    T
	version uint32

	cbMu      sync.Mutex
	callbacks map[string]func(T)

	senderRefs   atomic.Int32
	receiverRefs atomic.Int32
	destroyed    atomic.Bool
}

func newChannel[T any]() *channel[T] {
	c := &channel[T]{
		callbacks: make(map[string]func(T)),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Sender is the write side of a latest-value channel.
type Sender[T any] struct {
	ch *channel[T]
}

// Receiver is the read side of a latest-value channel.
type Receiver[T any] struct {
	ch              *channel[T]
	lastSeenVersion uint32
}

// NewChannel constructs a new channel and returns one Sender and one
// Receiver pointing at it, with version 0 and a zero-value slot.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	c := newChannel[T]()
	c.senderRefs.Store(1)
	c.receiverRefs.Store(1)
	return &Sender[T]{ch: c}, &Receiver[T]{ch: c}
}

// Send invokes every registered publish-callback with value (snapshotting
// the callback set under its own lock so user code never runs while holding
// the publish lock), then stores value in the slot and bumps the version.
func (s *Sender[T]) Send(value T) {
	s.ch.cbMu.Lock()
	callbacks := make([]func(T), 0, len(s.ch.callbacks))
	for _, cb := range s.ch.callbacks {
		callbacks = append(callbacks, cb)
	}
	s.ch.cbMu.Unlock()

	for _, cb := range callbacks {
		cb(value)
	}

	s.ch.mu.Lock()
	prevVersion := s.ch.version
	s.ch.slot = value
	s.ch.version++
	assert.AssertMsg(s.ch.version > prevVersion, "channel version must strictly increase on every Send")
	s.ch.mu.Unlock()
	s.ch.cond.Broadcast()
}

// Clone returns a new Sender handle sharing this channel, incrementing the
// sender refcount.
func (s *Sender[T]) Clone() *Sender[T] {
	s.ch.senderRefs.Add(1)
	return &Sender[T]{ch: s.ch}
}

// Close releases this Sender handle, decrementing the sender refcount. When
// the sender refcount reaches zero, it CASes the destroyed flag false→true;
// if that CAS fails, the receiver side had already reached zero first, and
// this Close is the one that completes the handshake (see Destroyed).
func (s *Sender[T]) Close() {
	if s.ch.senderRefs.Add(-1) == 0 {
		s.ch.destroyed.CompareAndSwap(false, true)
	}
}

// Destroyed reports whether this channel's destroyed flag has been set —
// true once either side has had its refcount reach zero at least once.
func (s *Sender[T]) Destroyed() bool {
	return s.ch.destroyed.Load()
}

// Read blocks until a value has been published since this Receiver's last
// read, then returns a copy of it.
func (r *Receiver[T]) Read() T {
	r.ch.mu.Lock()
	defer r.ch.mu.Unlock()
	for r.lastSeenVersion == r.ch.version {
		r.ch.cond.Wait()
	}
	value := r.ch.slot
	r.lastSeenVersion = r.ch.version
	return value
}

// TryRead returns the slot and true if a new value has been published since
// the last Read/TryRead; otherwise it returns the zero value and false.
func (r *Receiver[T]) TryRead() (T, bool) {
	r.ch.mu.Lock()
	defer r.ch.mu.Unlock()
	if r.lastSeenVersion == r.ch.version {
		var zero T
		return zero, false
	}
	value := r.ch.slot
	r.lastSeenVersion = r.ch.version
	return value, true
}

// RegisterCallback installs or replaces the named publish-callback, invoked
// synchronously on every future Send before the slot is updated.
func (r *Receiver[T]) RegisterCallback(name string, fn func(T)) {
	r.ch.cbMu.Lock()
	defer r.ch.cbMu.Unlock()
	r.ch.callbacks[name] = fn
}

// UnregisterCallback removes the named publish-callback, if present.
func (r *Receiver[T]) UnregisterCallback(name string) {
	r.ch.cbMu.Lock()
	defer r.ch.cbMu.Unlock()
	delete(r.ch.callbacks, name)
}

// Clone returns a new Receiver handle sharing this channel and starting at
// the same last-seen version, incrementing the receiver refcount.
func (r *Receiver[T]) Clone() *Receiver[T] {
	r.ch.receiverRefs.Add(1)
	return &Receiver[T]{ch: r.ch, lastSeenVersion: r.lastSeenVersion}
}

// Close releases this Receiver handle, decrementing the receiver refcount.
// When the receiver refcount reaches zero, it CASes the destroyed flag
// false→true; if that CAS fails, the sender side had already reached zero
// first, and this Close is the one that completes the handshake.
func (r *Receiver[T]) Close() {
	if r.ch.receiverRefs.Add(-1) == 0 {
		r.ch.destroyed.CompareAndSwap(false, true)
	}
}

// Destroyed reports whether this channel's destroyed flag has been set —
// true once either side has had its refcount reach zero at least once.
func (r *Receiver[T]) Destroyed() bool {
	return r.ch.destroyed.Load()
}
