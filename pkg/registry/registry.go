// Package registry implements the named message registry: a process-wide
// catalog binding string names to typed latest-value channels (pkg/pubsub),
// returning fresh sender/receiver handles to each caller that looks a name
// up. Type erasure is implemented with "any" plus a type assertion at
// lookup time, since names are arbitrary runtime strings and a compile-time
// keyed registry is not possible.
package registry

import (
	"sync"

	"github.com/ncerzzk/rpos-go/pkg/pubsub"
)

type entry struct {
	tx any
	rx any
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// AddMessage constructs a new channel of type T and registers its canonical
// Sender/Receiver under name. Intended to be called only during program
// initialization; a second AddMessage for the same name replaces the entry.
func AddMessage[T any](name string) {
	tx, rx := pubsub.NewChannel[T]()
	mu.Lock()
	defer mu.Unlock()
	entries[name] = entry{tx: tx, rx: rx}
}

// GetNewTx looks up name and returns a cloned *pubsub.Sender[T]. The second
// return value is false if name is unregistered or registered under a
// different type.
func GetNewTx[T any](name string) (*pubsub.Sender[T], bool) {
	mu.RLock()
	e, ok := entries[name]
	mu.RUnlock()
	if !ok {
		return nil, false
	}
	tx, ok := e.tx.(*pubsub.Sender[T])
	if !ok {
		return nil, false
	}
	return tx.Clone(), true
}

// GetNewRx looks up name and returns a cloned *pubsub.Receiver[T]. The
// second return value is false if name is unregistered or registered under
// a different type.
func GetNewRx[T any](name string) (*pubsub.Receiver[T], bool) {
	mu.RLock()
	e, ok := entries[name]
	mu.RUnlock()
	if !ok {
		return nil, false
	}
	rx, ok := e.rx.(*pubsub.Receiver[T])
	if !ok {
		return nil, false
	}
	return rx.Clone(), true
}

// Names returns every currently registered message name, for the control
// HTTP introspection surface's GET /messages endpoint.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	return names
}

// resetForTesting clears the registry between test cases.
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	entries = make(map[string]entry)
}
