// Package store holds the process-wide client state: session, loan applications,
// portfolio view state and preferences. Each store is persisted through a kv.Store
// and notifies subscribers on every change.
package store

import "sync"

type notifier[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

// Subscribe registers fn and returns a func that removes it.
func (n *notifier[T]) Subscribe(fn func(T)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = map[int]func(T){}
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// notify calls subscribers outside the lock, so they may call back into the store.
func (n *notifier[T]) notify(v T) {
	n.mu.Lock()
	fns := make([]func(T), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

func (n *notifier[T]) close() {
	n.mu.Lock()
	n.subs = nil
	n.mu.Unlock()
}
