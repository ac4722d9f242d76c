// Package state holds storefront state in explicit, injectable stores. A store
// owns one state value, applies pure reducers to it, and notifies observers
// after each applied transition. Persistence is one such observer.
package state

import (
	"context"
	"sync"
)

// Reducer computes the next state and reports whether it differs from prev.
type Reducer[S any] func(prev S) (next S, applied bool)

// Observer is notified with the new state after every applied transition.
// Observers run while the store lock is held, so writes reach them in the
// order they were applied.
type Observer[S any] func(ctx context.Context, next S)

// Store is a single-writer container for one state value.
type Store[S any] struct {
	name string

	mu        sync.Mutex
	state     S
	observers []Observer[S]
}

// New creates a store holding initial.
func New[S any](name string, initial S, observers ...Observer[S]) *Store[S] {
	return &Store[S]{
		name:      name,
		state:     initial,
		observers: observers,
	}
}

// Name returns the store name, used as its persistence key.
func (s *Store[S]) Name() string {
	return s.name
}

// Subscribe registers an additional observer.
func (s *Store[S]) Subscribe(o Observer[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Dispatch runs r against the current state. When r reports a change the new
// state replaces the old one and every observer is notified. The returned
// state is the one in effect after the dispatch.
func (s *Store[S]) Dispatch(ctx context.Context, r Reducer[S]) (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied := r(s.state)
	if !applied {
		return s.state, false
	}
	s.state = next
	for _, o := range s.observers {
		o(ctx, next)
	}
	return next, true
}

// Snapshot returns the current state. Reducers never mutate a state in place,
// so the value is safe to read after the lock is released.
func (s *Store[S]) Snapshot() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Replace sets the state without notifying observers. It is used to load
// rehydrated state.
func (s *Store[S]) Replace(next S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
}
