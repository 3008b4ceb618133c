// SPDX-License-Identifier: MIT

// Package fsm is a small, strict finite state machine runner.
package fsm

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidTransition is returned when no edge exists for (state, event).
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConcurrentTransition is returned when the state moved while a guard
	// or action was running.
	ErrConcurrentTransition = errors.New("concurrent transition detected")
)

// Transition describes a single edge in the FSM.
// Guard may reject the transition; Action performs side-effects. Both receive
// the payload passed to Fire. A failing Action leaves the state unchanged.
type Transition[S ~string, E ~string, P any] struct {
	From   S
	Event  E
	To     S
	Guard  func(ctx context.Context, from S, event E, payload P) error
	Action func(ctx context.Context, from S, to S, event E, payload P) error
}

// Machine runs transitions. Unknown transitions are errors.
type Machine[S ~string, E ~string, P any] struct {
	mu       sync.Mutex
	state    S
	index    map[string]Transition[S, E, P]
	onChange func(from, to S, event E)
}

// New builds a machine starting in initial. Duplicate (From, Event) pairs are rejected.
func New[S ~string, E ~string, P any](initial S, transitions []Transition[S, E, P]) (*Machine[S, E, P], error) {
	idx := make(map[string]Transition[S, E, P], len(transitions))
	for _, t := range transitions {
		k := key(t.From, t.Event)
		if _, exists := idx[k]; exists {
			return nil, fmt.Errorf("duplicate transition: %s -> %s", t.From, t.Event)
		}
		idx[k] = t
	}
	return &Machine[S, E, P]{state: initial, index: idx}, nil
}

// OnChange registers a callback invoked after every committed transition,
// self-loops included. It runs outside the machine lock.
func (m *Machine[S, E, P]) OnChange(fn func(from, to S, event E)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// State returns the current state.
func (m *Machine[S, E, P]) State() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Can reports whether event has an edge from the current state.
func (m *Machine[S, E, P]) Can(event E) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.index[key(m.state, event)]
	return ok
}

// Fire attempts to apply an event.
func (m *Machine[S, E, P]) Fire(ctx context.Context, event E, payload P) (S, error) {
	m.mu.Lock()
	from := m.state
	t, ok := m.index[key(from, event)]
	if !ok {
		m.mu.Unlock()
		return from, fmt.Errorf("%w: state=%s event=%s", ErrInvalidTransition, from, event)
	}
	to := t.To
	m.mu.Unlock()

	// Guard and Action run outside the critical section.
	if t.Guard != nil {
		if err := t.Guard(ctx, from, event, payload); err != nil {
			return from, err
		}
	}
	if t.Action != nil {
		if err := t.Action(ctx, from, to, event, payload); err != nil {
			return from, err
		}
	}

	m.mu.Lock()
	if m.state != from {
		cur := m.state
		m.mu.Unlock()
		return cur, fmt.Errorf("%w: from=%s cur=%s event=%s", ErrConcurrentTransition, from, cur, event)
	}
	m.state = to
	onChange := m.onChange
	m.mu.Unlock()

	if onChange != nil {
		onChange(from, to, event)
	}
	return to, nil
}

func key[S ~string, E ~string](from S, event E) string {
	return string(from) + "|" + string(event)
}
