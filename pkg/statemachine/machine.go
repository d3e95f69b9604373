package statemachine

import (
	"context"
	"errors"
	"sync"
)

// Machine is one instance of a Definition. It is safe for concurrent use;
// Fire calls are serialized.
type Machine[S, E comparable, D any] struct {
	def     *Definition[S, E, D]
	initial S

	mu      sync.RWMutex
	current S
}

func (m *Machine[S, E, D]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Fire moves the machine along the first admissible transition for event.
// Actions run before the state changes and see the pending target.
func (m *Machine[S, E, D]) Fire(ctx context.Context, event E, data D) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.def.pick(ctx, m.current, event, data)
	if err != nil {
		return err
	}
	for _, a := range t.Actions {
		if err := a(ctx, m.current, t.To, event, data); err != nil {
			return errors.Join(ErrActionFailed, err)
		}
	}
	m.current = t.To
	return nil
}

// CanFire reports whether Fire would find an admissible transition.
// Actions are not run.
func (m *Machine[S, E, D]) CanFire(ctx context.Context, event E, data D) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.def.pick(ctx, m.current, event, data)
	return err == nil
}

// Reset returns the machine to the state it was created at.
func (m *Machine[S, E, D]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
