package statemachine

import (
	"context"
	"errors"
	"fmt"
)

// Guard decides at fire time whether a transition may run. data is the value
// passed to Fire.
type Guard[S, E comparable, D any] func(ctx context.Context, from S, event E, data D) bool

// Action runs a side effect of a transition before the state changes.
// Returning an error keeps the machine in its current state.
type Action[S, E comparable, D any] func(ctx context.Context, from, to S, event E, data D) error

// Transition is one edge of the table.
type Transition[S, E comparable, D any] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E, D]  // all must pass
	Actions []Action[S, E, D] // run in order
}

// Definition is an immutable transition table. It is safe for concurrent use
// and meant to be shared by every machine of the same kind.
type Definition[S, E comparable, D any] struct {
	transitions map[S]map[E][]Transition[S, E, D]
}

// Option adds transitions to a Definition under construction.
type Option[S, E comparable, D any] func(*Definition[S, E, D]) error

// TransitionOption configures a single transition.
type TransitionOption[S, E comparable, D any] func(*Transition[S, E, D])

// Define builds a Definition from opts.
func Define[S, E comparable, D any](opts ...Option[S, E, D]) (*Definition[S, E, D], error) {
	d := &Definition[S, E, D]{transitions: make(map[S]map[E][]Transition[S, E, D])}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDefine is Define for package-level tables. Panics on an invalid table.
func MustDefine[S, E comparable, D any](opts ...Option[S, E, D]) *Definition[S, E, D] {
	d, err := Define(opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return d
}

// WithTransition adds the edge from --event--> to.
func WithTransition[S, E comparable, D any](from, to S, event E, opts ...TransitionOption[S, E, D]) Option[S, E, D] {
	return func(d *Definition[S, E, D]) error {
		t := Transition[S, E, D]{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		return d.add(t)
	}
}

// WithTransitions adds several prepared edges at once.
func WithTransitions[S, E comparable, D any](ts ...Transition[S, E, D]) Option[S, E, D] {
	return func(d *Definition[S, E, D]) error {
		for i, t := range ts {
			if err := d.add(t); err != nil {
				return fmt.Errorf("transition[%d]: %w", i, err)
			}
		}
		return nil
	}
}

// WithGuard adds a guard to a transition. Nil guards are ignored.
func WithGuard[S, E comparable, D any](g Guard[S, E, D]) TransitionOption[S, E, D] {
	return func(t *Transition[S, E, D]) {
		if g != nil {
			t.Guards = append(t.Guards, g)
		}
	}
}

// WithAction adds an action to a transition. Nil actions are ignored.
func WithAction[S, E comparable, D any](a Action[S, E, D]) TransitionOption[S, E, D] {
	return func(t *Transition[S, E, D]) {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
}

func (d *Definition[S, E, D]) add(t Transition[S, E, D]) error {
	byEvent, ok := d.transitions[t.From]
	if !ok {
		byEvent = make(map[E][]Transition[S, E, D])
		d.transitions[t.From] = byEvent
	}
	// an earlier unguarded edge would shadow this one forever
	for _, prev := range byEvent[t.Event] {
		if len(prev.Guards) == 0 {
			return errors.Join(ErrDuplicateTransition, fmt.Errorf("%v on %v", t.From, t.Event))
		}
	}
	byEvent[t.Event] = append(byEvent[t.Event], t)
	return nil
}

// Target returns the destination of the first transition for event from the
// given state, without evaluating guards.
func (d *Definition[S, E, D]) Target(from S, event E) (S, bool) {
	ts := d.transitions[from][event]
	if len(ts) == 0 {
		var zero S
		return zero, false
	}
	return ts[0].To, true
}

// New returns a machine positioned at initial.
func (d *Definition[S, E, D]) New(initial S) *Machine[S, E, D] {
	return &Machine[S, E, D]{def: d, initial: initial, current: initial}
}

// pick returns the first transition out of from whose guards pass.
func (d *Definition[S, E, D]) pick(ctx context.Context, from S, event E, data D) (*Transition[S, E, D], error) {
	ts := d.transitions[from][event]
	if len(ts) == 0 {
		return nil, errors.Join(ErrNoTransition, fmt.Errorf("%v on %v", event, from))
	}
	for i := range ts {
		if passes(ctx, ts[i].Guards, from, event, data) {
			return &ts[i], nil
		}
	}
	return nil, errors.Join(ErrTransitionRejected, fmt.Errorf("%v on %v", event, from))
}

func passes[S, E comparable, D any](ctx context.Context, guards []Guard[S, E, D], from S, event E, data D) bool {
	for _, g := range guards {
		if !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}
