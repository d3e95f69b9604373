package statemachine

import "errors"

var (
	// ErrNoTransition means nothing is defined for the event in the current state.
	ErrNoTransition = errors.New("statemachine: no transition available")
	// ErrTransitionRejected means transitions exist but every one was refused by a guard.
	ErrTransitionRejected = errors.New("statemachine: transition rejected by guards")
	// ErrActionFailed wraps the error of an action that aborted a transition.
	ErrActionFailed = errors.New("statemachine: transition action failed")
	// ErrDuplicateTransition is returned when a definition repeats a transition without guards.
	ErrDuplicateTransition = errors.New("statemachine: unguarded transition defined twice")
)
