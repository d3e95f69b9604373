// Package statemachine provides finite state machines with guarded transitions
// and transition actions.
//
// A Definition is an immutable transition table built once with functional
// options. Machines created from it start at any state, so a stored record
// can be rehydrated at its current status, fired, and thrown away:
//
//	def := statemachine.MustDefine(
//		statemachine.WithTransition[string, string, *Order]("pending", "paid", "pay",
//			statemachine.WithGuard(hasBalance),
//			statemachine.WithAction(chargeCard),
//		),
//	)
//
//	m := def.New(order.Status)
//	if err := m.Fire(ctx, "pay", order); err != nil {
//		// errors.Is(err, statemachine.ErrNoTransition) or ErrTransitionRejected
//	}
//	order.Status = m.Current()
//
// Several transitions may share a (from, event) pair. They are tried in the
// order they were defined and the first whose guards all pass wins. Actions
// run in order before the state changes; an action error aborts the transition.
package statemachine
