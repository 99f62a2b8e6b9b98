package game

// interactor is the trigger behavior for one interaction kind. The kind set
// is closed and fixed per deployment's catalog, so behaviors live in a
// table keyed by BaseItem.Interaction rather than in item subtypes.
// An interactor returns the item's next state and whether it changed.
type interactor func(state int, base *BaseItem) (int, bool)

var interactors = map[string]interactor{
	InteractionNone: func(state int, _ *BaseItem) (int, bool) {
		return state, false
	},
	InteractionToggle: func(state int, base *BaseItem) (int, bool) {
		next := (state + 1) % base.StateCount()
		return next, next != state
	},
	// Seats change user statuses, not their own state.
	InteractionSeat: func(state int, _ *BaseItem) (int, bool) {
		return state, false
	},
}

// triggerInteraction applies the base type's interactor to a state.
func triggerInteraction(state int, base *BaseItem) (int, bool) {
	fn, ok := interactors[base.Interaction]
	if !ok {
		return state, false
	}
	return fn(state, base)
}
