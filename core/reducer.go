package core

import "context"

// Reducer is the injectable strategy that maps an activity and the current
// state to the next state. It is invoked only by the runtime's single
// processing loop, so implementations never see concurrent re-entry, but they
// must be safe to invoke repeatedly. A reducer may call out to external
// services; blocking work should honor ctx, which is cancelled when the
// runtime is terminated.
type Reducer interface {
	Reduce(ctx context.Context, act Activity, state any) (any, error)
}

// ReducerFunc adapts a plain function to the Reducer interface.
type ReducerFunc func(ctx context.Context, act Activity, state any) (any, error)

// Reduce implements the Reducer interface.
func (f ReducerFunc) Reduce(ctx context.Context, act Activity, state any) (any, error) {
	return f(ctx, act, state)
}

// DefaultReducer returns the reducer used when no domain reducer is supplied
// at create time:
//
//   - state changes with a map payload are shallow-merged into the state
//   - state changes with any other payload fail
//   - commands fail until a domain reducer overrides this branch
//   - events are observation-only no-ops
func DefaultReducer() Reducer {
	return ReducerFunc(func(_ context.Context, act Activity, state any) (any, error) {
		switch act.Type {
		case TypeStateChange:
			payload, ok := act.Payload.(map[string]any)
			if !ok {
				return state, NewProcessingError("payload must be a structured value")
			}
			return mergeState(state, payload), nil
		case TypeCommand:
			return state, NewProcessingError("command not implemented")
		case TypeEvent:
			return state, nil
		default:
			return state, NewProcessingErrorf("unknown activity type %q", act.Type)
		}
	})
}

// mergeState shallow-merges payload fields into a copy of the current state.
// A nil or non-map state is replaced by a fresh map so the first state change
// against an opaque initial value still succeeds.
func mergeState(state any, payload map[string]any) map[string]any {
	current, _ := state.(map[string]any)
	next := make(map[string]any, len(current)+len(payload))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range payload {
		next[k] = v
	}
	return next
}
