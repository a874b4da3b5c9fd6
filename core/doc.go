// Package core provides the foundational domain types and contracts of the
// actormesh runtime. It defines:
//
//   - Activities (typed, timestamped units of work delivered to runtimes)
//   - RuntimeState (the observable snapshot of a runtime, including
//     processing statistics and the last recorded error)
//   - Reducers (the injectable strategy that maps an activity and the current
//     state to the next state, the sole writer of runtime state)
//   - Typed errors shared across the registry, mailbox and processing loop
//
// The package intentionally keeps implementation concerns (mailbox queueing,
// scheduling, broadcast fan-out) out of scope, exposing small value types and
// interfaces so higher layers can compose domain-specific actors on top of
// the generic runtime primitive.
package core
