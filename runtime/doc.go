// Package runtime implements the actor runtime kernel: a registry of
// independently scheduled runtime instances, each owning its state, a
// prioritized mailbox, a broadcast hub and exactly one processing goroutine.
//
// Lifecycle per runtime id is absent -> alive -> absent. Create inserts a new
// instance atomically (concurrent creates for the same id have exactly one
// winner), Terminate interrupts the processing loop, shuts down the mailbox,
// closes every subscriber channel and removes the id atomically, so callers
// racing a terminate only ever observe NotFoundError. Ids are freely reusable
// once absent; no state carries over.
//
// Per runtime, state mutations are strictly serialized: the processing
// goroutine is the sole writer, readers only receive snapshots. A reducer
// failure is recorded into the observable state and never kills the loop;
// only Terminate ends a runtime's life.
package runtime
