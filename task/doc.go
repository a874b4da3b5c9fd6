// Package task implements a multi-step task actor layered on top of the
// runtime primitive. The step state machine is pure and synchronous; the
// actor wraps a registry runtime and translates task commands into derived
// state-change activities before they reach the base mailbox. The runtime
// itself is never modified, which makes this the template for building
// higher-level actors: reducer as injectable strategy, actor as generic host.
package task
