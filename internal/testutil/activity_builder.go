// Package testutil provides fluent helpers for constructing domain objects
// in tests.
package testutil

import (
	"time"

	"github.com/hupe1980/actormesh/core"
)

// ActivityBuilder provides a fluent helper for constructing activities in
// tests. Example:
//
//	act := NewActivityBuilder().Runtime("r1").StateChange(map[string]any{"count": 1}).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ActivityBuilder struct {
	id        string
	runtimeID string
	typ       core.Type
	payload   any
	priority  *core.Priority
	sequence  uint64
	timestamp time.Time
}

// NewActivityBuilder creates a builder defaulting to an event activity.
func NewActivityBuilder() *ActivityBuilder {
	return &ActivityBuilder{typ: core.TypeEvent}
}

// ID overrides the auto-generated activity ID (chainable).
func (b *ActivityBuilder) ID(id string) *ActivityBuilder { b.id = id; return b }

// Runtime sets the target runtime id (chainable).
func (b *ActivityBuilder) Runtime(id string) *ActivityBuilder { b.runtimeID = id; return b }

// StateChange makes the activity a state change with the given payload (chainable).
func (b *ActivityBuilder) StateChange(payload map[string]any) *ActivityBuilder {
	b.typ = core.TypeStateChange
	b.payload = payload
	return b
}

// Command makes the activity a command with the given payload (chainable).
func (b *ActivityBuilder) Command(payload any) *ActivityBuilder {
	b.typ = core.TypeCommand
	b.payload = payload
	return b
}

// Event makes the activity an observation with the given payload (chainable).
func (b *ActivityBuilder) Event(payload any) *ActivityBuilder {
	b.typ = core.TypeEvent
	b.payload = payload
	return b
}

// Priority tags the activity with a scheduling priority (chainable).
func (b *ActivityBuilder) Priority(p core.Priority) *ActivityBuilder {
	b.priority = &p
	return b
}

// Sequence sets the sender sequence number (chainable).
func (b *ActivityBuilder) Sequence(n uint64) *ActivityBuilder { b.sequence = n; return b }

// Timestamp overrides the creation timestamp (chainable).
func (b *ActivityBuilder) Timestamp(ts time.Time) *ActivityBuilder { b.timestamp = ts; return b }

// Build assembles the activity.
func (b *ActivityBuilder) Build() core.Activity {
	act := core.NewActivity(b.runtimeID, b.typ, b.payload)
	if b.id != "" {
		act.ID = b.id
	}
	if b.sequence != 0 {
		act.Sequence = b.sequence
	}
	if !b.timestamp.IsZero() {
		act.Timestamp = b.timestamp
	}
	if b.priority != nil {
		act = act.WithPriority(*b.priority)
	}
	return act
}
