package core

import (
	"time"

	"github.com/google/uuid"
)

// Type discriminates the activity variants a runtime can receive. Reducers
// are expected to switch exhaustively over these values.
type Type string

const (
	// TypeStateChange carries a structured payload whose fields are merged
	// into the runtime state by the default reducer.
	TypeStateChange Type = "state_change"
	// TypeCommand requests domain behavior; the default reducer rejects it,
	// domain reducers override this branch.
	TypeCommand Type = "command"
	// TypeEvent is a pure observation; consuming it never mutates state.
	TypeEvent Type = "event"
)

// MetadataPriority is the metadata key carrying the scheduling priority of an
// activity. It is honored only when the target mailbox has prioritization
// enabled.
const MetadataPriority = "priority"

// Priority orders activities within the mailbox priority lane. Lower values
// are served first; ties are broken by arrival order.
type Priority int

const (
	// PriorityCritical preempts everything else in the mailbox.
	PriorityCritical Priority = iota
	// PriorityHigh is served before normal traffic.
	PriorityHigh
	// PriorityNormal is the baseline priority for prioritized sends.
	PriorityNormal
	// PriorityLow is served after all other prioritized activities.
	PriorityLow
)

// Activity is the unit of work delivered to a runtime. After being offered to
// a mailbox it should be treated as immutable: it is consumed exactly once by
// the owning processing loop and copied as-is to every subscriber.
type Activity struct {
	// ID is caller-assigned and not required to be unique.
	ID string `json:"id"`
	// RuntimeID addresses the target runtime.
	RuntimeID string `json:"runtime_id"`
	// Type selects the reducer branch applied to the payload.
	Type Type `json:"type"`
	// Payload is an opaque structured value, typically a map.
	Payload any `json:"payload,omitempty"`
	// Metadata is an open map; MetadataPriority is the only key the runtime
	// itself recognizes.
	Metadata map[string]any `json:"metadata,omitempty"`
	// Sequence is a monotonically increasing number assigned by the sender.
	// It is diagnostic only and never influences dequeue order.
	Sequence uint64 `json:"sequence"`
	// Timestamp records creation time in UTC.
	Timestamp time.Time `json:"timestamp"`
}

// NewActivity creates an activity of the given type addressed to runtimeID.
// Prefer the typed constructors for common cases.
func NewActivity(runtimeID string, typ Type, payload any) Activity {
	return Activity{
		ID:        NewID(),
		RuntimeID: runtimeID,
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// NewStateChange creates a state-change activity whose fields the default
// reducer shallow-merges into the runtime state.
func NewStateChange(runtimeID string, payload map[string]any) Activity {
	return NewActivity(runtimeID, TypeStateChange, payload)
}

// NewCommand creates a command activity for a domain reducer to interpret.
func NewCommand(runtimeID string, payload any) Activity {
	return NewActivity(runtimeID, TypeCommand, payload)
}

// NewEvent creates an observation-only activity. Consuming it leaves the
// runtime state unchanged.
func NewEvent(runtimeID string, payload any) Activity {
	return NewActivity(runtimeID, TypeEvent, payload)
}

// NewID generates a new unique identifier for activities and runtimes.
func NewID() string { return uuid.NewString() }

// WithPriority returns a copy of the activity tagged with the given
// scheduling priority. The original metadata map is not mutated.
func (a Activity) WithPriority(p Priority) Activity {
	md := make(map[string]any, len(a.Metadata)+1)
	for k, v := range a.Metadata {
		md[k] = v
	}
	md[MetadataPriority] = p
	a.Metadata = md
	return a
}

// WithSequence returns a copy of the activity carrying the given sender
// sequence number.
func (a Activity) WithSequence(n uint64) Activity {
	a.Sequence = n
	return a
}

// GetPriority extracts the scheduling priority from the activity metadata.
// The second return value reports whether a priority was set. Numeric values
// are accepted alongside Priority so activities that round-tripped through
// JSON keep their lane.
func (a Activity) GetPriority() (Priority, bool) {
	raw, ok := a.Metadata[MetadataPriority]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case Priority:
		return v, true
	case int:
		return Priority(v), true
	case int64:
		return Priority(v), true
	case float64:
		return Priority(v), true
	default:
		return 0, false
	}
}
