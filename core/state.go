package core

import "time"

// Status describes the lifecycle phase of a runtime as observed through
// state snapshots.
type Status int

const (
	// StatusIdle means the processing loop is waiting for work.
	StatusIdle Status = iota
	// StatusProcessing means an activity is currently being reduced.
	StatusProcessing
	// StatusError means the most recent reducer application failed; the loop
	// keeps running and the status resets on the next success.
	StatusError
	// StatusTerminated means the runtime has been stopped and removed.
	StatusTerminated
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusProcessing:
		return "PROCESSING"
	case StatusError:
		return "ERROR"
	case StatusTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// ProcessingStats aggregates per-runtime reducer bookkeeping. Processed and
// Failures are monotonically non-decreasing while the runtime is alive and
// frozen at termination.
type ProcessingStats struct {
	Processed uint64 `json:"processed"`
	Failures  uint64 `json:"failures"`
	// AvgProcessingTime is the mean duration of successful reducer
	// applications, in milliseconds.
	AvgProcessingTime float64          `json:"avg_processing_time"`
	LastError         *ProcessingError `json:"last_error,omitempty"`
}

// RuntimeState is the observable snapshot of a runtime. State is owned
// exclusively by the runtime's processing loop; readers only ever see copies.
type RuntimeState struct {
	ID          string          `json:"id"`
	State       any             `json:"state"`
	Status      Status          `json:"status"`
	LastUpdated time.Time       `json:"last_updated"`
	Processing  ProcessingStats `json:"processing"`
	// Error holds the last reducer failure; it is cleared by the next
	// successful application.
	Error *ProcessingError `json:"error,omitempty"`
}

// NewRuntimeState creates the initial snapshot for a freshly created runtime.
func NewRuntimeState(id string, initial any) RuntimeState {
	return RuntimeState{
		ID:          id,
		State:       initial,
		Status:      StatusIdle,
		LastUpdated: time.Now().UTC(),
	}
}

// Clone returns a deep copy of the snapshot safe for independent use.
// Map- and slice-shaped state is copied recursively; other state values are
// copied by assignment.
func (s RuntimeState) Clone() RuntimeState {
	clone := s
	clone.State = cloneValue(s.State)
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
