package task

import (
	"fmt"
	"time"
)

// StepStatus is the lifecycle phase of a single step.
type StepStatus string

const (
	StepPending   StepStatus = "PENDING"
	StepRunning   StepStatus = "RUNNING"
	StepPaused    StepStatus = "PAUSED"
	StepCompleted StepStatus = "COMPLETED"
	StepFailed    StepStatus = "FAILED"
)

// Command is a task-level instruction carried as the payload of a command
// activity.
type Command string

const (
	CommandStart  Command = "START_TASK"
	CommandPause  Command = "PAUSE_TASK"
	CommandResume Command = "RESUME_TASK"
)

// Config declares the ordered steps of a task and the simulation knobs for
// resumed work.
type Config struct {
	// Steps is the ordered list of step names. Must be non-empty.
	Steps []string

	// MaxResumeDelay bounds the simulated work delay on resume. Zero means
	// resume completes immediately.
	MaxResumeDelay time.Duration

	// FailureRate is the probability in [0, 1] that a resumed unit of work
	// fails.
	FailureRate float64
}

// StepState tracks progress of one step.
type StepState struct {
	Status      StepStatus `json:"status"`
	StartedAt   time.Time  `json:"started_at,omitempty"`
	CompletedAt time.Time  `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// State is the full task machine state. Values are treated as immutable;
// every transition returns a fresh copy.
type State struct {
	CurrentStep string
	Steps       map[string]StepState
	Config      Config
}

// NewState initializes the machine with every configured step pending and no
// current step.
func NewState(cfg Config) State {
	steps := make(map[string]StepState, len(cfg.Steps))
	for _, name := range cfg.Steps {
		steps[name] = StepState{Status: StepPending}
	}
	return State{Steps: steps, Config: cfg}
}

// clone copies the state so transitions never alias the input's step map.
func (s State) clone() State {
	steps := make(map[string]StepState, len(s.Steps))
	for name, step := range s.Steps {
		steps[name] = step
	}
	s.Steps = steps
	return s
}

// Done reports whether every step has completed.
func (s State) Done() bool {
	for _, step := range s.Steps {
		if step.Status != StepCompleted {
			return false
		}
	}
	return len(s.Steps) > 0
}

// Transition applies a synchronous command to the machine. Resume is not
// handled here: it involves a unit of work and is driven by the actor, which
// then applies Advance or Fail with the outcome.
func Transition(s State, cmd Command, now time.Time) (State, error) {
	switch cmd {
	case CommandStart:
		return start(s, now)
	case CommandPause:
		return pause(s)
	default:
		return State{}, fmt.Errorf("unknown task command %q", cmd)
	}
}

func start(s State, now time.Time) (State, error) {
	if s.CurrentStep != "" {
		return State{}, fmt.Errorf("task already started at step %q", s.CurrentStep)
	}
	if len(s.Config.Steps) == 0 {
		return State{}, fmt.Errorf("task has no steps configured")
	}

	next := s.clone()
	first := s.Config.Steps[0]
	next.CurrentStep = first
	next.Steps[first] = StepState{Status: StepRunning, StartedAt: now}
	return next, nil
}

func pause(s State) (State, error) {
	step, err := s.currentRunning()
	if err != nil {
		return State{}, err
	}

	next := s.clone()
	paused := next.Steps[step]
	paused.Status = StepPaused
	next.Steps[step] = paused
	return next, nil
}

// Advance completes the current step and starts the next configured one. On
// the last step the machine ends with no current step and all steps
// completed.
func Advance(s State, now time.Time) (State, error) {
	step := s.CurrentStep
	if step == "" {
		return State{}, fmt.Errorf("no active step to advance")
	}
	cur, ok := s.Steps[step]
	if !ok || (cur.Status != StepRunning && cur.Status != StepPaused) {
		return State{}, fmt.Errorf("step %q is not in progress", step)
	}

	next := s.clone()
	cur.Status = StepCompleted
	cur.CompletedAt = now
	next.Steps[step] = cur

	if follower, ok := s.followerOf(step); ok {
		next.CurrentStep = follower
		next.Steps[follower] = StepState{Status: StepRunning, StartedAt: now}
	} else {
		next.CurrentStep = ""
	}
	return next, nil
}

// Fail marks the current step failed with the given message. The machine
// keeps the failed step current so callers can inspect it.
func Fail(s State, msg string, now time.Time) (State, error) {
	step := s.CurrentStep
	if step == "" {
		return State{}, fmt.Errorf("no active step to fail")
	}

	next := s.clone()
	failed := next.Steps[step]
	failed.Status = StepFailed
	failed.CompletedAt = now
	failed.Error = msg
	next.Steps[step] = failed
	return next, nil
}

// StateDelta projects the machine into the structured payload carried by the
// derived state-change activity.
func StateDelta(s State) map[string]any {
	steps := make(map[string]any, len(s.Steps))
	for name, step := range s.Steps {
		entry := map[string]any{"status": string(step.Status)}
		if !step.StartedAt.IsZero() {
			entry["started_at"] = step.StartedAt.UTC().Format(time.RFC3339Nano)
		}
		if !step.CompletedAt.IsZero() {
			entry["completed_at"] = step.CompletedAt.UTC().Format(time.RFC3339Nano)
		}
		if step.Error != "" {
			entry["error"] = step.Error
		}
		steps[name] = entry
	}
	return map[string]any{
		"current_step": s.CurrentStep,
		"steps":        steps,
		"done":         s.Done(),
	}
}

func (s State) currentRunning() (string, error) {
	step := s.CurrentStep
	if step == "" {
		return "", fmt.Errorf("no active step")
	}
	if s.Steps[step].Status != StepRunning {
		return "", fmt.Errorf("step %q is not running", step)
	}
	return step, nil
}

func (s State) followerOf(step string) (string, bool) {
	for i, name := range s.Config.Steps {
		if name == step && i+1 < len(s.Config.Steps) {
			return s.Config.Steps[i+1], true
		}
	}
	return "", false
}
