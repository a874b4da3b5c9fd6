package task

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/runtime"
)

// Actor hosts a multi-step task on a base runtime. Command activities are
// intercepted and run through the pure step machine; the resulting state
// delta is forwarded to the runtime as an ordinary state change, so the base
// reducer and every subscriber see only plain activities.
type Actor struct {
	registry *runtime.Registry
	id       string
	cfg      Config

	// mu serializes command handling so concurrent Sends cannot interleave
	// transitions on the machine.
	mu    sync.Mutex
	state State
}

// New creates the backing runtime and returns the actor bound to it. The
// runtime starts with the machine's initial projection as its state and uses
// the default merge reducer.
func New(registry *runtime.Registry, id string, cfg Config) (*Actor, error) {
	if len(cfg.Steps) == 0 {
		return nil, fmt.Errorf("task config needs at least one step")
	}

	state := NewState(cfg)
	effectiveID, err := registry.Create(id, StateDelta(state), nil)
	if err != nil {
		return nil, err
	}

	return &Actor{
		registry: registry,
		id:       effectiveID,
		cfg:      cfg,
		state:    state,
	}, nil
}

// ID returns the id of the backing runtime.
func (a *Actor) ID() string { return a.id }

// Send intercepts task commands and forwards everything else untouched. A
// rejected transition (for example pausing a task that never started) fails
// synchronously and leaves both the machine and the runtime state unchanged.
func (a *Actor) Send(act core.Activity) error {
	if act.Type != core.TypeCommand {
		return a.registry.Send(a.id, act)
	}

	cmd, ok := commandOf(act.Payload)
	if !ok {
		return a.registry.Send(a.id, act)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var (
		next State
		err  error
	)
	if cmd == CommandResume {
		next, err = a.resume()
	} else {
		next, err = Transition(a.state, cmd, time.Now().UTC())
	}
	if err != nil {
		return err
	}

	derived := core.NewStateChange(a.id, StateDelta(next))
	if p, ok := act.GetPriority(); ok {
		derived = derived.WithPriority(p)
	}
	if err := a.registry.Send(a.id, derived); err != nil {
		return err
	}

	a.state = next
	return nil
}

// resume performs the simulated unit of work for the current step and either
// advances the machine or records a step failure. The machine stays valid
// either way; only the step outcome differs.
func (a *Actor) resume() (State, error) {
	step := a.state.CurrentStep
	if step == "" {
		return State{}, fmt.Errorf("no active step to resume")
	}
	status := a.state.Steps[step].Status
	if status != StepRunning && status != StepPaused {
		return State{}, fmt.Errorf("step %q is not resumable", step)
	}

	if a.cfg.MaxResumeDelay > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(a.cfg.MaxResumeDelay))))
	}

	now := time.Now().UTC()
	if a.cfg.FailureRate > 0 && rand.Float64() < a.cfg.FailureRate {
		return Fail(a.state, fmt.Sprintf("step %q failed", step), now)
	}
	return Advance(a.state, now)
}

// State returns the backing runtime's state snapshot.
func (a *Actor) State() (core.RuntimeState, error) {
	return a.registry.GetState(a.id)
}

// Machine returns a copy of the actor's current step machine.
func (a *Actor) Machine() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

// Terminate tears down the backing runtime.
func (a *Actor) Terminate() error {
	return a.registry.Terminate(a.id)
}

// commandOf extracts a task command from an activity payload. Payloads may
// carry the command directly or as a string.
func commandOf(payload any) (Command, bool) {
	switch v := payload.(type) {
	case Command:
		return v, true
	case string:
		switch Command(v) {
		case CommandStart, CommandPause, CommandResume:
			return Command(v), true
		}
	}
	return "", false
}
