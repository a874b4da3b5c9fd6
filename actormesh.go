// Package actormesh provides a high-level façade over the runtime registry,
// the prioritized mailbox and the broadcast mechanism enabling rapid
// construction of in-process actor systems. Most applications interact with
// this package by:
//  1. Creating an ActorMesh via New() (optionally overriding mailbox, logging
//     and metrics defaults)
//  2. Creating one or more runtimes with an initial state and a reducer
//  3. Driving them through Send/GetState/Subscribe and tearing them down with
//     Terminate
//
// The façade delegates all coordination to runtime.Registry while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a
// structured logger and a metrics collector.
package actormesh

import (
	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/logging"
	"github.com/hupe1980/actormesh/mailbox"
	"github.com/hupe1980/actormesh/metrics"
	"github.com/hupe1980/actormesh/runtime"
)

// Options configures the ActorMesh instance.
type Options struct {
	// Mailbox configuration applied to every runtime (capacities,
	// prioritization, backpressure timeout).
	Mailbox mailbox.Config

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// Metrics is an optional Prometheus collector; nil disables metrics.
	Metrics *metrics.Collector
}

// ActorMesh is the high-level façade aggregating the runtime registry.
type ActorMesh struct {
	opts     Options
	registry *runtime.Registry
}

// New creates a new ActorMesh instance with optional overrides.
func New(optFns ...func(o *Options)) *ActorMesh {
	opts := Options{
		Mailbox: mailbox.DefaultConfig(),
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	r := runtime.New(func(o *runtime.Options) {
		o.Mailbox = opts.Mailbox
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	return &ActorMesh{opts: opts, registry: r}
}

// Create allocates a runtime with the given initial state and reducer and
// returns its effective id. An empty id is replaced by a generated one; a nil
// reducer selects the default merge reducer.
func (m *ActorMesh) Create(id string, initialState any, reducer core.Reducer) (string, error) {
	return m.registry.Create(id, initialState, reducer)
}

// Send forwards an activity to the runtime's mailbox.
func (m *ActorMesh) Send(id string, act core.Activity) error {
	return m.registry.Send(id, act)
}

// GetState returns a consistent snapshot of the runtime state.
func (m *ActorMesh) GetState(id string) (core.RuntimeState, error) {
	return m.registry.GetState(id)
}

// Subscribe registers an observer channel that receives every activity the
// runtime consumes until it terminates.
func (m *ActorMesh) Subscribe(id string) (<-chan core.Activity, error) {
	return m.registry.Subscribe(id)
}

// Terminate tears down the runtime and removes its id from the registry.
func (m *ActorMesh) Terminate(id string) error {
	return m.registry.Terminate(id)
}

// Close terminates every runtime and closes the underlying registry.
func (m *ActorMesh) Close() {
	m.registry.Close()
}

// Registry exposes the underlying registry for layered actors that need
// direct access (see the task package).
func (m *ActorMesh) Registry() *runtime.Registry {
	return m.registry
}
