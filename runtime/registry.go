package runtime

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/logging"
	"github.com/hupe1980/actormesh/mailbox"
	"github.com/hupe1980/actormesh/metrics"
)

// ErrRegistryClosed is returned by operations on a registry after Close.
var ErrRegistryClosed = errors.New("registry closed")

// Options configures a Registry instance.
type Options struct {
	// Mailbox is the configuration applied to every runtime's mailbox.
	// Defaults to mailbox.DefaultConfig.
	Mailbox mailbox.Config

	// Logger provides structured logging. Defaults to NoOpLogger so the
	// registry has no logging dependencies unless one is supplied.
	Logger logging.Logger

	// Metrics is an optional processing metrics collector; nil disables
	// metrics collection.
	Metrics *metrics.Collector
}

// Registry is the shared map from runtime id to live instance. It arbitrates
// create/terminate races: insert and remove are atomic check-and-set
// operations under the registry lock, so for any id exactly one concurrent
// create and exactly one concurrent terminate can win.
type Registry struct {
	opts Options

	mu       sync.RWMutex
	runtimes map[string]*Instance
	closed   bool

	// seq stamps activities that arrive without a sender sequence.
	seq atomic.Uint64
}

// New creates a registry with optional configuration overrides.
func New(optFns ...func(o *Options)) *Registry {
	opts := Options{
		Mailbox: mailbox.DefaultConfig(),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Registry{
		opts:     opts,
		runtimes: make(map[string]*Instance),
	}
}

// WithLogger sets the registry logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithMailboxConfig sets the mailbox configuration applied to new runtimes.
func WithMailboxConfig(cfg mailbox.Config) func(o *Options) {
	return func(o *Options) { o.Mailbox = cfg }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) func(o *Options) {
	return func(o *Options) { o.Metrics = c }
}

// Create allocates a new runtime with the given initial state and reducer
// and spawns its processing loop. An empty id is replaced by a generated one;
// the effective id is returned. A nil reducer selects core.DefaultReducer.
// If the id is currently alive, Create fails with *core.AlreadyExistsError
// and the existing runtime is unaffected.
func (r *Registry) Create(id string, initialState any, reducer core.Reducer) (string, error) {
	if id == "" {
		id = core.NewID()
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrRegistryClosed
	}
	if _, exists := r.runtimes[id]; exists {
		r.mu.Unlock()
		return "", &core.AlreadyExistsError{ID: id}
	}
	inst := newInstance(id, initialState, reducer, r.opts.Mailbox, r.opts.Logger, r.opts.Metrics)
	r.runtimes[id] = inst
	r.mu.Unlock()

	inst.start()

	if r.opts.Metrics != nil {
		r.opts.Metrics.RuntimeCreated(id)
	}
	r.opts.Logger.Debug("runtime created", "runtime_id", id)
	return id, nil
}

// Send forwards an activity to the runtime's mailbox. It fails with
// *core.NotFoundError for absent ids and core.ErrMailboxFull when the target
// lane stays full past the backpressure timeout. A send racing a terminate
// also reports not-found: termination removes the id atomically, so a closed
// mailbox is indistinguishable from an absent runtime to the caller.
func (r *Registry) Send(id string, act core.Activity) error {
	inst, err := r.lookup(id)
	if err != nil {
		return err
	}

	if act.RuntimeID == "" {
		act.RuntimeID = id
	}
	if act.Sequence == 0 {
		act.Sequence = r.seq.Add(1)
	}

	if err := inst.mailbox.Offer(act); err != nil {
		if errors.Is(err, core.ErrMailboxClosed) {
			return &core.NotFoundError{ID: id}
		}
		return err
	}
	return nil
}

// GetState returns a consistent snapshot of the runtime state. The snapshot
// is a deep copy; mutating it never affects the live runtime.
func (r *Registry) GetState(id string) (core.RuntimeState, error) {
	inst, err := r.lookup(id)
	if err != nil {
		return core.RuntimeState{}, err
	}
	return inst.snapshot(), nil
}

// Subscribe registers a fresh observer channel on the runtime. Every
// activity consumed from the mailbox is copied to the channel, independent
// of processing outcome; the channel is closed when the runtime terminates.
func (r *Registry) Subscribe(id string) (<-chan core.Activity, error) {
	inst, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return inst.hub.subscribe(), nil
}

// Terminate interrupts the runtime's processing loop, shuts down its mailbox
// (discarding queued activities), closes all subscriber channels and removes
// the id from the registry. Exactly one of any set of concurrent Terminate
// calls for the same id succeeds; the rest fail with *core.NotFoundError.
func (r *Registry) Terminate(id string) error {
	r.mu.Lock()
	inst, ok := r.runtimes[id]
	if !ok {
		r.mu.Unlock()
		return &core.NotFoundError{ID: id}
	}
	delete(r.runtimes, id)
	r.mu.Unlock()

	inst.stop()

	if r.opts.Metrics != nil {
		r.opts.Metrics.RuntimeTerminated(id)
	}
	r.opts.Logger.Debug("runtime terminated", "runtime_id", id)
	return nil
}

// Runtimes lists the ids of all currently alive runtimes.
func (r *Registry) Runtimes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.runtimes))
	for id := range r.runtimes {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of currently alive runtimes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runtimes)
}

// Close terminates every runtime and marks the registry closed. Subsequent
// Create calls fail with ErrRegistryClosed; other operations report
// not-found. Close is idempotent.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	instances := make([]*Instance, 0, len(r.runtimes))
	for _, inst := range r.runtimes {
		instances = append(instances, inst)
	}
	r.runtimes = make(map[string]*Instance)
	r.mu.Unlock()

	for _, inst := range instances {
		inst.stop()
		if r.opts.Metrics != nil {
			r.opts.Metrics.RuntimeTerminated(inst.ID())
		}
	}
	r.opts.Logger.Debug("registry closed", "terminated", len(instances))
}

func (r *Registry) lookup(id string) (*Instance, error) {
	r.mu.RLock()
	inst, ok := r.runtimes[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &core.NotFoundError{ID: id}
	}
	return inst, nil
}
