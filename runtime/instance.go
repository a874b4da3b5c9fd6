package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/actormesh/core"
	"github.com/hupe1980/actormesh/logging"
	"github.com/hupe1980/actormesh/mailbox"
	"github.com/hupe1980/actormesh/metrics"
)

// Instance binds a runtime's state, mailbox, broadcast hub and the single
// processing goroutine that owns state mutation. Instances are created and
// owned by the Registry; external callers interact with them only through
// registry operations.
type Instance struct {
	id      string
	mailbox *mailbox.Mailbox
	hub     *hub
	reducer core.Reducer

	// state is written only by the processing goroutine; the mutex exists so
	// readers can take consistent snapshots.
	mu    sync.RWMutex
	state core.RuntimeState

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	logger    logging.Logger
	collector *metrics.Collector
}

func newInstance(id string, initial any, reducer core.Reducer, cfg mailbox.Config, logger logging.Logger, collector *metrics.Collector) *Instance {
	if reducer == nil {
		reducer = core.DefaultReducer()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Instance{
		id:        id,
		mailbox:   mailbox.New(cfg),
		hub:       newHub(),
		reducer:   reducer,
		state:     core.NewRuntimeState(id, initial),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		logger:    logger,
		collector: collector,
	}
}

// ID returns the runtime identifier.
func (in *Instance) ID() string { return in.id }

// start spawns the processing goroutine. Called exactly once by the registry.
func (in *Instance) start() {
	go in.loop()
}

// loop is the processing task: take, broadcast, reduce, repeat. It exits only
// when the mailbox is shut down or the instance context is cancelled.
func (in *Instance) loop() {
	defer close(in.done)
	for {
		select {
		case <-in.ctx.Done():
			return
		default:
		}

		act, err := in.mailbox.Take()
		if err != nil {
			return
		}

		// Subscribers observe every consumed activity, even when the reducer
		// subsequently fails.
		in.hub.publish(act)
		in.process(act)
	}
}

// process applies the reducer to a single activity and updates the state
// snapshot. Reducer failures are recorded, never propagated.
func (in *Instance) process(act core.Activity) {
	in.mu.Lock()
	in.state.Status = core.StatusProcessing
	current := in.state.State
	in.mu.Unlock()

	start := time.Now()
	next, err := in.applyReducer(act, current)
	dur := time.Since(start)

	if in.collector != nil {
		in.collector.ActivityProcessed(in.id, string(act.Type), dur, err)
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	in.state.LastUpdated = time.Now().UTC()
	if err != nil {
		perr := core.AsProcessingError(err)
		in.state.Status = core.StatusError
		in.state.Processing.Failures++
		in.state.Processing.LastError = perr
		in.state.Error = perr
		in.logger.Warn("activity processing failed",
			"runtime_id", in.id,
			"activity_id", act.ID,
			"activity_type", string(act.Type),
			"error", perr.Error(),
		)
		return
	}

	in.state.State = next
	in.state.Status = core.StatusIdle
	in.state.Processing.Processed++
	in.state.Error = nil

	// Incremental mean over successful applications, in milliseconds.
	durMs := float64(dur) / float64(time.Millisecond)
	stats := &in.state.Processing
	stats.AvgProcessingTime += (durMs - stats.AvgProcessingTime) / float64(stats.Processed)

	in.logger.Debug("activity processed",
		"runtime_id", in.id,
		"activity_id", act.ID,
		"activity_type", string(act.Type),
		"duration", dur,
	)
}

// applyReducer invokes the reducer, converting panics into processing errors
// so a misbehaving reducer cannot kill the loop.
func (in *Instance) applyReducer(act core.Activity, state any) (next any, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = state
			err = core.NewProcessingError(fmt.Sprintf("reducer panic: %v", r))
		}
	}()
	return in.reducer.Reduce(in.ctx, act, state)
}

// snapshot returns a consistent deep copy of the runtime state.
func (in *Instance) snapshot() core.RuntimeState {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.state.Clone()
}

// stop interrupts the processing loop, discards queued activities and closes
// all subscriber channels. It blocks until the loop has exited; an in-flight
// reducer call sees its context cancelled but is not forcibly aborted.
func (in *Instance) stop() {
	in.cancel()
	in.mailbox.Shutdown()
	<-in.done

	in.mu.Lock()
	in.state.Status = core.StatusTerminated
	in.state.LastUpdated = time.Now().UTC()
	in.mu.Unlock()

	in.hub.closeAll()
}
