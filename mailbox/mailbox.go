// Package mailbox implements the bounded, optionally prioritized queue that
// buffers activities between senders and a runtime's processing loop. It is
// the only backpressure point exposed to senders.
package mailbox

import (
	"container/heap"
	"sync"
	"time"

	"github.com/hupe1980/actormesh/core"
)

// Config tunes a mailbox instance.
type Config struct {
	// Capacity bounds the default FIFO lane.
	Capacity int
	// EnablePrioritization routes activities carrying priority metadata into
	// a separate priority-ordered lane. When disabled, the mailbox is a
	// single global FIFO.
	EnablePrioritization bool
	// PriorityCapacity bounds the priority lane.
	PriorityCapacity int
	// BackpressureTimeout is how long Offer waits for room in a full lane
	// before giving up. Zero means fail fast.
	BackpressureTimeout time.Duration
}

// DefaultConfig returns the baseline mailbox configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:             1024,
		EnablePrioritization: true,
		PriorityCapacity:     64,
	}
}

// entry wraps a queued activity with its scheduling key. Arrival breaks
// priority ties so equal-priority activities stay in submission order.
type entry struct {
	activity core.Activity
	priority core.Priority
	arrival  uint64
}

// priorityLane is a min-heap over (priority, arrival).
type priorityLane []*entry

func (l priorityLane) Len() int { return len(l) }

func (l priorityLane) Less(i, j int) bool {
	if l[i].priority != l[j].priority {
		return l[i].priority < l[j].priority
	}
	return l[i].arrival < l[j].arrival
}

func (l priorityLane) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

func (l *priorityLane) Push(x any) { *l = append(*l, x.(*entry)) }

func (l *priorityLane) Pop() any {
	old := *l
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*l = old[:n-1]
	return e
}

// Mailbox is a two-lane bounded queue. The priority lane is strictly served
// before the default lane; within the priority lane, lower priority values
// win and ties fall back to arrival order. The default lane is FIFO.
type Mailbox struct {
	cfg Config

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	priority priorityLane
	fifo     []core.Activity
	arrivals uint64
	closed   bool
}

// New creates a mailbox; non-positive capacities fall back to the defaults.
func New(cfg Config) *Mailbox {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.PriorityCapacity <= 0 {
		cfg.PriorityCapacity = def.PriorityCapacity
	}
	m := &Mailbox{cfg: cfg}
	m.notEmpty = sync.NewCond(&m.mu)
	m.notFull = sync.NewCond(&m.mu)
	return m
}

// Offer enqueues an activity into its lane. It returns nil on success,
// core.ErrMailboxFull when the lane stays at capacity past the configured
// backpressure timeout, and core.ErrMailboxClosed after shutdown.
func (m *Mailbox) Offer(act core.Activity) error {
	prio, prioritized := act.GetPriority()
	prioritized = prioritized && m.cfg.EnablePrioritization

	m.mu.Lock()
	defer m.mu.Unlock()

	var deadline time.Time
	if m.cfg.BackpressureTimeout > 0 {
		deadline = time.Now().Add(m.cfg.BackpressureTimeout)
	}

	for {
		if m.closed {
			return core.ErrMailboxClosed
		}
		if prioritized {
			if len(m.priority) < m.cfg.PriorityCapacity {
				heap.Push(&m.priority, &entry{activity: act, priority: prio, arrival: m.arrivals})
				m.arrivals++
				m.notEmpty.Signal()
				return nil
			}
		} else if len(m.fifo) < m.cfg.Capacity {
			m.fifo = append(m.fifo, act)
			m.notEmpty.Signal()
			return nil
		}
		if m.cfg.BackpressureTimeout <= 0 {
			return core.ErrMailboxFull
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return core.ErrMailboxFull
		}
		// Wake ourselves when the deadline passes; Wait has no timeout form.
		timer := time.AfterFunc(remaining, m.notFull.Broadcast)
		m.notFull.Wait()
		timer.Stop()
	}
}

// Take blocks until an activity is available or the mailbox is shut down.
// The priority lane is always drained before the default lane.
func (m *Mailbox) Take() (core.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		if m.closed {
			return core.Activity{}, core.ErrMailboxClosed
		}
		if len(m.priority) > 0 {
			e := heap.Pop(&m.priority).(*entry)
			m.notFull.Broadcast()
			return e.activity, nil
		}
		if len(m.fifo) > 0 {
			act := m.fifo[0]
			m.fifo = m.fifo[1:]
			m.notFull.Broadcast()
			return act, nil
		}
		m.notEmpty.Wait()
	}
}

// Shutdown marks the mailbox closed, discards queued entries and unblocks
// every waiter with core.ErrMailboxClosed. It is idempotent.
func (m *Mailbox) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.priority = nil
	m.fifo = nil
	m.notEmpty.Broadcast()
	m.notFull.Broadcast()
}

// Len returns the number of currently queued activities across both lanes.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.priority) + len(m.fifo)
}

// Closed reports whether the mailbox has been shut down.
func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
