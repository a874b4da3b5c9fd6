package runtime

import (
	"sync"

	"github.com/hupe1980/actormesh/core"
)

// subscriber decouples the processing loop from a single consumer. Published
// activities land in an unbounded buffer drained by a pump goroutine, so a
// slow consumer never blocks publishing. The unbounded buffer is a deliberate
// tradeoff: memory grows without bound under a permanently stalled consumer.
type subscriber struct {
	mu     sync.Mutex
	buf    []core.Activity
	closed bool

	wake chan struct{}
	done chan struct{}
	out  chan core.Activity

	closeOnce sync.Once
}

func newSubscriber() *subscriber {
	s := &subscriber{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan core.Activity),
	}
	go s.pump()
	return s
}

// publish appends the activity to the buffer. It never blocks.
func (s *subscriber) publish(act core.Activity) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.buf = append(s.buf, act)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// close ends the subscriber's sequence. Buffered activities that the consumer
// has not yet drained are discarded, matching mailbox shutdown semantics.
func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *subscriber) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.buf) == 0 {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-s.wake:
			case <-s.done:
			}
			continue
		}
		act := s.buf[0]
		s.buf = s.buf[1:]
		s.mu.Unlock()

		select {
		case s.out <- act:
		case <-s.done:
			return
		}
	}
}

// hub fans consumed activities out to all currently registered subscribers.
type hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[*subscriber]struct{})}
}

// subscribe allocates a fresh output channel. After the hub is closed it
// returns an already-closed channel so late subscribers see an immediately
// completed sequence.
func (h *hub) subscribe() <-chan core.Activity {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		ch := make(chan core.Activity)
		close(ch)
		return ch
	}
	s := newSubscriber()
	h.subs[s] = struct{}{}
	return s.out
}

// publish copies the activity to every currently registered subscriber.
func (h *hub) publish(act core.Activity) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.publish(act)
	}
}

// closeAll closes every subscriber channel as a batch and marks the hub
// closed. Idempotent.
func (h *hub) closeAll() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.subs = nil
	h.mu.Unlock()

	for _, s := range subs {
		s.close()
	}
}

// count returns the number of registered subscribers.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
