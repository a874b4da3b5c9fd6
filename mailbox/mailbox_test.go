package mailbox

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/actormesh/core"
)

func TestOfferFailsFastWhenFull(t *testing.T) {
	m := New(Config{Capacity: 1})

	require.NoError(t, m.Offer(core.NewEvent("r1", "first")))
	assert.ErrorIs(t, m.Offer(core.NewEvent("r1", "second")), core.ErrMailboxFull)
	assert.Equal(t, 1, m.Len())
}

func TestTakeReturnsFIFOOrder(t *testing.T) {
	m := New(Config{Capacity: 8})

	for _, payload := range []string{"a", "b", "c"} {
		require.NoError(t, m.Offer(core.NewEvent("r1", payload)))
	}

	for _, want := range []string{"a", "b", "c"} {
		act, err := m.Take()
		require.NoError(t, err)
		assert.Equal(t, want, act.Payload)
	}
}

func TestPriorityLaneServedFirstInPriorityOrder(t *testing.T) {
	m := New(Config{Capacity: 8, EnablePrioritization: true, PriorityCapacity: 8})

	require.NoError(t, m.Offer(core.NewEvent("r1", "plain")))
	for _, p := range []core.Priority{2, 0, 1} {
		require.NoError(t, m.Offer(core.NewEvent("r1", int(p)).WithPriority(p)))
	}

	// Strict priority: 0, 1, 2 before the default lane entry.
	for _, want := range []int{0, 1, 2} {
		act, err := m.Take()
		require.NoError(t, err)
		assert.Equal(t, want, act.Payload)
	}

	act, err := m.Take()
	require.NoError(t, err)
	assert.Equal(t, "plain", act.Payload)
}

func TestEqualPriorityKeepsArrivalOrder(t *testing.T) {
	m := New(Config{Capacity: 8, EnablePrioritization: true, PriorityCapacity: 8})

	for _, payload := range []string{"first", "second", "third"} {
		require.NoError(t, m.Offer(core.NewEvent("r1", payload).WithPriority(core.PriorityNormal)))
	}

	for _, want := range []string{"first", "second", "third"} {
		act, err := m.Take()
		require.NoError(t, err)
		assert.Equal(t, want, act.Payload)
	}
}

func TestDisabledPrioritizationIsGlobalFIFO(t *testing.T) {
	m := New(Config{Capacity: 8, EnablePrioritization: false})

	require.NoError(t, m.Offer(core.NewEvent("r1", "normal")))
	require.NoError(t, m.Offer(core.NewEvent("r1", "tagged").WithPriority(core.PriorityCritical)))

	act, err := m.Take()
	require.NoError(t, err)
	assert.Equal(t, "normal", act.Payload, "priority metadata must be ignored when disabled")
}

func TestTakeBlocksUntilOffer(t *testing.T) {
	m := New(DefaultConfig())

	done := make(chan core.Activity, 1)
	go func() {
		act, err := m.Take()
		if err == nil {
			done <- act
		}
	}()

	select {
	case <-done:
		t.Fatal("take returned before any offer")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, m.Offer(core.NewEvent("r1", "late")))

	select {
	case act := <-done:
		assert.Equal(t, "late", act.Payload)
	case <-time.After(time.Second):
		t.Fatal("take did not observe the offer")
	}
}

func TestBackpressureTimeoutReleasedByTake(t *testing.T) {
	m := New(Config{Capacity: 1, BackpressureTimeout: time.Second})
	require.NoError(t, m.Offer(core.NewEvent("r1", "occupant")))

	go func() {
		time.Sleep(30 * time.Millisecond)
		_, _ = m.Take()
	}()

	start := time.Now()
	err := m.Offer(core.NewEvent("r1", "waiter"))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "offer should return as soon as room frees up")
}

func TestBackpressureTimeoutExpires(t *testing.T) {
	m := New(Config{Capacity: 1, BackpressureTimeout: 30 * time.Millisecond})
	require.NoError(t, m.Offer(core.NewEvent("r1", "occupant")))

	start := time.Now()
	err := m.Offer(core.NewEvent("r1", "waiter"))
	assert.ErrorIs(t, err, core.ErrMailboxFull)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestShutdownUnblocksTakers(t *testing.T) {
	m := New(DefaultConfig())

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Take()
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	m.Shutdown()
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.ErrorIs(t, err, core.ErrMailboxClosed)
	}
}

func TestShutdownDiscardsQueuedEntries(t *testing.T) {
	m := New(DefaultConfig())
	require.NoError(t, m.Offer(core.NewEvent("r1", "pending")))

	m.Shutdown()

	assert.True(t, m.Closed())
	assert.Equal(t, 0, m.Len())

	_, err := m.Take()
	assert.ErrorIs(t, err, core.ErrMailboxClosed)
	assert.ErrorIs(t, m.Offer(core.NewEvent("r1", "late")), core.ErrMailboxClosed)
}

func TestShutdownIsIdempotent(t *testing.T) {
	m := New(DefaultConfig())
	m.Shutdown()
	assert.NotPanics(t, m.Shutdown)
}

func TestPriorityLaneHasOwnCapacity(t *testing.T) {
	m := New(Config{Capacity: 8, EnablePrioritization: true, PriorityCapacity: 1})

	require.NoError(t, m.Offer(core.NewEvent("r1", "p1").WithPriority(core.PriorityHigh)))
	assert.ErrorIs(t, m.Offer(core.NewEvent("r1", "p2").WithPriority(core.PriorityHigh)), core.ErrMailboxFull)

	// Default lane still has room.
	require.NoError(t, m.Offer(core.NewEvent("r1", "plain")))
}
