package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	require.NoError(t, c.Register())
	require.NoError(t, c.Register())
}

func TestSnapshotCounters(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	require.NoError(t, c.Register())

	c.RuntimeCreated("r1")
	c.RuntimeCreated("r2")
	c.RuntimeTerminated("r1")

	c.ActivityProcessed("r2", "state_change", time.Millisecond, nil)
	c.ActivityProcessed("r2", "command", time.Millisecond, errors.New("command not implemented"))

	snap := c.Snapshot()
	assert.Equal(t, uint64(2), snap.RuntimesCreated)
	assert.Equal(t, uint64(1), snap.RuntimesTerminated)
	assert.Equal(t, uint64(1), snap.RuntimesLive)
	assert.Equal(t, uint64(1), snap.ActivitiesProcessed)
	assert.Equal(t, uint64(1), snap.ActivitiesFailed)
	assert.WithinDuration(t, time.Now().UTC(), snap.CollectedAt, time.Second)
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	a := NewCollector(prometheus.NewRegistry())
	b := NewCollector(prometheus.NewRegistry())

	require.NoError(t, a.Register())
	require.NoError(t, b.Register())
}
