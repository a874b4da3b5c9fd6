package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityDefaults(t *testing.T) {
	act := NewActivity("r1", TypeEvent, "ping")

	assert.NotEmpty(t, act.ID)
	assert.Equal(t, "r1", act.RuntimeID)
	assert.Equal(t, TypeEvent, act.Type)
	assert.Equal(t, "ping", act.Payload)
	assert.WithinDuration(t, time.Now().UTC(), act.Timestamp, time.Second)
}

func TestTypedConstructors(t *testing.T) {
	sc := NewStateChange("r1", map[string]any{"count": 1})
	assert.Equal(t, TypeStateChange, sc.Type)

	cmd := NewCommand("r1", "START")
	assert.Equal(t, TypeCommand, cmd.Type)

	ev := NewEvent("r1", nil)
	assert.Equal(t, TypeEvent, ev.Type)
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Len(t, id, 36) // UUID length
	assert.NotEqual(t, id, NewID())
}

func TestWithPriorityDoesNotMutateOriginal(t *testing.T) {
	base := NewEvent("r1", nil)
	base.Metadata = map[string]any{"trace": "abc"}

	tagged := base.WithPriority(PriorityHigh)

	p, ok := tagged.GetPriority()
	require.True(t, ok)
	assert.Equal(t, PriorityHigh, p)
	assert.Equal(t, "abc", tagged.Metadata["trace"])

	_, ok = base.GetPriority()
	assert.False(t, ok, "original metadata must be untouched")
}

func TestGetPriorityAcceptsNumericValues(t *testing.T) {
	for _, raw := range []any{Priority(1), int(1), int64(1), float64(1)} {
		act := Activity{Metadata: map[string]any{MetadataPriority: raw}}
		p, ok := act.GetPriority()
		require.True(t, ok, "value %T", raw)
		assert.Equal(t, PriorityHigh, p)
	}
}

func TestGetPriorityAbsentOrInvalid(t *testing.T) {
	_, ok := Activity{}.GetPriority()
	assert.False(t, ok)

	_, ok = Activity{Metadata: map[string]any{MetadataPriority: "urgent"}}.GetPriority()
	assert.False(t, ok)
}

func TestWithSequence(t *testing.T) {
	act := NewEvent("r1", nil).WithSequence(42)
	assert.Equal(t, uint64(42), act.Sequence)
}
