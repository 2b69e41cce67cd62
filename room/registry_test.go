package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateOrGet(t *testing.T) {
	reg := NewRegistry(13, testRNG())

	_, err := reg.CreateOrGet("r1", false)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, 0, reg.Count())

	created, err := reg.CreateOrGet("r1", true)
	require.NoError(t, err)
	assert.Equal(t, PhaseWaiting, created.Phase)
	assert.Equal(t, 1, reg.Count())

	// Existing rooms resolve regardless of allowCreate.
	got, err := reg.CreateOrGet("r1", false)
	require.NoError(t, err)
	assert.Same(t, created, got)

	got, err = reg.CreateOrGet("r1", true)
	require.NoError(t, err)
	assert.Same(t, created, got)
}

func TestRegistry_Remove(t *testing.T) {
	reg := NewRegistry(13, testRNG())
	_, err := reg.CreateOrGet("r1", true)
	require.NoError(t, err)

	reg.Remove("r1")
	assert.Equal(t, 0, reg.Count())

	_, exists := reg.Get("r1")
	assert.False(t, exists)
}

func TestRegistry_Summaries(t *testing.T) {
	reg := NewRegistry(13, testRNG())
	r, err := reg.CreateOrGet("r1", true)
	require.NoError(t, err)
	_, err = r.Join(newTestPlayer("a"))
	require.NoError(t, err)

	sums := reg.Summaries()
	require.Len(t, sums, 1)
	assert.Equal(t, "r1", sums[0].ID)
	assert.Equal(t, "waiting", sums[0].Phase)
	assert.Equal(t, 1, sums[0].PlayerCount)
}

func TestRegistry_SweepIdle(t *testing.T) {
	reg := NewRegistry(13, testRNG())
	stale, err := reg.CreateOrGet("stale", true)
	require.NoError(t, err)
	stale.LastActivity = time.Now().Add(-time.Hour)

	fresh, err := reg.CreateOrGet("fresh", true)
	require.NoError(t, err)
	fresh.LastActivity = time.Now()

	removed := reg.SweepIdle(30 * time.Minute)
	assert.Equal(t, 1, removed)

	_, exists := reg.Get("stale")
	assert.False(t, exists)
	_, exists = reg.Get("fresh")
	assert.True(t, exists)
}

func TestRegistry_SweepIdle_KeepsOccupiedRooms(t *testing.T) {
	reg := NewRegistry(13, testRNG())

	// A running game whose players idle past the TTL must survive the sweep.
	occupied, err := reg.CreateOrGet("occupied", true)
	require.NoError(t, err)
	_, err = occupied.Join(newTestPlayer("a"))
	require.NoError(t, err)
	_, err = occupied.Join(newTestPlayer("b"))
	require.NoError(t, err)
	require.Equal(t, PhaseTurn, occupied.Phase)
	occupied.LastActivity = time.Now().Add(-time.Hour)

	// Same for a lone player still waiting for an opponent.
	waiting, err := reg.CreateOrGet("waiting", true)
	require.NoError(t, err)
	_, err = waiting.Join(newTestPlayer("c"))
	require.NoError(t, err)
	waiting.LastActivity = time.Now().Add(-time.Hour)

	removed := reg.SweepIdle(30 * time.Minute)
	assert.Equal(t, 0, removed)

	got, exists := reg.Get("occupied")
	require.True(t, exists)
	assert.Equal(t, 2, got.PlayerCount())
	_, exists = reg.Get("waiting")
	assert.True(t, exists)
}
