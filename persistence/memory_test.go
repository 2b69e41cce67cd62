package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/cardroom/models"
)

func TestMemory_SaveAndStats(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.SaveGameRecord(models.GameRecord{
		RoomID: "r1", Winner: "alice", Loser: "bob", Turns: 9, Duration: time.Minute,
	}))
	require.NoError(t, m.SaveGameRecord(models.GameRecord{
		RoomID: "r2", Winner: "bob", Loser: "alice", Turns: 4, Duration: time.Second,
	}))
	require.NoError(t, m.SaveGameRecord(models.GameRecord{
		RoomID: "r3", Winner: "alice", Loser: "carol", Turns: 12, Duration: time.Minute,
	}))

	stats, err := m.GetPlayerStats("alice")
	require.NoError(t, err)
	assert.Equal(t, models.PlayerStats{Nick: "alice", Games: 3, Wins: 2, Losses: 1}, stats)

	stats, err = m.GetPlayerStats("carol")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Losses)
}

func TestMemory_UnknownPlayer(t *testing.T) {
	m := NewMemory()
	_, err := m.GetPlayerStats("nobody")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
