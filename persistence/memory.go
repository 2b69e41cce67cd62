package persistence

import (
	"sync"

	"github.com/wfunc/cardroom/models"
)

// Memory is the in-memory Store used in tests and DB-less deployments.
type Memory struct {
	records []models.GameRecord
	mutex   sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveGameRecord(record models.GameRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *Memory) GetPlayerStats(nick string) (models.PlayerStats, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	stats := models.PlayerStats{Nick: nick}
	for _, r := range m.records {
		switch nick {
		case r.Winner:
			stats.Wins++
			stats.Games++
		case r.Loser:
			stats.Losses++
			stats.Games++
		}
	}
	if stats.Games == 0 {
		return stats, ErrRecordNotFound
	}
	return stats, nil
}

func (m *Memory) Close() error {
	return nil
}

// Records snapshots the stored records, oldest first.
func (m *Memory) Records() []models.GameRecord {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]models.GameRecord, len(m.records))
	copy(out, m.records)
	return out
}
