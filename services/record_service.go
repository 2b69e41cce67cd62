// services/record_service.go
package services

import (
	"github.com/wfunc/cardroom/logger"
	"github.com/wfunc/cardroom/models"
	"github.com/wfunc/cardroom/persistence"
)

// RecordService persists finished games and answers stats queries.
type RecordService struct {
	store persistence.Store
}

func NewRecordService(store persistence.Store) *RecordService {
	return &RecordService{store: store}
}

// SaveAsync writes the record off the dispatch goroutine. Delivery is fire
// and forget: a failed write is logged and the game goes on.
func (s *RecordService) SaveAsync(record models.GameRecord) {
	go func() {
		if err := s.store.SaveGameRecord(record); err != nil {
			logger.Log.Errorw("failed to save game record",
				"room", record.RoomID, "winner", record.Winner, "error", err)
		}
	}()
}

func (s *RecordService) GetPlayerStats(nick string) (models.PlayerStats, error) {
	return s.store.GetPlayerStats(nick)
}
