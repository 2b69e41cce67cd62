// persistence/interface.go
package persistence

import (
	"errors"

	"github.com/wfunc/cardroom/models"
)

// Store persists finished-game history. Live room state is never persisted;
// only results flow through here.
type Store interface {
	SaveGameRecord(record models.GameRecord) error
	GetPlayerStats(nick string) (models.PlayerStats, error)
	Close() error
}

var ErrRecordNotFound = errors.New("record not found")
