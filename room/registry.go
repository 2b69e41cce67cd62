package room

import (
	"sync"
	"time"

	"github.com/wfunc/cardroom/deck"
)

// Summary is a read-only view of a room for the admin RPC.
type Summary struct {
	ID          string
	Phase       string
	PlayerCount int
	CreatedAt   time.Time
}

// Registry owns every live room. Game mutations happen on the dispatch
// goroutine only, but the admin RPC and the metrics refresh read the map
// from other goroutines, so the map itself stays behind an RWMutex.
type Registry struct {
	rooms    map[string]*Room
	handSize int
	rng      deck.Rand
	mutex    sync.RWMutex
}

func NewRegistry(handSize int, rng deck.Rand) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		handSize: handSize,
		rng:      rng,
	}
}

// CreateOrGet resolves roomID. With allowCreate false a missing room is
// ErrRoomNotFound; otherwise a fresh room in the waiting phase is created.
func (reg *Registry) CreateOrGet(roomID string, allowCreate bool) (*Room, error) {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	if r, exists := reg.rooms[roomID]; exists {
		return r, nil
	}
	if !allowCreate {
		return nil, ErrRoomNotFound
	}
	r := NewRoom(roomID, reg.handSize, reg.rng)
	reg.rooms[roomID] = r
	return r, nil
}

func (reg *Registry) Get(roomID string) (*Room, bool) {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	r, exists := reg.rooms[roomID]
	return r, exists
}

// Remove deletes the room. Called when its last player leaves.
func (reg *Registry) Remove(roomID string) {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()
	delete(reg.rooms, roomID)
}

func (reg *Registry) Count() int {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()
	return len(reg.rooms)
}

// Summaries snapshots every room for the admin RPC.
func (reg *Registry) Summaries() []Summary {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()

	out := make([]Summary, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, Summary{
			ID:          r.ID,
			Phase:       r.Phase.String(),
			PlayerCount: r.PlayerCount(),
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}

// SweepIdle removes rooms that have been empty for longer than ttl. Normal
// cleanup happens when the last player leaves; this is the safety net for
// rooms left behind without a clean close. Rooms holding players are never
// reaped, no matter how long they idle. Runs on the dispatch goroutine.
func (reg *Registry) SweepIdle(ttl time.Duration) int {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, r := range reg.rooms {
		if r.PlayerCount() > 0 {
			continue
		}
		if r.LastActivity.Before(cutoff) {
			delete(reg.rooms, id)
			removed++
		}
	}
	return removed
}
