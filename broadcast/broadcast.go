// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/cardroom/logger"
	"github.com/wfunc/cardroom/network"
	"github.com/wfunc/cardroom/room"
	"github.com/wfunc/cardroom/session"
)

// Broadcaster delivers envelopes. At-most-once, best effort: a session
// whose connection is gone is skipped without affecting the others.
type Broadcaster interface {
	ToRoom(roomID string, env *network.Envelope)
	ToSession(sessionID string, env *network.Envelope)
}

// RoomBroadcaster resolves room membership through the registry and
// liveness through the connection directory.
type RoomBroadcaster struct {
	registry *room.Registry
	sessions *session.Manager
}

func NewRoomBroadcaster(registry *room.Registry, sessions *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		registry: registry,
		sessions: sessions,
	}
}

// ToRoom sends env to every currently-connected player in the room.
func (b *RoomBroadcaster) ToRoom(roomID string, env *network.Envelope) {
	r, exists := b.registry.Get(roomID)
	if !exists {
		return
	}
	for _, p := range r.Players {
		b.ToSession(p.SessionID, env)
	}
}

// ToSession sends env to one connection, dropping it silently if the
// connection is no longer in the directory or the write fails.
func (b *RoomBroadcaster) ToSession(sessionID string, env *network.Envelope) {
	s, exists := b.sessions.Get(sessionID)
	if !exists {
		return
	}
	if err := s.Send(env); err != nil {
		logger.Log.Debugw("dropping undeliverable message",
			"session", sessionID, "type", env.Type, "error", err)
	}
}
