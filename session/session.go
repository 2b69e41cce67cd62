// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/cardroom/network"
)

// Session ties an opaque connection identity to its live send handle, plus
// the room and player identity the connection acquired by joining. Game
// state never holds the connection itself; it keeps the session ID and
// resolves it through the Manager at send time.
type Session struct {
	ID         string
	Conn       network.Connection
	Nick       string
	RoomID     string
	PlayerID   string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) GetID() string {
	return s.ID
}

// Send delivers one envelope, best effort. The caller decides whether a
// failure matters; the broadcaster just skips dead peers.
func (s *Session) Send(env *network.Envelope) error {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
	return s.Conn.Send(env)
}

func (s *Session) Touch() {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager is the connection directory: session ID -> live session.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
