package broadcast

import (
	"errors"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/wfunc/cardroom/network"
	"github.com/wfunc/cardroom/room"
	"github.com/wfunc/cardroom/session"
)

type mockConn struct {
	sent    int
	sendErr error
}

func (c *mockConn) Send(env *network.Envelope) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent++
	return nil
}
func (c *mockConn) ReadMessage() ([]byte, error)        { return nil, nil }
func (c *mockConn) Close() error                        { return nil }
func (c *mockConn) RemoteAddr() net.Addr                { return &net.TCPAddr{} }
func (c *mockConn) SetHeartbeat(interval time.Duration) {}

func setup(t *testing.T) (*room.Registry, *session.Manager, *RoomBroadcaster, *room.Room) {
	t.Helper()
	registry := room.NewRegistry(13, rand.New(rand.NewSource(1)))
	sessions := session.NewManager()
	b := NewRoomBroadcaster(registry, sessions)

	r, err := registry.CreateOrGet("r1", true)
	if err != nil {
		t.Fatalf("CreateOrGet failed: %v", err)
	}
	return registry, sessions, b, r
}

func TestToRoom_DeliversToAllPlayers(t *testing.T) {
	_, sessions, b, r := setup(t)

	connA, connB := &mockConn{}, &mockConn{}
	sessions.Add(session.NewSession("sess_a", connA))
	sessions.Add(session.NewSession("sess_b", connB))
	r.Join(&room.Player{ID: "a", SessionID: "sess_a"})
	r.Join(&room.Player{ID: "b", SessionID: "sess_b"})

	b.ToRoom("r1", network.NewEnvelope(network.TypeChat, network.ChatBroadcast{Text: "hi"}))

	if connA.sent != 1 || connB.sent != 1 {
		t.Errorf("expected one delivery each, got %d and %d", connA.sent, connB.sent)
	}
}

func TestToRoom_SkipsDeadConnections(t *testing.T) {
	_, sessions, b, r := setup(t)

	connB := &mockConn{}
	// a's session is gone from the directory entirely; b's write fails.
	sessions.Add(session.NewSession("sess_b", connB))
	r.Join(&room.Player{ID: "a", SessionID: "sess_a"})
	r.Join(&room.Player{ID: "b", SessionID: "sess_b"})

	b.ToRoom("r1", network.NewEnvelope(network.TypeChat, network.ChatBroadcast{Text: "hi"}))
	if connB.sent != 1 {
		t.Errorf("live player should still receive the message, got %d", connB.sent)
	}

	connB.sendErr = errors.New("broken pipe")
	b.ToRoom("r1", network.NewEnvelope(network.TypeChat, network.ChatBroadcast{Text: "hi"}))
	// No panic, no retry: at-most-once, best effort.
}

func TestToRoom_UnknownRoom(t *testing.T) {
	_, _, b, _ := setup(t)
	b.ToRoom("nope", network.NewEnvelope(network.TypeChat, network.ChatBroadcast{Text: "hi"}))
}

func TestToSession_UnknownSession(t *testing.T) {
	_, _, b, _ := setup(t)
	b.ToSession("ghost", network.NewEnvelope(network.TypeError, network.ErrorPayload{Message: "x"}))
}
