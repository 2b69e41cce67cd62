// router/router.go
package router

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/cardroom/broadcast"
	"github.com/wfunc/cardroom/logger"
	"github.com/wfunc/cardroom/models"
	"github.com/wfunc/cardroom/monitor"
	"github.com/wfunc/cardroom/network"
	"github.com/wfunc/cardroom/room"
	"github.com/wfunc/cardroom/services"
	"github.com/wfunc/cardroom/session"
)

const errMalformed = "malformed message"

// Router parses inbound envelopes and dispatches them onto the registry and
// rooms. It validates the protocol envelope only; every game rule lives in
// the room. Dispatch runs on the server's single dispatch goroutine.
type Router struct {
	registry *room.Registry
	sessions *session.Manager
	caster   broadcast.Broadcaster
	records  *services.RecordService // optional
	metrics  *monitor.Monitor        // optional
}

func NewRouter(registry *room.Registry, sessions *session.Manager, caster broadcast.Broadcaster) *Router {
	return &Router{
		registry: registry,
		sessions: sessions,
		caster:   caster,
	}
}

// WithRecords attaches the game-record service.
func (rt *Router) WithRecords(records *services.RecordService) *Router {
	rt.records = records
	return rt
}

// WithMetrics attaches the monitor.
func (rt *Router) WithMetrics(m *monitor.Monitor) *Router {
	rt.metrics = m
	return rt
}

// Dispatch handles one raw message from sess to completion. Failures are
// reported to the sender as an error envelope; the connection stays open.
func (rt *Router) Dispatch(sess *session.Session, raw []byte) {
	var env network.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		rt.sendError(sess, errMalformed)
		return
	}

	switch env.Type {
	case network.TypeJoin:
		rt.handleJoin(sess, env.Payload)
	case network.TypeChat:
		rt.handleChat(sess, env.Payload)
	case network.TypeDraw:
		rt.handleDraw(sess, env.Payload)
	case network.TypeDiscard:
		rt.handleDiscard(sess, env.Payload)
	default:
		rt.sendError(sess, fmt.Sprintf("unrecognized message type %q", env.Type))
	}
}

func (rt *Router) handleJoin(sess *session.Session, payload json.RawMessage) {
	var req network.JoinPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		rt.sendError(sess, errMalformed)
		return
	}
	if req.Room == "" {
		rt.sendError(sess, "join requires a room")
		return
	}
	if req.Nick == "" {
		req.Nick = "Player"
	}

	r, err := rt.registry.CreateOrGet(req.Room, req.Create)
	if err != nil {
		rt.sendError(sess, err.Error())
		return
	}

	player := &room.Player{
		ID:        uuid.New().String(),
		Nick:      req.Nick,
		SessionID: sess.ID,
	}
	started, err := r.Join(player)
	if err != nil {
		rt.sendError(sess, err.Error())
		return
	}

	sess.RoomID = r.ID
	sess.PlayerID = player.ID
	sess.Nick = req.Nick
	logger.Log.Infow("player joined", "room", r.ID, "player", player.ID, "nick", req.Nick)

	rt.caster.ToSession(sess.ID, network.NewEnvelope(network.TypeJoined, network.JoinedPayload{
		Room: r.ID,
		ID:   player.ID,
	}))

	if !started {
		rt.caster.ToRoom(r.ID, network.NewEnvelope(network.TypeState, network.StatePayload{
			OpponentCount: r.PlayerCount() - 1,
		}))
		return
	}

	// The deal happened inside the second join. Each player gets a private
	// start payload: their own hand only, never the opponent's.
	for _, p := range r.Players {
		isTurn := r.CurrentTurnID() == p.ID
		rt.caster.ToSession(p.SessionID, network.NewEnvelope(network.TypeStart, network.StartPayload{
			Hand:          r.HandOf(p.ID),
			OpponentCount: r.PlayerCount() - 1,
			IsTurn:        isTurn,
			DiscardPile:   r.Discards(),
		}))
	}
	logger.Log.Infow("game started", "room", r.ID, "starter", r.CurrentTurnID())
}

func (rt *Router) handleChat(sess *session.Session, payload json.RawMessage) {
	var req network.ChatPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		rt.sendError(sess, errMalformed)
		return
	}
	// Chat falls back to the identity the connection acquired by joining.
	if req.Room == "" {
		req.Room = sess.RoomID
	}
	if req.Nick == "" {
		req.Nick = sess.Nick
	}
	if req.Room == "" {
		rt.sendError(sess, room.ErrRoomNotFound.Error())
		return
	}
	if _, exists := rt.registry.Get(req.Room); !exists {
		rt.sendError(sess, room.ErrRoomNotFound.Error())
		return
	}

	rt.caster.ToRoom(req.Room, network.NewEnvelope(network.TypeChat, network.ChatBroadcast{
		Nick: req.Nick,
		Text: req.Text,
		From: sess.PlayerID,
	}))
}

func (rt *Router) handleDraw(sess *session.Session, payload json.RawMessage) {
	var req network.DrawPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		rt.sendError(sess, errMalformed)
		return
	}
	r, ok := rt.resolveRoom(sess, req.Room)
	if !ok {
		return
	}

	card, err := r.Draw(req.PlayerID)
	if err != nil {
		rt.sendError(sess, err.Error())
		return
	}

	// The card identity goes to the whole room: draws are public in this
	// protocol, only the opening hands stay private.
	rt.caster.ToRoom(r.ID, network.NewEnvelope(network.TypeDeal, network.DealPayload{
		To:          req.PlayerID,
		Card:        card,
		DiscardPile: r.Discards(),
	}))
}

func (rt *Router) handleDiscard(sess *session.Session, payload json.RawMessage) {
	var req network.DiscardPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		rt.sendError(sess, errMalformed)
		return
	}
	r, ok := rt.resolveRoom(sess, req.Room)
	if !ok {
		return
	}

	card, nextTurn, won, err := r.Discard(req.PlayerID, req.CardIndex)
	if err != nil {
		rt.sendError(sess, err.Error())
		return
	}

	out := network.DiscardBroadcast{
		Card:             card,
		UpdatedHand:      r.HandOf(req.PlayerID),
		UpdatedHandOwner: req.PlayerID,
		NextTurn:         nextTurn,
		DiscardPile:      r.Discards(),
	}
	if won {
		out.Winner = req.PlayerID
	}
	rt.caster.ToRoom(r.ID, network.NewEnvelope(network.TypeDiscard, out))

	if won {
		rt.finishGame(r, req.PlayerID)
	}
}

// finishGame announces the winner and persists the result.
func (rt *Router) finishGame(r *room.Room, winnerID string) {
	rt.caster.ToRoom(r.ID, network.NewEnvelope(network.TypeGameOver, network.GameOverPayload{
		Room:   r.ID,
		Winner: winnerID,
	}))
	logger.Log.Infow("game over", "room", r.ID, "winner", winnerID)

	if rt.metrics != nil {
		rt.metrics.IncGamesCompleted()
	}
	if rt.records != nil {
		rec := models.GameRecord{
			RoomID:   r.ID,
			Turns:    r.TurnCount,
			Duration: time.Since(r.StartedAt),
		}
		if p := r.PlayerByID(winnerID); p != nil {
			rec.Winner = p.Nick
		}
		if opp := r.Opponent(winnerID); opp != nil {
			rec.Loser = opp.Nick
		}
		rt.records.SaveAsync(rec)
	}
}

// HandleDisconnect runs the leave transition for a closed connection. The
// server posts disconnects through the same dispatch loop as messages, so
// this runs with the usual run-to-completion guarantee.
func (rt *Router) HandleDisconnect(sess *session.Session) {
	if sess.RoomID == "" {
		return
	}
	r, exists := rt.registry.Get(sess.RoomID)
	if !exists {
		return
	}

	if empty := r.Leave(sess.PlayerID); empty {
		rt.registry.Remove(r.ID)
		logger.Log.Infow("room destroyed", "room", r.ID)
		return
	}

	// No win is awarded to the remaining player; they are told their
	// opponent is gone and the room stays in its phase. At most one player
	// remains, so the payload can be shaped for them.
	st := network.StatePayload{OpponentCount: r.PlayerCount() - 1}
	if r.PlayerCount() == 1 {
		st.DiscardPile = r.Discards()
		if r.Phase == room.PhaseTurn {
			isTurn := r.CurrentTurnID() == r.Players[0].ID
			st.IsTurn = &isTurn
		}
	}
	rt.caster.ToRoom(r.ID, network.NewEnvelope(network.TypeState, st))
}

// sendError reports a recoverable failure to the originating connection
// only. No error terminates the connection.
func (rt *Router) sendError(sess *session.Session, message string) {
	rt.caster.ToSession(sess.ID, network.NewEnvelope(network.TypeError, network.ErrorPayload{
		Message: message,
	}))
}

// resolveRoom applies the room default from the session and looks the room
// up, reporting failures to the sender.
func (rt *Router) resolveRoom(sess *session.Session, roomID string) (*room.Room, bool) {
	if roomID == "" {
		roomID = sess.RoomID
	}
	if roomID == "" {
		rt.sendError(sess, room.ErrRoomNotFound.Error())
		return nil, false
	}
	r, exists := rt.registry.Get(roomID)
	if !exists {
		rt.sendError(sess, room.ErrRoomNotFound.Error())
		return nil, false
	}
	return r, true
}
