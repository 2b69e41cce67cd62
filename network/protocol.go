package network

import (
	"encoding/json"

	"github.com/wfunc/cardroom/deck"
)

// Inbound message tags.
const (
	TypeJoin    = "join"
	TypeChat    = "chat"
	TypeDraw    = "draw"
	TypeDiscard = "discard"
)

// Outbound message tags.
const (
	TypeJoined   = "joined"
	TypeState    = "state"
	TypeStart    = "start"
	TypeDeal     = "deal"
	TypeGameOver = "gameover"
	TypeError    = "error"
)

// Envelope is the wire frame: a tag plus a tag-specific payload, serialized
// as a single UTF-8 JSON text message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an Envelope. A marshal failure on our
// own outbound types is a programming error, so it panics.
func NewEnvelope(msgType string, payload interface{}) *Envelope {
	data, err := json.Marshal(payload)
	if err != nil {
		panic("network: unmarshalable outbound payload: " + err.Error())
	}
	return &Envelope{Type: msgType, Payload: data}
}

// Inbound payloads.

type JoinPayload struct {
	Room   string `json:"room"`
	Nick   string `json:"nick"`
	Create bool   `json:"create"`
}

type ChatPayload struct {
	Room string `json:"room,omitempty"`
	Nick string `json:"nick,omitempty"`
	Text string `json:"text"`
}

type DrawPayload struct {
	Room     string `json:"room,omitempty"`
	PlayerID string `json:"playerId"`
}

type DiscardPayload struct {
	Room      string `json:"room,omitempty"`
	PlayerID  string `json:"playerId"`
	CardIndex int    `json:"cardIndex"`
}

// Outbound payloads.

type JoinedPayload struct {
	Room string `json:"room"`
	ID   string `json:"id"`
}

type StatePayload struct {
	OpponentCount int         `json:"opponentCount"`
	DiscardPile   []deck.Card `json:"discardPile,omitempty"`
	IsTurn        *bool       `json:"isTurn,omitempty"`
}

type StartPayload struct {
	Hand          []deck.Card `json:"hand"`
	OpponentCount int         `json:"opponentCount"`
	IsTurn        bool        `json:"isTurn"`
	DiscardPile   []deck.Card `json:"discardPile"`
}

type DealPayload struct {
	To          string      `json:"to"`
	Card        deck.Card   `json:"card"`
	DiscardPile []deck.Card `json:"discardPile"`
}

type DiscardBroadcast struct {
	Card             deck.Card   `json:"card"`
	UpdatedHand      []deck.Card `json:"updatedHand"`
	UpdatedHandOwner string      `json:"updatedHandOwner"`
	NextTurn         string      `json:"nextTurn"`
	DiscardPile      []deck.Card `json:"discardPile"`
	Winner           string      `json:"winner,omitempty"`
}

type ChatBroadcast struct {
	Nick string `json:"nick"`
	Text string `json:"text"`
	From string `json:"from,omitempty"`
}

type GameOverPayload struct {
	Room   string `json:"room"`
	Winner string `json:"winner"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
