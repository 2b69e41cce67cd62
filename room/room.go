// room/room.go
package room

import (
	"errors"
	"time"

	"github.com/wfunc/cardroom/deck"
)

// MaxPlayers is fixed: this is a head-to-head game.
const MaxPlayers = 2

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrGameStarted      = errors.New("game already started")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidCardIndex = errors.New("invalid card index")
	ErrGameOver         = errors.New("game is over")
)

// Player is owned exclusively by its room. SessionID is a back-reference
// into the connection directory; the room never touches the transport.
type Player struct {
	ID        string
	Nick      string
	SessionID string
	Hand      []deck.Card
}

// Room holds the authoritative state of one two-player game. All methods
// assume single-threaded access: the server dispatches every inbound
// message on one goroutine, so there is no lock here.
type Room struct {
	ID           string
	Players      []*Player // join order
	Deck         *deck.Deck
	DiscardPile  []deck.Card
	Phase        Phase
	TurnPlayerID string
	TurnCount    int
	CreatedAt    time.Time
	StartedAt    time.Time
	LastActivity time.Time

	handSize int
	rng      deck.Rand
}

func NewRoom(id string, handSize int, rng deck.Rand) *Room {
	now := time.Now()
	return &Room{
		ID:           id,
		Deck:         &deck.Deck{},
		Phase:        PhaseWaiting,
		CreatedAt:    now,
		LastActivity: now,
		handSize:     handSize,
		rng:          rng,
	}
}

// Join adds a player. The second join runs the dealing transition
// synchronously and returns started=true; the caller then delivers each
// player's private start payload.
func (r *Room) Join(p *Player) (started bool, err error) {
	if len(r.Players) >= MaxPlayers {
		return false, ErrRoomFull
	}
	// A seat can open up mid-game when the opponent disconnects; the room
	// is not full then, but it is not joinable either.
	if r.Phase != PhaseWaiting {
		return false, ErrGameStarted
	}
	r.Players = append(r.Players, p)
	r.LastActivity = time.Now()

	if len(r.Players) < MaxPlayers {
		return false, nil
	}
	r.deal()
	return true, nil
}

// deal builds and shuffles a fresh deck, gives each player their opening
// hand in join order, flips one card to the discard pile and picks the
// starter uniformly between the two players.
func (r *Room) deal() {
	if err := r.transition(PhaseDealing); err != nil {
		panic("room: dealing from phase " + r.Phase.String())
	}
	r.Deck = deck.New()
	r.Deck.Shuffle(r.rng)

	for _, p := range r.Players {
		p.Hand = make([]deck.Card, 0, r.handSize)
		for i := 0; i < r.handSize; i++ {
			c, err := r.Deck.DealOne()
			if err != nil {
				panic("room: deck exhausted while dealing")
			}
			p.Hand = append(p.Hand, c)
		}
	}

	up, err := r.Deck.DealOne()
	if err != nil {
		panic("room: deck exhausted while flipping the upcard")
	}
	r.DiscardPile = append(r.DiscardPile, up)

	starter := r.Players[r.rng.Intn(MaxPlayers)]
	r.TurnPlayerID = starter.ID
	r.StartedAt = time.Now()
	if err := r.transition(PhaseTurn); err != nil {
		panic("room: cannot enter turn phase")
	}
}

// CurrentTurnID resolves the turn owner. Before a starter has been picked
// the first-joined player is treated as holding the turn.
func (r *Room) CurrentTurnID() string {
	if r.TurnPlayerID == "" && len(r.Players) > 0 {
		return r.Players[0].ID
	}
	return r.TurnPlayerID
}

// Draw pops the top deck card into the caller's hand. The turn does not
// change: draws are public information in this protocol and the drawn
// card's identity is broadcast room-wide by the caller.
func (r *Room) Draw(playerID string) (deck.Card, error) {
	if r.Phase == PhaseGameOver {
		return deck.Card{}, ErrGameOver
	}
	if playerID != r.CurrentTurnID() {
		return deck.Card{}, ErrNotYourTurn
	}
	p := r.PlayerByID(playerID)
	if p == nil {
		return deck.Card{}, ErrNotYourTurn
	}
	c, err := r.Deck.DealOne()
	if err != nil {
		return deck.Card{}, err
	}
	p.Hand = append(p.Hand, c)
	r.LastActivity = time.Now()
	return c, nil
}

// Discard moves the card at handIndex to the discard pile and flips the
// turn to the opponent. Emptying the hand wins the game: the room moves to
// PhaseGameOver and won is true.
func (r *Room) Discard(playerID string, handIndex int) (card deck.Card, nextTurn string, won bool, err error) {
	if r.Phase == PhaseGameOver {
		return deck.Card{}, "", false, ErrGameOver
	}
	if playerID != r.CurrentTurnID() {
		return deck.Card{}, "", false, ErrNotYourTurn
	}
	p := r.PlayerByID(playerID)
	if p == nil {
		return deck.Card{}, "", false, ErrNotYourTurn
	}
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return deck.Card{}, "", false, ErrInvalidCardIndex
	}

	card = p.Hand[handIndex]
	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	r.DiscardPile = append(r.DiscardPile, card)
	r.TurnCount++
	r.LastActivity = time.Now()

	if len(p.Hand) == 0 {
		r.TurnPlayerID = ""
		if err := r.transition(PhaseGameOver); err != nil {
			panic("room: cannot enter gameover phase")
		}
		return card, "", true, nil
	}

	if opp := r.Opponent(playerID); opp != nil {
		r.TurnPlayerID = opp.ID
	} else {
		r.TurnPlayerID = ""
	}
	return card, r.TurnPlayerID, false, nil
}

// Leave removes the player in any phase and reports whether the room is now
// empty (the registry then destroys it). A mid-game disconnect does not end
// the game and awards no win; the remaining player simply has no opponent.
func (r *Room) Leave(playerID string) (empty bool) {
	for i, p := range r.Players {
		if p.ID == playerID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	if r.TurnPlayerID == playerID {
		// Keep the turn owner inside the room.
		if len(r.Players) > 0 {
			r.TurnPlayerID = r.Players[0].ID
		} else {
			r.TurnPlayerID = ""
		}
	}
	r.LastActivity = time.Now()
	return len(r.Players) == 0
}

func (r *Room) PlayerByID(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) PlayerBySession(sessionID string) *Player {
	for _, p := range r.Players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

func (r *Room) Opponent(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID != playerID {
			return p
		}
	}
	return nil
}

func (r *Room) PlayerCount() int {
	return len(r.Players)
}

// Discards returns a copy of the discard pile for outbound payloads.
func (r *Room) Discards() []deck.Card {
	out := make([]deck.Card, len(r.DiscardPile))
	copy(out, r.DiscardPile)
	return out
}

// HandOf returns a copy of the player's hand, never the slice itself.
func (r *Room) HandOf(playerID string) []deck.Card {
	p := r.PlayerByID(playerID)
	if p == nil {
		return nil
	}
	out := make([]deck.Card, len(p.Hand))
	copy(out, p.Hand)
	return out
}
