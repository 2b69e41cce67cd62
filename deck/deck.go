package deck

import (
	"errors"
)

// ErrDeckEmpty is returned by DealOne when no cards remain.
var ErrDeckEmpty = errors.New("deck is empty")

// Suit is one of the four card suit symbols.
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is an immutable card value. Color is derived from the suit and kept
// on the wire form so clients never have to re-derive it.
type Card struct {
	Suit  Suit   `json:"suit"`
	Rank  string `json:"rank"`
	Color string `json:"color"`
}

func (c Card) String() string {
	return c.Rank + string(c.Suit)
}

func colorOf(s Suit) string {
	if s == Hearts || s == Diamonds {
		return "red"
	}
	return "black"
}

// Rand is the randomness source used for shuffling. *math/rand.Rand
// satisfies it; tests supply a fixed sequence.
type Rand interface {
	Intn(n int) int
}

// Deck is an ordered stack of cards; the top is the last element.
type Deck struct {
	cards []Card
}

// New builds the full 52-card set in a fixed suit-major order.
func New() *Deck {
	cards := make([]Card, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			cards = append(cards, Card{Suit: s, Rank: r, Color: colorOf(s)})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle permutes the deck in place with a Fisher-Yates walk from the end.
func (d *Deck) Shuffle(rng Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// DealOne removes and returns the top card.
func (d *Deck) DealOne() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckEmpty
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, nil
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
