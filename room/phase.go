package room

import (
	"errors"
)

// Phase is the room's game state machine tag.
type Phase int

const (
	// PhaseWaiting: 0-1 players, no cards dealt yet.
	PhaseWaiting Phase = iota
	// PhaseDealing is transient; entered and left synchronously inside the
	// second join.
	PhaseDealing
	// PhaseTurn: a game is running and TurnPlayerID owns the turn.
	PhaseTurn
	// PhaseGameOver is terminal; the room only accepts chat and leave.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseDealing:
		return "dealing"
	case PhaseTurn:
		return "turn"
	case PhaseGameOver:
		return "gameover"
	}
	return "unknown"
}

// ErrPhaseTransition is returned when a phase change is not in the
// transition table.
var ErrPhaseTransition = errors.New("phase transition not allowed")

var phaseTransitions = map[Phase][]Phase{
	PhaseWaiting: {PhaseDealing},
	PhaseDealing: {PhaseTurn},
	PhaseTurn:    {PhaseGameOver},
}

// transition moves the room to next, enforcing the table above. All game
// operations funnel phase changes through here so an illegal jump fails
// loudly instead of corrupting state.
func (r *Room) transition(next Phase) error {
	for _, allowed := range phaseTransitions[r.Phase] {
		if allowed == next {
			r.Phase = next
			return nil
		}
	}
	return ErrPhaseTransition
}
