package room

import (
	"errors"
	"testing"
)

func TestPhase_TransitionTable(t *testing.T) {
	cases := []struct {
		from, to Phase
		allowed  bool
	}{
		{PhaseWaiting, PhaseDealing, true},
		{PhaseDealing, PhaseTurn, true},
		{PhaseTurn, PhaseGameOver, true},
		{PhaseWaiting, PhaseTurn, false},
		{PhaseWaiting, PhaseGameOver, false},
		{PhaseTurn, PhaseWaiting, false},
		{PhaseGameOver, PhaseWaiting, false},
		{PhaseGameOver, PhaseTurn, false},
	}

	for _, tc := range cases {
		r := NewRoom("phase_test", 13, testRNG())
		r.Phase = tc.from

		err := r.transition(tc.to)
		if tc.allowed && err != nil {
			t.Errorf("%s -> %s should be allowed, got %v", tc.from, tc.to, err)
		}
		if !tc.allowed {
			if !errors.Is(err, ErrPhaseTransition) {
				t.Errorf("%s -> %s should be blocked, got %v", tc.from, tc.to, err)
			}
			if r.Phase != tc.from {
				t.Errorf("blocked transition must not change the phase, got %s", r.Phase)
			}
		}
	}
}

func TestPhase_String(t *testing.T) {
	if PhaseWaiting.String() != "waiting" || PhaseGameOver.String() != "gameover" {
		t.Error("unexpected phase names")
	}
}
