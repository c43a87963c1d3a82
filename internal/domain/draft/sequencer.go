package draft

import "fmt"

// PickSlot locates a single pick on the board. Rounds and teams are
// 0-based; Overall is the absolute pick index across the whole draft.
type PickSlot struct {
	Round   int
	Team    int
	Overall int
}

// Sequencer maps absolute pick indexes to snake-order slots and back.
// Even rounds run teams ascending, odd rounds descending.
type Sequencer struct {
	teams  int
	rounds int
}

func NewSequencer(teams, rounds int) Sequencer {
	return Sequencer{teams: teams, rounds: rounds}
}

func (s Sequencer) TotalPicks() int {
	return s.teams * s.rounds
}

// Slot resolves an absolute pick index. An index at or past the draft
// length reports ErrDraftComplete; that is a completion signal, not an
// application error.
func (s Sequencer) Slot(overall int) (PickSlot, error) {
	if overall < 0 {
		return PickSlot{}, fmt.Errorf("pick index cannot be negative: %d", overall)
	}
	if overall >= s.TotalPicks() {
		return PickSlot{}, fmt.Errorf("%w: pick %d of %d", ErrDraftComplete, overall, s.TotalPicks())
	}

	round := overall / s.teams
	offset := overall % s.teams
	team := offset
	if round%2 == 1 {
		team = s.teams - 1 - offset
	}

	return PickSlot{Round: round, Team: team, Overall: overall}, nil
}

// Overall is the exact inverse of Slot for every in-range (round, team).
func (s Sequencer) Overall(round, team int) (int, error) {
	if round < 0 || round >= s.rounds {
		return 0, fmt.Errorf("round %d outside 0-%d", round, s.rounds-1)
	}
	if team < 0 || team >= s.teams {
		return 0, fmt.Errorf("team %d outside 0-%d", team, s.teams-1)
	}

	offset := team
	if round%2 == 1 {
		offset = s.teams - 1 - team
	}

	return round*s.teams + offset, nil
}
