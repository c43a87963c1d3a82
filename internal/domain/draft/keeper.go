package draft

import (
	"fmt"
	"sort"
)

// KeeperReservation pre-assigns a player to a team's pick in a round.
type KeeperReservation struct {
	Team     int
	PlayerID string
	Round    int
}

type keeperSlot struct {
	team  int
	round int
}

// KeeperRegistry holds reservations configured before the draft starts.
// Freeze is called by the draft instance on start; afterwards the
// registry is consulted read-only.
type KeeperRegistry struct {
	teams    int
	rounds   int
	byPlayer map[string]KeeperReservation
	bySlot   map[keeperSlot]KeeperReservation
	frozen   bool
}

func NewKeeperRegistry(teams, rounds int) *KeeperRegistry {
	return &KeeperRegistry{
		teams:    teams,
		rounds:   rounds,
		byPlayer: make(map[string]KeeperReservation),
		bySlot:   make(map[keeperSlot]KeeperReservation),
	}
}

func (r *KeeperRegistry) Reserve(team int, playerID string, round int) error {
	if r.frozen {
		return ErrReservationsFrozen
	}
	if playerID == "" {
		return fmt.Errorf("keeper player id is required")
	}
	if team < 0 || team >= r.teams {
		return fmt.Errorf("keeper team %d outside 0-%d", team, r.teams-1)
	}
	if round < 0 || round >= r.rounds {
		return fmt.Errorf("%w: round %d of %d", ErrInvalidRound, round, r.rounds)
	}
	if existing, ok := r.byPlayer[playerID]; ok {
		return fmt.Errorf("%w: %s held by team %d round %d", ErrDuplicatePlayer, playerID, existing.Team, existing.Round)
	}
	if existing, ok := r.bySlot[keeperSlot{team: team, round: round}]; ok {
		return fmt.Errorf("%w: team %d round %d holds %s", ErrSlotTaken, team, round, existing.PlayerID)
	}

	res := KeeperReservation{Team: team, PlayerID: playerID, Round: round}
	r.byPlayer[playerID] = res
	r.bySlot[keeperSlot{team: team, round: round}] = res

	return nil
}

// Remove drops a reservation by player. Permitted only before the draft
// has started.
func (r *KeeperRegistry) Remove(playerID string) error {
	if r.frozen {
		return ErrReservationsFrozen
	}

	res, ok := r.byPlayer[playerID]
	if !ok {
		return fmt.Errorf("no reservation for player %s", playerID)
	}

	delete(r.byPlayer, playerID)
	delete(r.bySlot, keeperSlot{team: res.Team, round: res.Round})

	return nil
}

// Lookup reports whether a (team, round) slot is pre-filled. No side effects.
func (r *KeeperRegistry) Lookup(team, round int) (KeeperReservation, bool) {
	res, ok := r.bySlot[keeperSlot{team: team, round: round}]
	return res, ok
}

// Reserved reports whether a player is held by any team.
func (r *KeeperRegistry) Reserved(playerID string) bool {
	_, ok := r.byPlayer[playerID]
	return ok
}

// List returns reservations ordered by round then team.
func (r *KeeperRegistry) List() []KeeperReservation {
	out := make([]KeeperReservation, 0, len(r.byPlayer))
	for _, res := range r.byPlayer {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Team < out[j].Team
	})

	return out
}

func (r *KeeperRegistry) Freeze() {
	r.frozen = true
}

func (r *KeeperRegistry) Frozen() bool {
	return r.frozen
}
