package draft

import (
	"fmt"
	"sort"

	"github.com/draftday/draftsim/internal/domain/league"
	"github.com/draftday/draftsim/internal/domain/player"
)

// SlotKind records which roster bucket absorbed a pick, so undo can
// release exactly the slot that was consumed.
type SlotKind int

const (
	SlotDedicated SlotKind = iota
	SlotFlex
	SlotBench
)

func (k SlotKind) String() string {
	switch k {
	case SlotDedicated:
		return "dedicated"
	case SlotFlex:
		return "flex"
	case SlotBench:
		return "bench"
	default:
		return "unknown"
	}
}

type teamRoster struct {
	dedicated map[player.Position]int
	totals    map[player.Position]int
	flex      int
	bench     int
}

// RosterTracker tracks filled slot counts per team against the league's
// roster rules. Dedicated slots fill before FLEX, FLEX before bench.
type RosterTracker struct {
	rules league.RosterRules
	teams []teamRoster
}

func NewRosterTracker(teamCount int, rules league.RosterRules) *RosterTracker {
	teams := make([]teamRoster, teamCount)
	for i := range teams {
		teams[i] = teamRoster{
			dedicated: make(map[player.Position]int, len(rules.Dedicated)),
			totals:    make(map[player.Position]int, len(rules.Dedicated)),
		}
	}

	return &RosterTracker{rules: rules, teams: teams}
}

// CanAccept reports whether any slot on the team can hold the position.
func (t *RosterTracker) CanAccept(team int, pos player.Position) bool {
	r := t.teams[team]
	if r.dedicated[pos] < t.rules.Dedicated[pos] {
		return true
	}
	if _, eligible := player.FlexEligible[pos]; eligible && r.flex < t.rules.Flex {
		return true
	}
	return r.bench < t.rules.Bench
}

// DedicatedOpen reports whether the position's dedicated slots still
// have room, ignoring FLEX and bench.
func (t *RosterTracker) DedicatedOpen(team int, pos player.Position) bool {
	return t.teams[team].dedicated[pos] < t.rules.Dedicated[pos]
}

// FlexOpen reports whether the team has FLEX room for an eligible position.
func (t *RosterTracker) FlexOpen(team int, pos player.Position) bool {
	if _, eligible := player.FlexEligible[pos]; !eligible {
		return false
	}
	return t.teams[team].flex < t.rules.Flex
}

// Record fills the preferred open slot for the position and reports which
// bucket it used. Dedicated slots are consumed before FLEX, FLEX before
// bench. Returns ErrRosterFull when nothing accepts the position.
func (t *RosterTracker) Record(team int, pos player.Position) (SlotKind, error) {
	r := &t.teams[team]
	if r.dedicated[pos] < t.rules.Dedicated[pos] {
		r.dedicated[pos]++
		r.totals[pos]++
		return SlotDedicated, nil
	}
	if _, eligible := player.FlexEligible[pos]; eligible && r.flex < t.rules.Flex {
		r.flex++
		r.totals[pos]++
		return SlotFlex, nil
	}
	if r.bench < t.rules.Bench {
		r.bench++
		r.totals[pos]++
		return SlotBench, nil
	}

	return 0, fmt.Errorf("%w: team %d position %s", ErrRosterFull, team, pos)
}

// Release reverses a Record call for undo.
func (t *RosterTracker) Release(team int, pos player.Position, kind SlotKind) error {
	r := &t.teams[team]
	if r.totals[pos] == 0 {
		return fmt.Errorf("release %s on team %d below zero", pos, team)
	}

	switch kind {
	case SlotDedicated:
		if r.dedicated[pos] == 0 {
			return fmt.Errorf("release dedicated %s on team %d below zero", pos, team)
		}
		r.dedicated[pos]--
	case SlotFlex:
		if r.flex == 0 {
			return fmt.Errorf("release flex on team %d below zero", team)
		}
		r.flex--
	case SlotBench:
		if r.bench == 0 {
			return fmt.Errorf("release bench on team %d below zero", team)
		}
		r.bench--
	default:
		return fmt.Errorf("unknown slot kind %d", kind)
	}
	r.totals[pos]--

	return nil
}

// UnmetNeeds returns positions still below their dedicated limit, in a
// stable order for deterministic scoring.
func (t *RosterTracker) UnmetNeeds(team int) []player.Position {
	r := t.teams[team]
	out := make([]player.Position, 0, len(t.rules.Dedicated))
	for pos, limit := range t.rules.Dedicated {
		if r.dedicated[pos] < limit {
			out = append(out, pos)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Count is the total number of players at a position on the team,
// across dedicated, FLEX and bench placements.
func (t *RosterTracker) Count(team int, pos player.Position) int {
	return t.teams[team].totals[pos]
}

// DedicatedCount is the number of filled dedicated slots at a position.
func (t *RosterTracker) DedicatedCount(team int, pos player.Position) int {
	return t.teams[team].dedicated[pos]
}

func (t *RosterTracker) FlexUsed(team int) int {
	return t.teams[team].flex
}

func (t *RosterTracker) BenchUsed(team int) int {
	return t.teams[team].bench
}

func (t *RosterTracker) Rules() league.RosterRules {
	return t.rules
}
