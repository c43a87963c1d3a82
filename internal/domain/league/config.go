package league

import (
	"fmt"

	"github.com/draftday/draftsim/internal/domain/player"
)

const (
	MinTeams = 8
	MaxTeams = 14
)

// RosterRules describes how many roster slots a team fills per category.
// FLEX slots accept any of player.FlexEligible; bench slots accept any
// position once dedicated and FLEX capacity is spent.
type RosterRules struct {
	Dedicated map[player.Position]int
	Flex      int
	Bench     int
}

// DefaultRosterRules mirrors a standard 15-round redraft lineup.
func DefaultRosterRules() RosterRules {
	return RosterRules{
		Dedicated: map[player.Position]int{
			player.PositionQB:  1,
			player.PositionRB:  2,
			player.PositionWR:  2,
			player.PositionTE:  1,
			player.PositionK:   1,
			player.PositionDST: 1,
		},
		Flex:  1,
		Bench: 6,
	}
}

// TotalSlots is the number of picks a single team makes.
func (r RosterRules) TotalSlots() int {
	total := r.Flex + r.Bench
	for _, n := range r.Dedicated {
		total += n
	}
	return total
}

func (r RosterRules) Validate() error {
	if r.Flex < 0 {
		return fmt.Errorf("flex slot count cannot be negative")
	}
	if r.Bench < 0 {
		return fmt.Errorf("bench slot count cannot be negative")
	}
	for pos, n := range r.Dedicated {
		if _, ok := player.AllPositions[pos]; !ok {
			return fmt.Errorf("unknown roster position: %s", pos)
		}
		if n < 0 {
			return fmt.Errorf("roster count for %s cannot be negative", pos)
		}
	}
	if r.TotalSlots() == 0 {
		return fmt.Errorf("roster must have at least one slot")
	}

	return nil
}

// Config is the immutable league setup a draft instance is built from.
// Team and round indexes are 0-based throughout the engine.
type Config struct {
	TeamCount      int
	UserSlot       int // team index of the human drafter
	RoundCount     int
	Roster         RosterRules
	KeepersEnabled bool
}

// DefaultConfig is a 12-team league with the standard roster.
func DefaultConfig() Config {
	roster := DefaultRosterRules()
	return Config{
		TeamCount:  12,
		UserSlot:   0,
		RoundCount: roster.TotalSlots(),
		Roster:     roster,
	}
}

func (c Config) Validate() error {
	if c.TeamCount < MinTeams || c.TeamCount > MaxTeams {
		return fmt.Errorf("team count must be between %d and %d, got %d", MinTeams, MaxTeams, c.TeamCount)
	}
	if c.UserSlot < 0 || c.UserSlot >= c.TeamCount {
		return fmt.Errorf("user slot %d outside team range 0-%d", c.UserSlot, c.TeamCount-1)
	}
	if c.RoundCount <= 0 {
		return fmt.Errorf("round count must be greater than zero")
	}
	if err := c.Roster.Validate(); err != nil {
		return fmt.Errorf("invalid roster rules: %w", err)
	}
	if got := c.Roster.TotalSlots(); got != c.RoundCount {
		// Every round fills exactly one roster slot, so the totals must
		// agree or a completed draft would leave rosters over or under.
		return fmt.Errorf("roster slots (%d) must equal round count (%d)", got, c.RoundCount)
	}

	return nil
}

// TotalPicks is the length of the full draft.
func (c Config) TotalPicks() int {
	return c.TeamCount * c.RoundCount
}
