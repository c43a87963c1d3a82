package player

import "fmt"

// Position represents the roster position categories used in drafting.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

var AllPositions = map[Position]struct{}{
	PositionQB:  {},
	PositionRB:  {},
	PositionWR:  {},
	PositionTE:  {},
	PositionK:   {},
	PositionDST: {},
}

// FlexEligible lists the positions that may occupy a FLEX roster slot.
var FlexEligible = map[Position]struct{}{
	PositionRB: {},
	PositionWR: {},
	PositionTE: {},
}

// Player is a draftable athlete in a ranked catalog. Records are immutable
// for the lifetime of a draft session.
type Player struct {
	ID       string
	Name     string
	Team     string // NFL team abbreviation
	Position Position
	Rank     int // overall rank, lower is better
	Tier     int // rank grouping, lower is better
	ByeWeek  int
	ADP      float64 // average draft position, 0 when unknown
	SOS      int     // strength of schedule, 1-5 stars, 0 when unknown
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Rank <= 0 {
		return fmt.Errorf("player rank must be greater than zero")
	}
	if p.Tier <= 0 {
		return fmt.Errorf("player tier must be greater than zero")
	}
	if p.ADP < 0 {
		return fmt.Errorf("player adp cannot be negative")
	}
	if p.SOS < 0 || p.SOS > 5 {
		return fmt.Errorf("player sos must be between 0 and 5")
	}

	return nil
}
