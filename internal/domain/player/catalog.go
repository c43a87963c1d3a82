package player

import (
	"fmt"
	"sort"
)

// Catalog is the read-only index over a finalized player pool. It is built
// once before a draft starts and may be shared across draft instances
// because nothing mutates it afterwards.
type Catalog struct {
	players    []Player
	byID       map[string]Player
	byPosition map[Position][]Player
}

// NewCatalog validates and indexes a finalized player list. Players are
// ordered by overall rank, ties broken by ID so iteration order is stable.
func NewCatalog(players []Player) (*Catalog, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("catalog requires at least one player")
	}

	ordered := append([]Player(nil), players...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Rank != ordered[j].Rank {
			return ordered[i].Rank < ordered[j].Rank
		}
		return ordered[i].ID < ordered[j].ID
	})

	byID := make(map[string]Player, len(ordered))
	byPosition := make(map[Position][]Player)
	for _, p := range ordered {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid player %s: %w", p.ID, err)
		}
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate player id: %s", p.ID)
		}
		byID[p.ID] = p
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}

	return &Catalog{
		players:    ordered,
		byID:       byID,
		byPosition: byPosition,
	}, nil
}

func (c *Catalog) Get(id string) (Player, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Players returns the full pool in rank order. Callers must treat the
// returned slice as read-only.
func (c *Catalog) Players() []Player {
	return c.players
}

// ByPosition returns players at a position in rank order, read-only.
func (c *Catalog) ByPosition(pos Position) []Player {
	return c.byPosition[pos]
}

func (c *Catalog) Size() int {
	return len(c.players)
}
