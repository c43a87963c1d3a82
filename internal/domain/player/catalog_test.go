package player

import (
	"strings"
	"testing"
)

func testPlayer(id string, rank int, pos Position) Player {
	return Player{
		ID:       id,
		Name:     "Player " + id,
		Team:     "FA",
		Position: pos,
		Rank:     rank,
		Tier:     (rank-1)/6 + 1,
	}
}

func TestNewCatalogOrdersByRank(t *testing.T) {
	players := []Player{
		testPlayer("p3", 30, PositionWR),
		testPlayer("p1", 1, PositionRB),
		testPlayer("p2", 12, PositionQB),
	}

	catalog, err := NewCatalog(players)
	if err != nil {
		t.Fatalf("new catalog failed: %v", err)
	}

	got := catalog.Players()
	if got[0].ID != "p1" || got[1].ID != "p2" || got[2].ID != "p3" {
		t.Fatalf("unexpected order: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}

	if catalog.Size() != 3 {
		t.Fatalf("expected size 3, got %d", catalog.Size())
	}

	rbs := catalog.ByPosition(PositionRB)
	if len(rbs) != 1 || rbs[0].ID != "p1" {
		t.Fatalf("expected one RB p1, got %v", rbs)
	}
}

func TestNewCatalogRejectsDuplicateID(t *testing.T) {
	_, err := NewCatalog([]Player{
		testPlayer("p1", 1, PositionRB),
		testPlayer("p1", 2, PositionWR),
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate player id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestNewCatalogRejectsInvalidPlayer(t *testing.T) {
	bad := testPlayer("p1", 1, PositionRB)
	bad.Tier = 0

	_, err := NewCatalog([]Player{bad})
	if err == nil {
		t.Fatal("expected validation error for tier 0")
	}
}

func TestPlayerValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Player)
		valid  bool
	}{
		{name: "valid", mutate: func(_ *Player) {}, valid: true},
		{name: "missing id", mutate: func(p *Player) { p.ID = "" }},
		{name: "missing name", mutate: func(p *Player) { p.Name = "" }},
		{name: "bad position", mutate: func(p *Player) { p.Position = "LB" }},
		{name: "zero rank", mutate: func(p *Player) { p.Rank = 0 }},
		{name: "negative adp", mutate: func(p *Player) { p.ADP = -1 }},
		{name: "sos too high", mutate: func(p *Player) { p.SOS = 6 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlayer("p1", 5, PositionWR)
			tt.mutate(&p)
			err := p.Validate()
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
