package draft

import (
	"testing"

	"github.com/draftday/draftsim/internal/domain/player"
)

func poolPlayer(id string, rank, tier int, pos player.Position) player.Player {
	return player.Player{
		ID:       id,
		Name:     "Player " + id,
		Position: pos,
		Rank:     rank,
		Tier:     tier,
	}
}

func TestAnalyzeScarcityTierCounts(t *testing.T) {
	remaining := []player.Player{
		poolPlayer("rb1", 1, 1, player.PositionRB),
		poolPlayer("rb2", 4, 1, player.PositionRB),
		poolPlayer("rb3", 9, 2, player.PositionRB),
		poolPlayer("wr1", 2, 1, player.PositionWR),
		poolPlayer("wr2", 3, 1, player.PositionWR),
		poolPlayer("wr3", 5, 2, player.PositionWR),
		poolPlayer("wr4", 6, 2, player.PositionWR),
		poolPlayer("wr5", 7, 3, player.PositionWR),
		poolPlayer("qb1", 8, 3, player.PositionQB),
	}

	snap := AnalyzeScarcity(remaining, nil)

	if got := snap.TierRemaining(player.PositionWR, 2); got != 2 {
		t.Fatalf("expected 2 WRs in tier 2, got %d", got)
	}
	if got := snap.TopTwoRemaining(player.PositionRB); got != 3 {
		t.Fatalf("expected 3 RBs in top two tiers, got %d", got)
	}
	// WR top two tiers are 1 and 2, excluding the tier-3 player.
	if got := snap.TopTwoRemaining(player.PositionWR); got != 4 {
		t.Fatalf("expected 4 WRs in top two tiers, got %d", got)
	}
	// QB only has tier 3 left; its single tier counts as top.
	if got := snap.TopTwoRemaining(player.PositionQB); got != 1 {
		t.Fatalf("expected 1 QB in top tiers, got %d", got)
	}
}

func TestAnalyzeScarcityNormalization(t *testing.T) {
	remaining := []player.Player{
		poolPlayer("qb1", 8, 1, player.PositionQB),
		poolPlayer("rb1", 1, 1, player.PositionRB),
		poolPlayer("rb2", 4, 1, player.PositionRB),
		poolPlayer("rb3", 9, 1, player.PositionRB),
		poolPlayer("wr1", 2, 1, player.PositionWR),
		poolPlayer("wr2", 3, 1, player.PositionWR),
	}

	snap := AnalyzeScarcity(remaining, nil)

	// QB is scarcest (1 left), RB deepest (3 left): extremes of the range.
	if got := snap.Score(player.PositionQB); got != 1.0 {
		t.Fatalf("expected QB scarcity 1.0, got %f", got)
	}
	if got := snap.Score(player.PositionRB); got != 0.0 {
		t.Fatalf("expected RB scarcity 0.0, got %f", got)
	}

	wr := snap.Score(player.PositionWR)
	if wr <= 0 || wr >= 1 {
		t.Fatalf("expected WR scarcity strictly between extremes, got %f", wr)
	}

	// Depleted positions read as maximally scarce.
	if got := snap.Score(player.PositionTE); got != 1.0 {
		t.Fatalf("expected depleted TE scarcity 1.0, got %f", got)
	}
}

func TestAnalyzeScarcityUniformPool(t *testing.T) {
	remaining := []player.Player{
		poolPlayer("rb1", 1, 1, player.PositionRB),
		poolPlayer("wr1", 2, 1, player.PositionWR),
	}

	snap := AnalyzeScarcity(remaining, nil)
	if snap.Score(player.PositionRB) != 0.5 || snap.Score(player.PositionWR) != 0.5 {
		t.Fatal("uniform scarcity should be neutral for all positions")
	}
}

func TestAnalyzeScarcityCustomCurve(t *testing.T) {
	remaining := []player.Player{
		poolPlayer("rb1", 1, 1, player.PositionRB),
		poolPlayer("wr1", 2, 1, player.PositionWR),
		poolPlayer("wr2", 3, 1, player.PositionWR),
	}

	inverted := func(n int) float64 { return float64(n) }
	snap := AnalyzeScarcity(remaining, inverted)

	// With an increasing curve the deeper position scores higher,
	// confirming the hook is honored.
	if snap.Score(player.PositionWR) != 1.0 || snap.Score(player.PositionRB) != 0.0 {
		t.Fatalf("custom curve not applied: wr=%f rb=%f",
			snap.Score(player.PositionWR), snap.Score(player.PositionRB))
	}
}
