package draft

import (
	"sort"

	"github.com/draftday/draftsim/internal/domain/player"
)

// ScarcityCurve maps the number of remaining top-two-tier players at a
// position to a raw scarcity value. Fewer remaining means scarcer.
type ScarcityCurve func(topTwoRemaining int) float64

// DefaultScarcityCurve is a steep inverse: 1/(1+n).
func DefaultScarcityCurve(n int) float64 {
	if n < 0 {
		n = 0
	}
	return 1.0 / (1.0 + float64(n))
}

// ScarcitySnapshot is a point-in-time view of the remaining pool. It is
// recomputed from scratch after every committed pick; there is no
// incremental maintenance to go stale.
type ScarcitySnapshot struct {
	tierCounts map[player.Position]map[int]int
	topTwo     map[player.Position]int
	scores     map[player.Position]float64
}

// AnalyzeScarcity computes per-position tier counts over the remaining
// pool and a 0-1 scarcity score per position. "Top two tiers" means the
// two best tier values still present at the position, so the measure
// adapts as tiers drain. Scores are min-max normalized across the
// positions present so the scorer weights compose predictably.
func AnalyzeScarcity(remaining []player.Player, curve ScarcityCurve) ScarcitySnapshot {
	if curve == nil {
		curve = DefaultScarcityCurve
	}

	tierCounts := make(map[player.Position]map[int]int)
	for _, p := range remaining {
		counts, ok := tierCounts[p.Position]
		if !ok {
			counts = make(map[int]int)
			tierCounts[p.Position] = counts
		}
		counts[p.Tier]++
	}

	topTwo := make(map[player.Position]int, len(tierCounts))
	raw := make(map[player.Position]float64, len(tierCounts))
	for pos, counts := range tierCounts {
		tiers := make([]int, 0, len(counts))
		for tier := range counts {
			tiers = append(tiers, tier)
		}
		sort.Ints(tiers)

		n := 0
		for i, tier := range tiers {
			if i >= 2 {
				break
			}
			n += counts[tier]
		}
		topTwo[pos] = n
		raw[pos] = curve(n)
	}

	return ScarcitySnapshot{
		tierCounts: tierCounts,
		topTwo:     topTwo,
		scores:     normalizeScores(raw),
	}
}

func normalizeScores(raw map[player.Position]float64) map[player.Position]float64 {
	out := make(map[player.Position]float64, len(raw))
	if len(raw) == 0 {
		return out
	}

	first := true
	var min, max float64
	for _, v := range raw {
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		// Uniform scarcity carries no signal between positions.
		for pos := range raw {
			out[pos] = 0.5
		}
		return out
	}

	for pos, v := range raw {
		out[pos] = (v - min) / (max - min)
	}

	return out
}

// Score is the normalized scarcity for a position. A position with no
// remaining players is fully depleted and scores 1.
func (s ScarcitySnapshot) Score(pos player.Position) float64 {
	v, ok := s.scores[pos]
	if !ok {
		return 1.0
	}
	return v
}

// TierRemaining is the remaining count at a position within one tier.
func (s ScarcitySnapshot) TierRemaining(pos player.Position, tier int) int {
	return s.tierCounts[pos][tier]
}

// TopTwoRemaining is the count of remaining players in the position's two
// best tiers still on the board.
func (s ScarcitySnapshot) TopTwoRemaining(pos player.Position) int {
	return s.topTwo[pos]
}
