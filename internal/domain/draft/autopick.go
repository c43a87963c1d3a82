package draft

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/draftday/draftsim/internal/domain/player"
)

// ScorerParams tunes the autopick scoring model. The weighting constants
// and curve shapes were never nailed down by league lore, so everything
// is a parameter with a sensible default rather than a buried constant.
type ScorerParams struct {
	// Weights of the five base sub-scores. Each sub-score is 0-1, so a
	// weight vector summing to 1 keeps the base score 0-1 as well.
	ValueWeight    float64
	NeedWeight     float64
	ScarcityWeight float64
	TierWeight     float64
	ADPWeight      float64

	// NeedFloor keeps nice-to-have positions from starving once every
	// dedicated and FLEX slot is spoken for.
	NeedFloor float64
	// FlexNeedScale is the need score when only FLEX capacity remains.
	FlexNeedScale float64
	// ADPFallCap is the number of picks a player must fall past their
	// ADP to earn the full ADP bonus. Reaches are clipped at zero.
	ADPFallCap float64
	// TierBreakWindow: a candidate earns a tier bonus while at most this
	// many players remain in their tier at their position.
	TierBreakWindow int

	// PremiumGuardFraction delays K/DST: picks before this fraction of
	// the draft are multiplied by PremiumPenalty.
	PremiumGuardFraction float64
	PremiumPenalty       float64

	// Backup guards for QB/TE/K/DST once a starter is rostered.
	BackupGuardFraction float64
	BackupPenalty       float64
	SoftBackupFraction  float64
	SoftBackupPenalty   float64

	// Zero-RB / zero-WR correction: from this 0-based round on, a team
	// with no players at the position sees candidates there boosted.
	ZeroPatternRound int
	ZeroPatternBoost float64

	// JitterScale bounds the random perturbation added after all
	// adjustments. It must stay below the smallest score gap the weight
	// vector can produce so it only breaks near-ties.
	JitterScale float64
}

func DefaultScorerParams() ScorerParams {
	return ScorerParams{
		ValueWeight:    0.40,
		NeedWeight:     0.30,
		ScarcityWeight: 0.15,
		TierWeight:     0.10,
		ADPWeight:      0.05,

		NeedFloor:       0.25,
		FlexNeedScale:   0.50,
		ADPFallCap:      10,
		TierBreakWindow: 3,

		PremiumGuardFraction: 2.0 / 3.0,
		PremiumPenalty:       0.1,

		BackupGuardFraction: 0.625,
		BackupPenalty:       0.2,
		SoftBackupFraction:  0.875,
		SoftBackupPenalty:   0.5,

		ZeroPatternRound: 3,
		ZeroPatternBoost: 1.3,

		JitterScale: 0.01,
	}
}

// PickRequest is everything the scorer may consult for one decision. The
// scorer itself holds no draft state; its output depends only on the
// request and the seeded random source.
type PickRequest struct {
	Team        int
	Round       int // 0-based
	TotalRounds int
	OverallPick int // 0-based absolute index of the slot being filled
	Remaining   []player.Player // undrafted pool in rank order
	Roster      *RosterTracker
	Scarcity    ScarcitySnapshot
}

// ScoredCandidate pairs a candidate with its final adjusted score,
// exposed for inspection and debugging endpoints.
type ScoredCandidate struct {
	Player player.Player
	Score  float64
}

// Scorer selects the best available player for a team using the weighted
// model plus the ordered adjustment pipeline. Randomness comes only from
// the injected seed, keeping picks reproducible.
type Scorer struct {
	params ScorerParams
	stages []AdjustmentStage
	rng    *rand.Rand
}

func NewScorer(params ScorerParams, seed int64) *Scorer {
	return &Scorer{
		params: params,
		stages: DefaultAdjustments(),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// NewScorerWithStages replaces the default adjustment pipeline, mainly
// for tests that isolate single stages.
func NewScorerWithStages(params ScorerParams, seed int64, stages []AdjustmentStage) *Scorer {
	return &Scorer{
		params: params,
		stages: stages,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Pick returns the highest scoring eligible candidate. Ties break on
// lower overall rank, then lower player ID, so results are deterministic
// for a fixed seed.
func (s *Scorer) Pick(req PickRequest) (player.Player, error) {
	scored, err := s.Rank(req)
	if err != nil {
		return player.Player{}, err
	}
	return scored[0].Player, nil
}

// Rank scores every eligible candidate and returns them best first.
func (s *Scorer) Rank(req PickRequest) ([]ScoredCandidate, error) {
	candidates := make([]ScoredCandidate, 0, len(req.Remaining))

	bestRank := 0
	for _, p := range req.Remaining {
		if bestRank == 0 || p.Rank < bestRank {
			bestRank = p.Rank
		}
	}

	actx := AdjustContext{
		Team:        req.Team,
		Round:       req.Round,
		TotalRounds: req.TotalRounds,
		Roster:      req.Roster,
	}

	for _, p := range req.Remaining {
		if !req.Roster.CanAccept(req.Team, p.Position) {
			continue
		}

		score := s.baseScore(req, bestRank, p)
		for _, stage := range s.stages {
			score = stage(actx, s.params, p, score)
		}
		score += s.rng.Float64() * s.params.JitterScale

		candidates = append(candidates, ScoredCandidate{Player: p, Score: score})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: team %d round %d", ErrNoEligibleCandidate, req.Team, req.Round)
	}

	sortCandidates(candidates)

	return candidates, nil
}

func (s *Scorer) baseScore(req PickRequest, bestRank int, p player.Player) float64 {
	value := float64(bestRank) / float64(p.Rank)
	need := s.needScore(req, p.Position)
	scarcity := req.Scarcity.Score(p.Position)
	tier := s.tierScore(req, p)
	adp := s.adpScore(req, p)

	return value*s.params.ValueWeight +
		need*s.params.NeedWeight +
		scarcity*s.params.ScarcityWeight +
		tier*s.params.TierWeight +
		adp*s.params.ADPWeight
}

func (s *Scorer) needScore(req PickRequest, pos player.Position) float64 {
	if req.Roster.DedicatedOpen(req.Team, pos) {
		return 1.0
	}
	if req.Roster.FlexOpen(req.Team, pos) {
		if s.params.FlexNeedScale < s.params.NeedFloor {
			return s.params.NeedFloor
		}
		return s.params.FlexNeedScale
	}
	return s.params.NeedFloor
}

func (s *Scorer) tierScore(req PickRequest, p player.Player) float64 {
	window := s.params.TierBreakWindow
	if window <= 0 {
		return 0
	}

	n := req.Scarcity.TierRemaining(p.Position, p.Tier)
	if n <= 0 {
		n = 1
	}
	if n > window {
		return 0
	}
	// Last player in tier scores 1.0, decaying linearly over the window.
	return float64(window+1-n) / float64(window)
}

func (s *Scorer) adpScore(req PickRequest, p player.Player) float64 {
	if p.ADP <= 0 || s.params.ADPFallCap <= 0 {
		return 0
	}

	fall := p.ADP - float64(req.OverallPick+1)
	if fall <= 0 {
		return 0
	}
	if fall >= s.params.ADPFallCap {
		return 1
	}
	return fall / s.params.ADPFallCap
}

func sortCandidates(candidates []ScoredCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Player.Rank != b.Player.Rank {
			return a.Player.Rank < b.Player.Rank
		}
		return a.Player.ID < b.Player.ID
	})
}
