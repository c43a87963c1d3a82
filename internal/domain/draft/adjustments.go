package draft

import "github.com/draftday/draftsim/internal/domain/player"

// AdjustContext is the draft state an adjustment stage may consult.
type AdjustContext struct {
	Team        int
	Round       int // 0-based
	TotalRounds int
	Roster      *RosterTracker
}

// AdjustmentStage transforms a candidate's score. Stages are pure and
// applied in order after the weighted base score, so each heuristic can
// be tested in isolation.
type AdjustmentStage func(ctx AdjustContext, params ScorerParams, cand player.Player, score float64) float64

// DefaultAdjustments is the stage order used in production scoring.
func DefaultAdjustments() []AdjustmentStage {
	return []AdjustmentStage{
		PremiumPositionGuard,
		BackupGuard,
		ZeroPatternBoost,
	}
}

// PremiumPositionGuard suppresses K and DST until late in the draft.
func PremiumPositionGuard(ctx AdjustContext, params ScorerParams, cand player.Player, score float64) float64 {
	if cand.Position != player.PositionK && cand.Position != player.PositionDST {
		return score
	}
	if float64(ctx.Round) >= params.PremiumGuardFraction*float64(ctx.TotalRounds) {
		return score
	}
	return score * params.PremiumPenalty
}

// BackupGuard suppresses a second QB/TE/K/DST while the draft is young:
// hard before BackupGuardFraction of the rounds, softer up to
// SoftBackupFraction, free afterwards.
func BackupGuard(ctx AdjustContext, params ScorerParams, cand player.Player, score float64) float64 {
	switch cand.Position {
	case player.PositionQB, player.PositionTE, player.PositionK, player.PositionDST:
	default:
		return score
	}
	if ctx.Roster.Count(ctx.Team, cand.Position) == 0 {
		return score
	}

	progress := float64(ctx.Round) / float64(ctx.TotalRounds)
	switch {
	case progress < params.BackupGuardFraction:
		return score * params.BackupPenalty
	case progress < params.SoftBackupFraction:
		return score * params.SoftBackupPenalty
	default:
		return score
	}
}

// ZeroPatternBoost corrects a zero-RB or zero-WR start: once the draft
// passes ZeroPatternRound with none of the position rostered, candidates
// there get a bounded boost.
func ZeroPatternBoost(ctx AdjustContext, params ScorerParams, cand player.Player, score float64) float64 {
	if cand.Position != player.PositionRB && cand.Position != player.PositionWR {
		return score
	}
	if ctx.Round < params.ZeroPatternRound {
		return score
	}
	if ctx.Roster.Count(ctx.Team, cand.Position) > 0 {
		return score
	}
	return score * params.ZeroPatternBoost
}
