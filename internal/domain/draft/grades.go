package draft

import (
	"sort"

	"github.com/draftday/draftsim/internal/domain/player"
)

// Grade is a letter evaluation of draft value, from overall or
// per-position average ADP fall.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// PositionGrade summarizes a team's value at one position.
type PositionGrade struct {
	Position player.Position
	Picks    int
	AvgValue float64 // average picks gained versus ADP, positive is good
	Grade    Grade
}

// TeamGrade is the full report card for one team's draft.
type TeamGrade struct {
	Team      int
	Picks     int
	Keepers   int
	AvgValue  float64
	Overall   Grade
	Positions []PositionGrade
}

// GradeTeam scores a team's committed picks by how far each player fell
// past their ADP when taken. Keeper slots are excluded: their cost was
// fixed before the draft and says nothing about draft-day decisions.
// Players without a known ADP are skipped the same way.
func GradeTeam(team int, entries []BoardEntry, catalog *player.Catalog) TeamGrade {
	report := TeamGrade{Team: team}

	sum := 0.0
	counted := 0
	posSum := make(map[player.Position]float64)
	posCount := make(map[player.Position]int)
	posPicks := make(map[player.Position]int)

	for _, e := range entries {
		if e.Slot.Team != team {
			continue
		}
		report.Picks++
		if e.IsKeeper {
			report.Keepers++
			continue
		}

		p, ok := catalog.Get(e.PlayerID)
		if !ok {
			continue
		}
		posPicks[p.Position]++
		if p.ADP <= 0 {
			continue
		}

		value := p.ADP - float64(e.Slot.Overall+1)
		sum += value
		counted++
		posSum[p.Position] += value
		posCount[p.Position]++
	}

	if counted > 0 {
		report.AvgValue = sum / float64(counted)
	}
	report.Overall = overallGrade(report.AvgValue)

	positions := make([]player.Position, 0, len(posPicks))
	for pos := range posPicks {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	for _, pos := range positions {
		avg := 0.0
		if posCount[pos] > 0 {
			avg = posSum[pos] / float64(posCount[pos])
		}
		report.Positions = append(report.Positions, PositionGrade{
			Position: pos,
			Picks:    posPicks[pos],
			AvgValue: avg,
			Grade:    positionGrade(avg),
		})
	}

	return report
}

// GradeAll reports every team on the board.
func GradeAll(teamCount int, entries []BoardEntry, catalog *player.Catalog) []TeamGrade {
	out := make([]TeamGrade, 0, teamCount)
	for team := 0; team < teamCount; team++ {
		out = append(out, GradeTeam(team, entries, catalog))
	}
	return out
}

func overallGrade(avg float64) Grade {
	switch {
	case avg >= 10:
		return GradeAPlus
	case avg >= 5:
		return GradeA
	case avg >= 2:
		return GradeB
	case avg >= -2:
		return GradeC
	case avg >= -5:
		return GradeD
	default:
		return GradeF
	}
}

func positionGrade(avg float64) Grade {
	switch {
	case avg >= 5:
		return GradeA
	case avg >= 0:
		return GradeB
	case avg >= -5:
		return GradeC
	default:
		return GradeD
	}
}
