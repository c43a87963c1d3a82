package draft

import (
	"testing"

	"github.com/draftday/draftsim/internal/domain/player"
)

func gradeCatalog(t *testing.T) *player.Catalog {
	t.Helper()
	players := []player.Player{
		{ID: "rb1", Name: "RB One", Position: player.PositionRB, Rank: 1, Tier: 1, ADP: 15},
		{ID: "wr1", Name: "WR One", Position: player.PositionWR, Rank: 2, Tier: 1, ADP: 8},
		{ID: "qb1", Name: "QB One", Position: player.PositionQB, Rank: 3, Tier: 1}, // no ADP
		{ID: "te1", Name: "TE One", Position: player.PositionTE, Rank: 4, Tier: 1, ADP: 40},
	}
	catalog, err := player.NewCatalog(players)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return catalog
}

func gradeEntry(team, overall int, id string, keeper bool) BoardEntry {
	return BoardEntry{
		Slot:     PickSlot{Team: team, Round: 0, Overall: overall},
		PlayerID: id,
		IsKeeper: keeper,
	}
}

func TestGradeTeamAveragesADPValue(t *testing.T) {
	entries := []BoardEntry{
		gradeEntry(0, 0, "rb1", false), // ADP 15 taken at pick 1, value +14
		gradeEntry(1, 1, "wr1", false), // other team, ignored
		gradeEntry(0, 2, "te1", false), // ADP 40 taken at pick 3, value +37
	}

	report := GradeTeam(0, entries, gradeCatalog(t))
	if report.Picks != 2 {
		t.Fatalf("expected 2 picks, got %d", report.Picks)
	}
	if want := (14.0 + 37.0) / 2; report.AvgValue != want {
		t.Fatalf("expected avg %f, got %f", want, report.AvgValue)
	}
	if report.Overall != GradeAPlus {
		t.Fatalf("expected A+, got %s", report.Overall)
	}
}

func TestGradeTeamSkipsKeepersAndUnknownADP(t *testing.T) {
	entries := []BoardEntry{
		gradeEntry(0, 0, "rb1", true),  // keeper, excluded from value
		gradeEntry(0, 1, "qb1", false), // no ADP, excluded from value
	}

	report := GradeTeam(0, entries, gradeCatalog(t))
	if report.Picks != 2 || report.Keepers != 1 {
		t.Fatalf("picks=%d keepers=%d", report.Picks, report.Keepers)
	}
	if report.AvgValue != 0 {
		t.Fatalf("expected zero avg with no gradeable picks, got %f", report.AvgValue)
	}
	if report.Overall != GradeC {
		t.Fatalf("zero value grades C, got %s", report.Overall)
	}

	// The QB still counts toward the positional pick tally.
	if len(report.Positions) != 1 || report.Positions[0].Position != player.PositionQB {
		t.Fatalf("unexpected position breakdown %+v", report.Positions)
	}
	if report.Positions[0].Grade != GradeB {
		t.Fatalf("neutral position grades B, got %s", report.Positions[0].Grade)
	}
}

func TestOverallGradeBands(t *testing.T) {
	cases := []struct {
		avg  float64
		want Grade
	}{
		{12, GradeAPlus},
		{10, GradeAPlus},
		{7, GradeA},
		{3, GradeB},
		{0, GradeC},
		{-3, GradeD},
		{-5, GradeD},
		{-9, GradeF},
	}
	for _, tc := range cases {
		if got := overallGrade(tc.avg); got != tc.want {
			t.Errorf("overallGrade(%f) = %s, want %s", tc.avg, got, tc.want)
		}
	}
}

func TestPositionGradeBands(t *testing.T) {
	cases := []struct {
		avg  float64
		want Grade
	}{
		{6, GradeA},
		{0, GradeB},
		{-2, GradeC},
		{-7, GradeD},
	}
	for _, tc := range cases {
		if got := positionGrade(tc.avg); got != tc.want {
			t.Errorf("positionGrade(%f) = %s, want %s", tc.avg, got, tc.want)
		}
	}
}

func TestGradeAllCoversEveryTeam(t *testing.T) {
	entries := []BoardEntry{
		gradeEntry(0, 0, "rb1", false),
		gradeEntry(1, 1, "wr1", false),
	}

	reports := GradeAll(3, entries, gradeCatalog(t))
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[2].Picks != 0 || reports[2].Overall != GradeC {
		t.Fatalf("empty team report %+v", reports[2])
	}
}
