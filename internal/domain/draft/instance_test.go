package draft

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/draftday/draftsim/internal/domain/league"
	"github.com/draftday/draftsim/internal/domain/player"
)

// buildCatalog generates a ranked pool with a realistic position mix:
// heavy on RB/WR, one QB/TE/K/DST per ten ranks.
func buildCatalog(t *testing.T, n int) *player.Catalog {
	t.Helper()

	pattern := []player.Position{
		player.PositionRB, player.PositionWR, player.PositionRB, player.PositionWR,
		player.PositionQB, player.PositionTE, player.PositionRB, player.PositionWR,
		player.PositionK, player.PositionDST,
	}

	players := make([]player.Player, 0, n)
	for rank := 1; rank <= n; rank++ {
		players = append(players, player.Player{
			ID:       fmt.Sprintf("p%03d", rank),
			Name:     fmt.Sprintf("Player %03d", rank),
			Team:     "FA",
			Position: pattern[(rank-1)%len(pattern)],
			Rank:     rank,
			Tier:     (rank-1)/10 + 1,
			ByeWeek:  rank%13 + 1,
			ADP:      float64(rank + rank%7),
		})
	}

	catalog, err := player.NewCatalog(players)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return catalog
}

func instanceConfig(teams, rounds int) league.Config {
	roster := league.DefaultRosterRules()
	roster.Bench += rounds - roster.TotalSlots()
	return league.Config{
		TeamCount:      teams,
		UserSlot:       3,
		RoundCount:     rounds,
		Roster:         roster,
		KeepersEnabled: true,
	}
}

func newTestInstance(t *testing.T, cfg league.Config, poolSize int, opts ...Option) *Instance {
	t.Helper()

	opts = append([]Option{
		WithSeed(42),
		WithClock(func() time.Time { return time.Date(2026, 8, 29, 19, 0, 0, 0, time.UTC) }),
	}, opts...)

	inst, err := NewInstance(buildCatalog(t, poolSize), cfg, opts...)
	if err != nil {
		t.Fatalf("new instance: %v", err)
	}
	return inst
}

func TestInstanceFullAutopickDraft(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	for {
		_, err := inst.CommitAutopick()
		if errors.Is(err, ErrDraftComplete) {
			break
		}
		if err != nil {
			t.Fatalf("autopick at entry %d: %v", inst.board.Len(), err)
		}
	}

	if inst.State() != StateComplete {
		t.Fatalf("expected complete state, got %s", inst.State())
	}

	entries := inst.Snapshot()
	if len(entries) != 192 {
		t.Fatalf("expected 192 entries, got %d", len(entries))
	}

	seen := make(map[string]struct{}, len(entries))
	for idx, e := range entries {
		if e.Slot.Overall != idx {
			t.Fatalf("entry %d landed at overall %d", idx, e.Slot.Overall)
		}
		if _, dup := seen[e.PlayerID]; dup {
			t.Fatalf("player %s drafted twice", e.PlayerID)
		}
		seen[e.PlayerID] = struct{}{}
	}

	for team := 0; team < cfg.TeamCount; team++ {
		total := 0
		for pos, limit := range cfg.Roster.Dedicated {
			n := inst.Roster().DedicatedCount(team, pos)
			if n > limit {
				t.Fatalf("team %d holds %d %s in dedicated slots, limit %d", team, n, pos, limit)
			}
			total += n
		}
		total += inst.Roster().FlexUsed(team) + inst.Roster().BenchUsed(team)
		if total != cfg.RoundCount {
			t.Fatalf("team %d ended with %d roster entries, want %d", team, total, cfg.RoundCount)
		}
		if len(inst.UnmetNeeds(team)) != 0 {
			t.Fatalf("team %d finished with unmet needs %v", team, inst.UnmetNeeds(team))
		}
	}
}

func TestInstanceKeeperOverridesManualPick(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	if err := inst.ReserveKeeper(3, "p010", 0); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	// Burn the three slots ahead of team 3.
	for pick := 0; pick < 3; pick++ {
		if _, err := inst.CommitAutopick(); err != nil {
			t.Fatalf("autopick %d: %v", pick, err)
		}
	}

	// A manual request for another player at the reserved slot is
	// overridden by the reservation.
	entry, err := inst.CommitManualPick("p001")
	if err != nil {
		t.Fatalf("manual pick: %v", err)
	}
	if entry.PlayerID != "p010" {
		t.Fatalf("expected reserved p010, got %s", entry.PlayerID)
	}
	if !entry.IsKeeper {
		t.Fatal("expected keeper flag on overridden entry")
	}
	if entry.Slot.Team != 3 || entry.Slot.Round != 0 {
		t.Fatalf("keeper landed at team %d round %d", entry.Slot.Team, entry.Slot.Round)
	}
}

func TestInstanceKeeperOverridesAutopick(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	if err := inst.ReserveKeeper(3, "p010", 0); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	for pick := 0; pick < 3; pick++ {
		if _, err := inst.CommitAutopick(); err != nil {
			t.Fatalf("autopick %d: %v", pick, err)
		}
	}

	entry, err := inst.CommitAutopick()
	if err != nil {
		t.Fatalf("autopick at reserved slot: %v", err)
	}
	if entry.PlayerID != "p010" || !entry.IsKeeper {
		t.Fatalf("expected keeper p010, got %s (keeper=%v)", entry.PlayerID, entry.IsKeeper)
	}
}

func TestInstanceReservedPlayerBlockedElsewhere(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	if err := inst.ReserveKeeper(3, "p010", 4); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	_, err := inst.CommitManualPick("p010")
	if !errors.Is(err, ErrPlayerReserved) {
		t.Fatalf("expected ErrPlayerReserved, got %v", err)
	}

	// The reserved player never surfaces in the open pool either.
	for _, p := range inst.RemainingPlayers() {
		if p.ID == "p010" {
			t.Fatal("reserved player still listed in remaining pool")
		}
	}
}

func TestInstanceManualPickRejections(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	if _, err := inst.CommitManualPick("ghost"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}

	entry, err := inst.CommitManualPick("p001")
	if err != nil {
		t.Fatalf("manual pick: %v", err)
	}
	if entry.PlayerID != "p001" {
		t.Fatalf("expected p001, got %s", entry.PlayerID)
	}

	if _, err := inst.CommitManualPick("p001"); !errors.Is(err, ErrAlreadyDrafted) {
		t.Fatalf("expected ErrAlreadyDrafted, got %v", err)
	}
}

func TestInstanceUndoIsStrictInverse(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	if _, err := inst.CommitAutopick(); err != nil {
		t.Fatalf("autopick: %v", err)
	}

	poolBefore := len(inst.RemainingPlayers())
	boardBefore := inst.board.Len()
	dedicatedBefore := inst.Roster().DedicatedCount(1, player.PositionRB)

	entry, err := inst.CommitManualPick("p002")
	if err != nil {
		t.Fatalf("manual pick: %v", err)
	}

	undone, err := inst.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if undone.PlayerID != entry.PlayerID || undone.Slot != entry.Slot {
		t.Fatalf("undo returned %+v, committed %+v", undone, entry)
	}

	if got := len(inst.RemainingPlayers()); got != poolBefore {
		t.Fatalf("pool size %d after undo, want %d", got, poolBefore)
	}
	if got := inst.board.Len(); got != boardBefore {
		t.Fatalf("board length %d after undo, want %d", got, boardBefore)
	}
	if got := inst.Roster().DedicatedCount(1, player.PositionRB); got != dedicatedBefore {
		t.Fatalf("roster count %d after undo, want %d", got, dedicatedBefore)
	}
	if !inst.Roster().CanAccept(entry.Slot.Team, player.PositionWR) {
		t.Fatal("roster slot not reopened by undo")
	}

	// The same slot can be refilled with a different player.
	refill, err := inst.CommitManualPick("p003")
	if err != nil {
		t.Fatalf("refill: %v", err)
	}
	if refill.Slot != entry.Slot {
		t.Fatalf("refill landed at %+v, want %+v", refill.Slot, entry.Slot)
	}
}

func TestInstanceUndoKeeperKeepsPlayerReserved(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	if err := inst.ReserveKeeper(0, "p010", 0); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	entry, err := inst.CommitAutopick()
	if err != nil {
		t.Fatalf("autopick: %v", err)
	}
	if !entry.IsKeeper {
		t.Fatal("first slot should be the keeper")
	}

	if _, err := inst.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}

	for _, p := range inst.RemainingPlayers() {
		if p.ID == "p010" {
			t.Fatal("undone keeper leaked into the open pool")
		}
	}

	// Replaying the slot restores the keeper, not a scored pick.
	replay, err := inst.CommitAutopick()
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.PlayerID != "p010" || !replay.IsKeeper {
		t.Fatalf("replay produced %s (keeper=%v)", replay.PlayerID, replay.IsKeeper)
	}
}

func TestInstanceUndoOnEmptyBoard(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	if _, err := inst.Undo(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("expected ErrIllegalUndo, got %v", err)
	}
	if inst.State() != StateNotStarted {
		t.Fatalf("failed undo mutated state to %s", inst.State())
	}

	// Started but still empty behaves the same.
	if err := inst.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := inst.Undo(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("expected ErrIllegalUndo after start, got %v", err)
	}
	if got := len(inst.RemainingPlayers()); got != 300 {
		t.Fatalf("failed undo mutated pool, %d remaining", got)
	}
}

func TestInstanceUndoAfterCompleteRejected(t *testing.T) {
	cfg := league.Config{
		TeamCount:  8,
		UserSlot:   0,
		RoundCount: 2,
		Roster: league.RosterRules{
			Dedicated: map[player.Position]int{player.PositionRB: 1, player.PositionWR: 1},
		},
	}
	inst := newTestInstance(t, cfg, 40)

	for {
		if _, err := inst.CommitAutopick(); err != nil {
			if errors.Is(err, ErrDraftComplete) {
				break
			}
			t.Fatalf("autopick: %v", err)
		}
	}

	if _, err := inst.Undo(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("expected ErrIllegalUndo on completed draft, got %v", err)
	}
}

func TestInstanceAutopickDeterministicAcrossInstances(t *testing.T) {
	cfg := instanceConfig(12, 16)

	run := func() []string {
		inst := newTestInstance(t, cfg, 300)
		ids := make([]string, 0, 40)
		for pick := 0; pick < 40; pick++ {
			entry, err := inst.CommitAutopick()
			if err != nil {
				t.Fatalf("autopick %d: %v", pick, err)
			}
			ids = append(ids, entry.PlayerID)
		}
		return ids
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pick %d diverged: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestInstanceAdvanceToUserSlot(t *testing.T) {
	cfg := instanceConfig(12, 16) // user drafts from slot index 3
	inst := newTestInstance(t, cfg, 300)

	committed, err := inst.AdvanceToUserSlot(0)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(committed) != 3 {
		t.Fatalf("expected 3 opposing picks, got %d", len(committed))
	}

	slot, err := inst.NextOpenSlot()
	if err != nil {
		t.Fatalf("next slot: %v", err)
	}
	if slot.Team != cfg.UserSlot {
		t.Fatalf("stopped at team %d, want %d", slot.Team, cfg.UserSlot)
	}
}

func TestInstanceAdvanceAutoFillsUserKeeper(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	// Reserve the user's own first-round slot. Advancing should fill it
	// and stop at the user's round-two turn instead.
	if err := inst.ReserveKeeper(cfg.UserSlot, "p010", 0); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	committed, err := inst.AdvanceToUserSlot(0)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}

	var keeperSeen bool
	for _, e := range committed {
		if e.PlayerID == "p010" && e.IsKeeper {
			keeperSeen = true
		}
	}
	if !keeperSeen {
		t.Fatal("user keeper slot was not auto-filled")
	}

	slot, err := inst.NextOpenSlot()
	if err != nil {
		t.Fatalf("next slot: %v", err)
	}
	if slot.Team != cfg.UserSlot || slot.Round != 1 {
		t.Fatalf("stopped at team %d round %d", slot.Team, slot.Round)
	}
}

func TestInstanceSnakeOrderOnBoard(t *testing.T) {
	cfg := instanceConfig(12, 16)
	inst := newTestInstance(t, cfg, 300)

	for pick := 0; pick < 24; pick++ {
		if _, err := inst.CommitAutopick(); err != nil {
			t.Fatalf("autopick %d: %v", pick, err)
		}
	}

	entries := inst.Snapshot()
	for i := 0; i < 12; i++ {
		if entries[i].Slot.Team != i {
			t.Fatalf("round 0 pick %d went to team %d", i, entries[i].Slot.Team)
		}
		if entries[12+i].Slot.Team != 11-i {
			t.Fatalf("round 1 pick %d went to team %d", i, entries[12+i].Slot.Team)
		}
	}
}
