package draft

import (
	"errors"
	"testing"
)

func TestKeeperRegistryReserveConflicts(t *testing.T) {
	reg := NewKeeperRegistry(10, 15)

	if err := reg.Reserve(3, "p10", 0); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}

	tests := []struct {
		name      string
		team      int
		playerID  string
		round     int
		targetErr error
	}{
		{name: "duplicate player", team: 5, playerID: "p10", round: 4, targetErr: ErrDuplicatePlayer},
		{name: "slot taken", team: 3, playerID: "p99", round: 0, targetErr: ErrSlotTaken},
		{name: "round past draft", team: 1, playerID: "p20", round: 15, targetErr: ErrInvalidRound},
		{name: "negative round", team: 1, playerID: "p20", round: -1, targetErr: ErrInvalidRound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Reserve(tt.team, tt.playerID, tt.round)
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestKeeperRegistryLookupAndList(t *testing.T) {
	reg := NewKeeperRegistry(10, 15)
	_ = reg.Reserve(4, "p2", 3)
	_ = reg.Reserve(1, "p1", 0)
	_ = reg.Reserve(2, "p3", 0)

	res, ok := reg.Lookup(4, 3)
	if !ok || res.PlayerID != "p2" {
		t.Fatalf("expected p2 at (4,3), got %+v ok=%v", res, ok)
	}
	if _, ok := reg.Lookup(4, 4); ok {
		t.Fatal("expected no reservation at (4,4)")
	}

	list := reg.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 reservations, got %d", len(list))
	}
	if list[0].PlayerID != "p1" || list[1].PlayerID != "p3" || list[2].PlayerID != "p2" {
		t.Fatalf("unexpected order: %+v", list)
	}

	if !reg.Reserved("p1") || reg.Reserved("p9") {
		t.Fatal("Reserved lookups wrong")
	}
}

func TestKeeperRegistryRemove(t *testing.T) {
	reg := NewKeeperRegistry(10, 15)
	_ = reg.Reserve(4, "p2", 3)

	if err := reg.Remove("p9"); err == nil {
		t.Fatal("expected error removing unknown reservation")
	}
	if err := reg.Remove("p2"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := reg.Lookup(4, 3); ok {
		t.Fatal("slot should be open after removal")
	}

	// Slot and player become reservable again.
	if err := reg.Reserve(4, "p2", 3); err != nil {
		t.Fatalf("re-reserve failed: %v", err)
	}
}

func TestKeeperRegistryFreeze(t *testing.T) {
	reg := NewKeeperRegistry(10, 15)
	_ = reg.Reserve(4, "p2", 3)
	reg.Freeze()

	if err := reg.Reserve(5, "p3", 1); !errors.Is(err, ErrReservationsFrozen) {
		t.Fatalf("expected ErrReservationsFrozen, got %v", err)
	}
	if err := reg.Remove("p2"); !errors.Is(err, ErrReservationsFrozen) {
		t.Fatalf("expected ErrReservationsFrozen, got %v", err)
	}

	// Read-only access keeps working.
	if _, ok := reg.Lookup(4, 3); !ok {
		t.Fatal("lookup should still work after freeze")
	}
}
