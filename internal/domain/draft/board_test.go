package draft

import (
	"errors"
	"testing"
)

func boardEntry(overall int, playerID string) BoardEntry {
	return BoardEntry{
		Slot:     PickSlot{Round: overall / 2, Team: overall % 2, Overall: overall},
		PlayerID: playerID,
		Seq:      overall,
	}
}

func TestBoardLifecycle(t *testing.T) {
	b := NewBoard(4)

	if b.State() != StateNotStarted {
		t.Fatalf("expected not_started, got %s", b.State())
	}
	if err := b.Append(boardEntry(0, "p1")); err == nil {
		t.Fatal("append before start must fail")
	}

	if err := b.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := b.Start(); err == nil {
		t.Fatal("double start must fail")
	}

	for i, id := range []string{"p1", "p2", "p3"} {
		if err := b.Append(boardEntry(i, id)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if b.State() != StateInProgress {
		t.Fatalf("expected in_progress, got %s", b.State())
	}

	if err := b.Append(boardEntry(3, "p4")); err != nil {
		t.Fatalf("final append: %v", err)
	}
	if b.State() != StateComplete {
		t.Fatalf("expected complete after final pick, got %s", b.State())
	}
}

func TestBoardRejectsOutOfOrderAndDuplicates(t *testing.T) {
	b := NewBoard(4)
	_ = b.Start()
	_ = b.Append(boardEntry(0, "p1"))

	if err := b.Append(boardEntry(2, "p2")); err == nil {
		t.Fatal("expected out-of-order rejection")
	}
	if err := b.Append(boardEntry(1, "p1")); !errors.Is(err, ErrAlreadyDrafted) {
		t.Fatalf("expected ErrAlreadyDrafted, got %v", err)
	}
	if !b.Drafted("p1") || b.Drafted("p2") {
		t.Fatal("drafted index wrong")
	}
}

func TestBoardRemoveLast(t *testing.T) {
	b := NewBoard(4)
	_ = b.Start()

	if _, err := b.RemoveLast(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("expected ErrIllegalUndo on empty board, got %v", err)
	}

	_ = b.Append(boardEntry(0, "p1"))
	_ = b.Append(boardEntry(1, "p2"))

	last, err := b.RemoveLast()
	if err != nil {
		t.Fatalf("remove last: %v", err)
	}
	if last.PlayerID != "p2" || b.Len() != 1 {
		t.Fatalf("expected p2 removed, got %+v len=%d", last, b.Len())
	}
	if b.Drafted("p2") {
		t.Fatal("p2 should be released")
	}

	// The slot can be refilled, including with a different player.
	if err := b.Append(boardEntry(1, "p3")); err != nil {
		t.Fatalf("refill after undo: %v", err)
	}
}

func TestBoardUndoAfterComplete(t *testing.T) {
	b := NewBoard(1)
	_ = b.Start()
	_ = b.Append(boardEntry(0, "p1"))

	if _, err := b.RemoveLast(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("expected ErrIllegalUndo after completion, got %v", err)
	}
}

func TestBoardSnapshotIsCopy(t *testing.T) {
	b := NewBoard(4)
	_ = b.Start()
	_ = b.Append(boardEntry(0, "p1"))

	snap := b.Snapshot()
	snap[0].PlayerID = "tampered"

	if b.Snapshot()[0].PlayerID != "p1" {
		t.Fatal("snapshot must not alias internal state")
	}
}
