package draft

import (
	"fmt"
	"time"
)

type BoardState int

const (
	StateNotStarted BoardState = iota
	StateInProgress
	StateComplete
)

func (s BoardState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// BoardEntry is one committed pick. Seq is a monotonically increasing
// commit counter; it keeps growing across undo/redo so replays stay
// unambiguous.
type BoardEntry struct {
	Slot     PickSlot
	PlayerID string
	IsKeeper bool
	Seq      int
	Slotted  SlotKind
	PickedAt time.Time
}

// Board is the authoritative ordered record of committed picks. Entries
// append strictly in pick order; removal happens only from the tail.
type Board struct {
	total   int
	state   BoardState
	entries []BoardEntry
	drafted map[string]struct{}
}

func NewBoard(total int) *Board {
	return &Board{
		total:   total,
		state:   StateNotStarted,
		entries: make([]BoardEntry, 0, total),
		drafted: make(map[string]struct{}, total),
	}
}

func (b *Board) Start() error {
	if b.state != StateNotStarted {
		return fmt.Errorf("draft already started (state %s)", b.state)
	}
	b.state = StateInProgress
	return nil
}

func (b *Board) State() BoardState {
	return b.state
}

// NextIndex is the absolute pick index of the next open slot.
func (b *Board) NextIndex() int {
	return len(b.entries)
}

func (b *Board) Len() int {
	return len(b.entries)
}

// Append commits an entry. The entry must fill exactly the next open
// slot and name a player not already on the board. The board flips to
// Complete on the final pick.
func (b *Board) Append(e BoardEntry) error {
	if b.state != StateInProgress {
		return fmt.Errorf("cannot commit pick in state %s", b.state)
	}
	if e.Slot.Overall != len(b.entries) {
		return fmt.Errorf("pick out of order: slot %d, expected %d", e.Slot.Overall, len(b.entries))
	}
	if _, dup := b.drafted[e.PlayerID]; dup {
		return fmt.Errorf("%w: %s", ErrAlreadyDrafted, e.PlayerID)
	}

	b.entries = append(b.entries, e)
	b.drafted[e.PlayerID] = struct{}{}
	if len(b.entries) == b.total {
		b.state = StateComplete
	}

	return nil
}

// RemoveLast pops the most recent entry. Arbitrary-position removal is
// deliberately unsupported; it would break the ordering invariant.
func (b *Board) RemoveLast() (BoardEntry, error) {
	if b.state != StateInProgress {
		return BoardEntry{}, fmt.Errorf("%w: board state %s", ErrIllegalUndo, b.state)
	}
	if len(b.entries) == 0 {
		return BoardEntry{}, fmt.Errorf("%w: board is empty", ErrIllegalUndo)
	}

	last := b.entries[len(b.entries)-1]
	b.entries = b.entries[:len(b.entries)-1]
	delete(b.drafted, last.PlayerID)

	return last, nil
}

// Drafted reports whether a player appears anywhere on the board.
func (b *Board) Drafted(playerID string) bool {
	_, ok := b.drafted[playerID]
	return ok
}

// Snapshot returns the committed entries in pick order. The copy is safe
// for external rendering or export.
func (b *Board) Snapshot() []BoardEntry {
	return append([]BoardEntry(nil), b.entries...)
}
