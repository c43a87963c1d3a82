package archive

import "time"

// Draft is a completed draft persisted for later review. Live drafts
// stay in memory; only finished boards are archived.
type Draft struct {
	ID          string
	Name        string
	TeamCount   int
	RoundCount  int
	UserSlot    int
	Seed        int64
	Picks       []Pick
	CompletedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pick is one committed board entry, denormalized so an archived draft
// renders without the player catalog that produced it.
type Pick struct {
	Overall    int
	Round      int
	Team       int
	PlayerID   string
	PlayerName string
	Position   string
	IsKeeper   bool
	SlotKind   string
}

// Summary is the listing projection of an archived draft.
type Summary struct {
	ID          string
	Name        string
	TeamCount   int
	RoundCount  int
	PickCount   int
	CompletedAt time.Time
	CreatedAt   time.Time
}
