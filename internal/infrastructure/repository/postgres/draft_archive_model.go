package postgres

import "time"

type draftArchiveTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	TeamCount   int       `db:"team_count"`
	RoundCount  int       `db:"round_count"`
	UserSlot    int       `db:"user_slot"`
	Seed        int64     `db:"seed"`
	CompletedAt time.Time `db:"completed_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type draftArchivePickTableModel struct {
	ID         int64     `db:"id"`
	ArchiveID  string    `db:"archive_public_id"`
	Overall    int       `db:"overall_pick"`
	Round      int       `db:"round"`
	Team       int       `db:"team_slot"`
	PlayerID   string    `db:"player_id"`
	PlayerName string    `db:"player_name"`
	Position   string    `db:"position"`
	IsKeeper   bool      `db:"is_keeper"`
	SlotKind   string    `db:"slot_kind"`
	CreatedAt  time.Time `db:"created_at"`
}

type draftArchiveInsertModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	TeamCount   int       `db:"team_count"`
	RoundCount  int       `db:"round_count"`
	UserSlot    int       `db:"user_slot"`
	Seed        int64     `db:"seed"`
	CompletedAt time.Time `db:"completed_at"`
}

type draftArchivePickInsertModel struct {
	ArchiveID  string `db:"archive_public_id"`
	Overall    int    `db:"overall_pick"`
	Round      int    `db:"round"`
	Team       int    `db:"team_slot"`
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
	Position   string `db:"position"`
	IsKeeper   bool   `db:"is_keeper"`
	SlotKind   string `db:"slot_kind"`
}

type draftArchiveSummaryModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	TeamCount   int       `db:"team_count"`
	RoundCount  int       `db:"round_count"`
	PickCount   int       `db:"pick_count"`
	CompletedAt time.Time `db:"completed_at"`
	CreatedAt   time.Time `db:"created_at"`
}
