package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/draftday/draftsim/internal/domain/archive"
	qb "github.com/draftday/draftsim/internal/platform/querybuilder"
)

type DraftArchiveRepository struct {
	db *sqlx.DB
}

func NewDraftArchiveRepository(db *sqlx.DB) *DraftArchiveRepository {
	return &DraftArchiveRepository{db: db}
}

func (r *DraftArchiveRepository) Save(ctx context.Context, draft archive.Draft) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save draft archive: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := draftArchiveInsertModel{
		PublicID:    draft.ID,
		Name:        draft.Name,
		TeamCount:   draft.TeamCount,
		RoundCount:  draft.RoundCount,
		UserSlot:    draft.UserSlot,
		Seed:        draft.Seed,
		CompletedAt: draft.CompletedAt,
	}
	query, args, err := qb.InsertModel("draft_archives", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert draft archive query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save draft archive: %w", err)
	}

	for _, pick := range draft.Picks {
		pickModel := draftArchivePickInsertModel{
			ArchiveID:  draft.ID,
			Overall:    pick.Overall,
			Round:      pick.Round,
			Team:       pick.Team,
			PlayerID:   pick.PlayerID,
			PlayerName: pick.PlayerName,
			Position:   pick.Position,
			IsKeeper:   pick.IsKeeper,
			SlotKind:   pick.SlotKind,
		}
		pickQuery, pickArgs, err := qb.InsertModel("draft_archive_picks", pickModel, "")
		if err != nil {
			return fmt.Errorf("build insert draft archive pick query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, pickQuery, pickArgs...); err != nil {
			return fmt.Errorf("save draft archive pick %d: %w", pick.Overall, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save draft archive: %w", err)
	}

	return nil
}

func (r *DraftArchiveRepository) GetByID(ctx context.Context, id string) (archive.Draft, bool, error) {
	query, args, err := qb.Select("*").From("draft_archives").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return archive.Draft{}, false, fmt.Errorf("build get draft archive query: %w", err)
	}

	var row draftArchiveTableModel
	err = r.db.GetContext(ctx, &row, query, args...)
	if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
		row, err = r.getRowLiteral(ctx, id)
	}
	if isNotFound(err) {
		return archive.Draft{}, false, nil
	}
	if err != nil {
		return archive.Draft{}, false, fmt.Errorf("get draft archive: %w", err)
	}

	pickQuery, pickArgs, err := qb.Select("*").From("draft_archive_picks").
		Where(qb.Eq("archive_public_id", id)).
		OrderBy("overall_pick ASC").
		ToSQL()
	if err != nil {
		return archive.Draft{}, false, fmt.Errorf("build get draft archive picks query: %w", err)
	}

	var pickRows []draftArchivePickTableModel
	if err := r.db.SelectContext(ctx, &pickRows, pickQuery, pickArgs...); err != nil {
		return archive.Draft{}, false, fmt.Errorf("get draft archive picks: %w", err)
	}

	draft := archive.Draft{
		ID:          row.PublicID,
		Name:        row.Name,
		TeamCount:   row.TeamCount,
		RoundCount:  row.RoundCount,
		UserSlot:    row.UserSlot,
		Seed:        row.Seed,
		CompletedAt: row.CompletedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Picks:       make([]archive.Pick, 0, len(pickRows)),
	}
	for _, pick := range pickRows {
		draft.Picks = append(draft.Picks, archive.Pick{
			Overall:    pick.Overall,
			Round:      pick.Round,
			Team:       pick.Team,
			PlayerID:   pick.PlayerID,
			PlayerName: pick.PlayerName,
			Position:   pick.Position,
			IsKeeper:   pick.IsKeeper,
			SlotKind:   pick.SlotKind,
		})
	}

	return draft, true, nil
}

// getRowLiteral retries the lookup with the id inlined, for pgbouncer
// pools that drop unnamed prepared statements between exec and bind.
func (r *DraftArchiveRepository) getRowLiteral(ctx context.Context, id string) (draftArchiveTableModel, error) {
	query, _, err := qb.Select("*").From("draft_archives").
		Where(qb.EqLiteral("public_id", id)).
		ToSQL()
	if err != nil {
		return draftArchiveTableModel{}, fmt.Errorf("build get draft archive literal query: %w", err)
	}

	var row draftArchiveTableModel
	err = r.db.GetContext(ctx, &row, query)
	return row, err
}

func (r *DraftArchiveRepository) List(ctx context.Context, limit, offset int) ([]archive.Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query, args, err := qb.Select(
		"a.public_id", "a.name", "a.team_count", "a.round_count",
		"a.completed_at", "a.created_at", "COUNT(p.id) AS pick_count",
	).
		From("draft_archives a LEFT JOIN draft_archive_picks p ON p.archive_public_id = a.public_id").
		GroupBy("a.public_id", "a.name", "a.team_count", "a.round_count", "a.completed_at", "a.created_at").
		OrderBy("a.completed_at DESC").
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list draft archives query: %w", err)
	}

	var rows []draftArchiveSummaryModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list draft archives: %w", err)
	}

	out := make([]archive.Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, archive.Summary{
			ID:          row.PublicID,
			Name:        row.Name,
			TeamCount:   row.TeamCount,
			RoundCount:  row.RoundCount,
			PickCount:   row.PickCount,
			CompletedAt: row.CompletedAt,
			CreatedAt:   row.CreatedAt,
		})
	}

	return out, nil
}

func (r *DraftArchiveRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx delete draft archive: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_archive_picks WHERE archive_public_id = $1`, id); err != nil {
		return fmt.Errorf("delete draft archive picks: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM draft_archives WHERE public_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft archive: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected delete draft archive: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete draft archive: not found")
	}

	return tx.Commit()
}
