package httpapi

import (
	"net/http"
	"time"

	"github.com/draftday/draftsim/internal/domain/archive"
)

type archiveSummaryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TeamCount   int       `json:"team_count"`
	RoundCount  int       `json:"round_count"`
	PickCount   int       `json:"pick_count"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type archivePickDTO struct {
	Overall    int    `json:"overall"`
	Round      int    `json:"round"`
	Team       int    `json:"team"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Position   string `json:"position"`
	IsKeeper   bool   `json:"is_keeper"`
	SlotKind   string `json:"slot"`
}

type archiveDraftDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	TeamCount   int              `json:"team_count"`
	RoundCount  int              `json:"round_count"`
	UserSlot    int              `json:"user_slot"`
	Seed        int64            `json:"seed"`
	Picks       []archivePickDTO `json:"picks"`
	CompletedAt time.Time        `json:"completed_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

func archiveDraftToDTO(record archive.Draft) archiveDraftDTO {
	picks := make([]archivePickDTO, 0, len(record.Picks))
	for _, pick := range record.Picks {
		picks = append(picks, archivePickDTO{
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
	return archiveDraftDTO{
		ID:          record.ID,
		Name:        record.Name,
		TeamCount:   record.TeamCount,
		RoundCount:  record.RoundCount,
		UserSlot:    record.UserSlot,
		Seed:        record.Seed,
		Picks:       picks,
		CompletedAt: record.CompletedAt,
		CreatedAt:   record.CreatedAt,
	}
}

func (h *Handler) ListArchives(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListArchives")
	defer span.End()

	limit, err := intQueryParam(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	offset, err := intQueryParam(r, "offset", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summaries, err := h.archiveService.List(ctx, limit, offset)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]archiveSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, archiveSummaryDTO{
			ID:          summary.ID,
			Name:        summary.Name,
			TeamCount:   summary.TeamCount,
			RoundCount:  summary.RoundCount,
			PickCount:   summary.PickCount,
			CompletedAt: summary.CompletedAt,
			CreatedAt:   summary.CreatedAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetArchive")
	defer span.End()

	record, err := h.archiveService.Get(ctx, r.PathValue("archiveID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, archiveDraftToDTO(record))
}

func (h *Handler) DeleteArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteArchive")
	defer span.End()

	archiveID := r.PathValue("archiveID")
	if err := h.archiveService.Delete(ctx, archiveID); err != nil {
		h.logger.WarnContext(ctx, "delete archive failed", "archive_id", archiveID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": archiveID})
}
