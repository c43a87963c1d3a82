package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/draftday/draftsim/internal/domain/draft"
	"github.com/draftday/draftsim/internal/usecase"
)

type createDraftRequest struct {
	Name           string              `json:"name" validate:"required,max=100"`
	CatalogID      string              `json:"catalog_id" validate:"required"`
	TeamCount      int                 `json:"team_count" validate:"required,min=2,max=20"`
	UserSlot       int                 `json:"user_slot" validate:"min=0"`
	RoundCount     int                 `json:"round_count" validate:"required,min=1,max=30"`
	KeepersEnabled bool                `json:"keepers_enabled"`
	Seed           *int64              `json:"seed"`
	Roster         *draftRosterRequest `json:"roster"`
}

type draftRosterRequest struct {
	Dedicated map[string]int `json:"dedicated" validate:"required"`
	Flex      int            `json:"flex" validate:"min=0"`
	Bench     int            `json:"bench" validate:"min=0"`
}

type reserveKeeperRequest struct {
	Team     int    `json:"team" validate:"min=0"`
	PlayerID string `json:"player_id" validate:"required"`
	Round    int    `json:"round" validate:"min=0"`
}

type manualPickRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type advanceRequest struct {
	MaxPicks int `json:"max_picks" validate:"min=0"`
}

type keeperDTO struct {
	Team     int    `json:"team"`
	PlayerID string `json:"player_id"`
	Round    int    `json:"round"`
}

type positionGradeDTO struct {
	Position string  `json:"position"`
	Picks    int     `json:"picks"`
	AvgValue float64 `json:"avg_value"`
	Grade    string  `json:"grade"`
}

type teamGradeDTO struct {
	Team      int                `json:"team"`
	Picks     int                `json:"picks"`
	Keepers   int                `json:"keepers"`
	AvgValue  float64            `json:"avg_value"`
	Overall   string             `json:"overall"`
	Positions []positionGradeDTO `json:"positions"`
}

func teamGradeToDTO(grade draft.TeamGrade) teamGradeDTO {
	positions := make([]positionGradeDTO, 0, len(grade.Positions))
	for _, pos := range grade.Positions {
		positions = append(positions, positionGradeDTO{
			Position: string(pos.Position),
			Picks:    pos.Picks,
			AvgValue: pos.AvgValue,
			Grade:    string(pos.Grade),
		})
	}
	return teamGradeDTO{
		Team:      grade.Team,
		Picks:     grade.Picks,
		Keepers:   grade.Keepers,
		AvgValue:  grade.AvgValue,
		Overall:   string(grade.Overall),
		Positions: positions,
	}
}

func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateDraft")
	defer span.End()

	var req createDraftRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.CreateDraftInput{
		Name:           req.Name,
		CatalogID:      req.CatalogID,
		TeamCount:      req.TeamCount,
		UserSlot:       req.UserSlot,
		RoundCount:     req.RoundCount,
		KeepersEnabled: req.KeepersEnabled,
		Seed:           req.Seed,
	}
	if req.Roster != nil {
		input.Roster = &usecase.RosterInput{
			Dedicated: req.Roster.Dedicated,
			Flex:      req.Roster.Flex,
			Bench:     req.Roster.Bench,
		}
	}

	view, err := h.draftService.Create(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create draft failed", "catalog_id", req.CatalogID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, view)
}

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDrafts")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.draftService.List(ctx))
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraft")
	defer span.End()

	view, err := h.draftService.Get(ctx, r.PathValue("draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteDraft")
	defer span.End()

	draftID := r.PathValue("draftID")
	if err := h.draftService.Delete(ctx, draftID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": draftID})
}

func (h *Handler) ReserveKeeper(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReserveKeeper")
	defer span.End()

	draftID := r.PathValue("draftID")

	var req reserveKeeperRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	err := h.draftService.ReserveKeeper(ctx, usecase.KeeperInput{
		DraftID:  draftID,
		Team:     req.Team,
		PlayerID: req.PlayerID,
		Round:    req.Round,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reserve keeper failed", "draft_id", draftID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, keeperDTO(req))
}

func (h *Handler) ListKeepers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListKeepers")
	defer span.End()

	keepers, err := h.draftService.ListKeepers(ctx, r.PathValue("draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]keeperDTO, 0, len(keepers))
	for _, keeper := range keepers {
		items = append(items, keeperDTO{
			Team:     keeper.Team,
			PlayerID: keeper.PlayerID,
			Round:    keeper.Round,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RemoveKeeper(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveKeeper")
	defer span.End()

	draftID := r.PathValue("draftID")
	playerID := r.PathValue("playerID")
	if err := h.draftService.RemoveKeeper(ctx, draftID, playerID); err != nil {
		h.logger.WarnContext(ctx, "remove keeper failed", "draft_id", draftID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"removed": playerID})
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	view, err := h.draftService.Start(ctx, r.PathValue("draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) ManualPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ManualPick")
	defer span.End()

	draftID := r.PathValue("draftID")

	var req manualPickRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	pick, err := h.draftService.ManualPick(ctx, draftID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "manual pick failed", "draft_id", draftID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pick)
}

func (h *Handler) Autopick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Autopick")
	defer span.End()

	draftID := r.PathValue("draftID")
	pick, err := h.draftService.Autopick(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "autopick failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pick)
}

func (h *Handler) AdvanceToUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceToUser")
	defer span.End()

	draftID := r.PathValue("draftID")

	req := advanceRequest{}
	if r.ContentLength > 0 {
		decoder := sonic.ConfigDefault.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}

	picks, err := h.draftService.AdvanceToUser(ctx, draftID, req.MaxPicks)
	if err != nil {
		h.logger.WarnContext(ctx, "advance draft failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picks)
}

func (h *Handler) UndoPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoPick")
	defer span.End()

	draftID := r.PathValue("draftID")
	pick, err := h.draftService.Undo(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "undo pick failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pick)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoard")
	defer span.End()

	board, err := h.draftService.Board(ctx, r.PathValue("draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, board)
}

func (h *Handler) ListRemainingPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRemainingPlayers")
	defer span.End()

	limit, err := intQueryParam(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.draftService.Remaining(ctx, r.PathValue("draftID"), r.URL.Query().Get("position"), limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) GetTeamNeeds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamNeeds")
	defer span.End()

	team, err := intPathValue(r, "team")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	needs, err := h.draftService.Needs(ctx, r.PathValue("draftID"), team)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, needs)
}

func (h *Handler) GetGrades(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGrades")
	defer span.End()

	grades, err := h.draftService.Grades(ctx, r.PathValue("draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]teamGradeDTO, 0, len(grades))
	for _, grade := range grades {
		items = append(items, teamGradeToDTO(grade))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ExportDraftCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportDraftCSV")
	defer span.End()

	draftID := r.PathValue("draftID")
	out, err := h.exportService.ExportCSV(ctx, draftID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", draftID+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *Handler) ExportDraftJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportDraftJSON")
	defer span.End()

	out, err := h.exportService.ExportJSON(ctx, r.PathValue("draftID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
