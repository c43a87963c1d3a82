package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/draftday/draftsim/internal/usecase"
)

type runSimulationRequest struct {
	CatalogID  string `json:"catalog_id" validate:"required"`
	TeamCount  int    `json:"team_count" validate:"required,min=2,max=20"`
	UserSlot   int    `json:"user_slot" validate:"min=0"`
	RoundCount int    `json:"round_count" validate:"required,min=1,max=30"`
	Runs       int    `json:"runs" validate:"required,min=1"`
	MaxWorkers int    `json:"max_workers" validate:"min=0"`
	BaseSeed   int64  `json:"base_seed"`
}

func (h *Handler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSimulation")
	defer span.End()

	var req runSimulationRequest
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

	result, err := h.simulationService.Run(ctx, usecase.SimulationInput{
		CatalogID:  req.CatalogID,
		TeamCount:  req.TeamCount,
		UserSlot:   req.UserSlot,
		RoundCount: req.RoundCount,
		Runs:       req.Runs,
		MaxWorkers: req.MaxWorkers,
		BaseSeed:   req.BaseSeed,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "simulation failed", "catalog_id", req.CatalogID, "runs", req.Runs, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
