package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/draftday/draftsim/internal/platform/logging"
	"github.com/draftday/draftsim/internal/usecase"
)

type Handler struct {
	catalogService    *usecase.CatalogService
	draftService      *usecase.DraftService
	simulationService *usecase.SimulationService
	exportService     *usecase.ExportService
	archiveService    *usecase.ArchiveService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	draftService *usecase.DraftService,
	simulationService *usecase.SimulationService,
	exportService *usecase.ExportService,
	archiveService *usecase.ArchiveService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:    catalogService,
		draftService:      draftService,
		simulationService: simulationService,
		exportService:     exportService,
		archiveService:    archiveService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// intQueryParam reads an optional integer query parameter, falling back
// to def when absent.
func intQueryParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func intPathValue(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: path segment %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
