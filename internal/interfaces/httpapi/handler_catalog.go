package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/draftday/draftsim/internal/domain/player"
	"github.com/draftday/draftsim/internal/usecase"
)

type importCatalogRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	URL  string `json:"url" validate:"required,url"`
}

type catalogDTO struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Size      int            `json:"size"`
	Positions map[string]int `json:"positions"`
	CreatedAt time.Time      `json:"created_at"`
}

type playerDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	Position string  `json:"position"`
	Rank     int     `json:"rank"`
	Tier     int     `json:"tier"`
	ByeWeek  int     `json:"bye_week,omitempty"`
	ADP      float64 `json:"adp,omitempty"`
	SOS      int     `json:"sos,omitempty"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Team:     p.Team,
		Position: string(p.Position),
		Rank:     p.Rank,
		Tier:     p.Tier,
		ByeWeek:  p.ByeWeek,
		ADP:      p.ADP,
		SOS:      p.SOS,
	}
}

func playersToDTO(players []player.Player) []playerDTO {
	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}
	return items
}

func catalogToDTO(info usecase.CatalogInfo) catalogDTO {
	positions := make(map[string]int, len(info.Positions))
	for pos, n := range info.Positions {
		positions[string(pos)] = n
	}
	return catalogDTO{
		ID:        info.ID,
		Name:      info.Name,
		Size:      info.Size,
		Positions: positions,
		CreatedAt: info.CreatedAt,
	}
}

func (h *Handler) ImportCatalogFromURL(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportCatalogFromURL")
	defer span.End()

	var req importCatalogRequest
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

	info, err := h.catalogService.ImportURL(ctx, req.Name, req.URL)
	if err != nil {
		h.logger.WarnContext(ctx, "import catalog failed", "name", req.Name, "url", req.URL, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, catalogToDTO(info))
}

func (h *Handler) UploadCatalogCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadCatalogCSV")
	defer span.End()

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(ctx, w, fmt.Errorf("%w: query parameter name is required", usecase.ErrInvalidInput))
		return
	}

	info, err := h.catalogService.ImportCSV(ctx, name, r.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "upload catalog failed", "name", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, catalogToDTO(info))
}

func (h *Handler) ListCatalogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCatalogs")
	defer span.End()

	infos := h.catalogService.List()
	items := make([]catalogDTO, 0, len(infos))
	for _, info := range infos {
		items = append(items, catalogToDTO(info))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCatalog")
	defer span.End()

	catalogID := r.PathValue("catalogID")
	info, err := h.catalogService.Describe(catalogID)
	if err != nil {
		h.logger.WarnContext(ctx, "get catalog failed", "catalog_id", catalogID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogToDTO(info))
}

func (h *Handler) ListCatalogPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCatalogPlayers")
	defer span.End()

	catalogID := r.PathValue("catalogID")
	limit, err := intQueryParam(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.catalogService.Players(catalogID, r.URL.Query().Get("position"), limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list catalog players failed", "catalog_id", catalogID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}
