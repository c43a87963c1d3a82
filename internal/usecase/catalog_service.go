package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/draftday/draftsim/internal/domain/player"
	"github.com/draftday/draftsim/internal/platform/cache"
	"github.com/draftday/draftsim/internal/platform/id"
	"github.com/draftday/draftsim/internal/platform/logging"
)

// rankingsClient is the slice of external/rankings this service needs.
type rankingsClient interface {
	FetchCSV(ctx context.Context, url string) ([]player.Player, error)
	ParseCSV(r io.Reader) ([]player.Player, error)
}

type CatalogInfo struct {
	ID        string
	Name      string
	Size      int
	Positions map[player.Position]int
	CreatedAt time.Time
}

// CatalogService loads ranked player pools and keeps them registered
// for draft sessions. Catalogs are immutable once registered; a fresh
// import gets a fresh ID.
type CatalogService struct {
	rankings rankingsClient
	store    *cache.Store
	idgen    id.Generator
	logger   *logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	catalogs map[string]*player.Catalog
	infos    map[string]CatalogInfo
}

func NewCatalogService(rankings rankingsClient, store *cache.Store, idgen id.Generator, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogService{
		rankings: rankings,
		store:    store,
		idgen:    idgen,
		logger:   logger,
		now:      time.Now,
		catalogs: make(map[string]*player.Catalog),
		infos:    make(map[string]CatalogInfo),
	}
}

// ImportCSV registers a catalog from an uploaded rankings sheet.
func (s *CatalogService) ImportCSV(ctx context.Context, name string, r io.Reader) (CatalogInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CatalogInfo{}, fmt.Errorf("%w: catalog name is required", ErrInvalidInput)
	}
	if s.rankings == nil {
		return CatalogInfo{}, fmt.Errorf("%w: rankings client is not configured", ErrDependencyUnavailable)
	}

	_, span := startUsecaseSpan(ctx, "usecase.CatalogService.ImportCSV")
	defer span.End()

	players, err := s.rankings.ParseCSV(r)
	if err != nil {
		return CatalogInfo{}, fmt.Errorf("%w: parse rankings sheet: %v", ErrInvalidInput, err)
	}

	return s.Register(name, players)
}

// ImportURL fetches a rankings sheet and registers it. The fetched rows
// are cached by URL so repeated imports of the same sheet skip the
// network round trip.
func (s *CatalogService) ImportURL(ctx context.Context, name, url string) (CatalogInfo, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return CatalogInfo{}, fmt.Errorf("%w: catalog name and url are required", ErrInvalidInput)
	}
	if s.rankings == nil {
		return CatalogInfo{}, fmt.Errorf("%w: rankings client is not configured", ErrDependencyUnavailable)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ImportURL")
	defer span.End()

	load := func(ctx context.Context) (any, error) {
		return s.rankings.FetchCSV(ctx, url)
	}

	var loaded any
	var err error
	if s.store != nil {
		loaded, err = s.store.GetOrLoad(ctx, "rankings:"+url, load)
	} else {
		loaded, err = load(ctx)
	}
	if err != nil {
		return CatalogInfo{}, fmt.Errorf("fetch rankings sheet: %w", err)
	}

	players, ok := loaded.([]player.Player)
	if !ok {
		return CatalogInfo{}, fmt.Errorf("unexpected cached rankings payload type %T", loaded)
	}

	return s.Register(name, players)
}

// Preload imports several named sheets concurrently, typically at boot.
func (s *CatalogService) Preload(ctx context.Context, sources map[string]string) []error {
	var wg conc.WaitGroup
	var mu sync.Mutex
	var errs []error

	for name, url := range sources {
		name, url := name, url
		wg.Go(func() {
			if _, err := s.ImportURL(ctx, name, url); err != nil {
				s.logger.Warn("catalog preload failed", "catalog", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("preload %s: %w", name, err))
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	return errs
}

// Register adds an already parsed player pool under a new catalog ID.
func (s *CatalogService) Register(name string, players []player.Player) (CatalogInfo, error) {
	catalog, err := player.NewCatalog(players)
	if err != nil {
		return CatalogInfo{}, fmt.Errorf("%w: build catalog: %v", ErrInvalidInput, err)
	}

	catalogID, err := id.NewPrefixedID(s.idgen, "catalog")
	if err != nil {
		return CatalogInfo{}, fmt.Errorf("generate catalog id: %w", err)
	}

	positions := make(map[player.Position]int, len(player.AllPositions))
	for _, p := range catalog.Players() {
		positions[p.Position]++
	}

	info := CatalogInfo{
		ID:        catalogID,
		Name:      strings.TrimSpace(name),
		Size:      catalog.Size(),
		Positions: positions,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.catalogs[catalogID] = catalog
	s.infos[catalogID] = info
	s.mu.Unlock()

	s.logger.Info("catalog registered", "catalog_id", catalogID, "name", info.Name, "players", info.Size)

	return info, nil
}

func (s *CatalogService) Get(catalogID string) (*player.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	catalog, ok := s.catalogs[catalogID]
	if !ok {
		return nil, fmt.Errorf("%w: catalog %s", ErrNotFound, catalogID)
	}
	return catalog, nil
}

func (s *CatalogService) Describe(catalogID string) (CatalogInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.infos[catalogID]
	if !ok {
		return CatalogInfo{}, fmt.Errorf("%w: catalog %s", ErrNotFound, catalogID)
	}
	return info, nil
}

func (s *CatalogService) List() []CatalogInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CatalogInfo, 0, len(s.infos))
	for _, info := range s.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// Players returns a rank-ordered page of a catalog, optionally filtered
// by position.
func (s *CatalogService) Players(catalogID string, position string, limit int) ([]player.Player, error) {
	catalog, err := s.Get(catalogID)
	if err != nil {
		return nil, err
	}

	var pool []player.Player
	if strings.TrimSpace(position) == "" {
		pool = catalog.Players()
	} else {
		pos := player.Position(strings.ToUpper(strings.TrimSpace(position)))
		if _, ok := player.AllPositions[pos]; !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, position)
		}
		pool = catalog.ByPosition(pos)
	}

	if limit > 0 && limit < len(pool) {
		pool = pool[:limit]
	}

	return pool, nil
}
