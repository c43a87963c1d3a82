package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/draftday/draftsim/external/rankings"
	"github.com/draftday/draftsim/internal/config"
	"github.com/draftday/draftsim/internal/domain/archive"
	cacherepo "github.com/draftday/draftsim/internal/infrastructure/repository/cache"
	"github.com/draftday/draftsim/internal/infrastructure/repository/memory"
	"github.com/draftday/draftsim/internal/infrastructure/repository/postgres"
	"github.com/draftday/draftsim/internal/interfaces/httpapi"
	"github.com/draftday/draftsim/internal/platform/cache"
	idgen "github.com/draftday/draftsim/internal/platform/id"
	"github.com/draftday/draftsim/internal/platform/logging"
	"github.com/draftday/draftsim/internal/platform/resilience"
	"github.com/draftday/draftsim/internal/usecase"
)

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	rankingsClient := rankings.NewClient(rankings.ClientConfig{
		Timeout:  cfg.RankingsTimeout,
		TierSize: cfg.RankingsTierSize,
		Logger:   logger,
		Breaker:  resilience.DefaultCircuitBreakerConfig(),
	})

	generator := idgen.NewRandomGenerator()

	catalogSvc := usecase.NewCatalogService(rankingsClient, store, generator, logger)
	if cfg.RankingsURL != "" {
		for _, err := range catalogSvc.Preload(ctx, map[string]string{"default": cfg.RankingsURL}) {
			logger.Warn("preload rankings catalog", "error", err)
		}
	}

	var archiveRepo archive.Repository
	if cfg.ArchiveEnabled {
		db, err := openArchiveDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open archive db: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping archive db: %w", err)
		}
		archiveRepo = postgres.NewDraftArchiveRepository(db)
		if store != nil {
			archiveRepo = cacherepo.NewArchiveRepository(archiveRepo, store)
		}
	} else {
		archiveRepo = memory.NewDraftArchiveRepository()
	}

	draftSvc := usecase.NewDraftService(catalogSvc, archiveRepo, generator, logger)
	if cfg.DraftSeed != 0 {
		draftSvc.SetDefaultSeed(cfg.DraftSeed)
	}

	simulationSvc := usecase.NewSimulationService(catalogSvc, logger, cfg.SimulationMaxRuns, cfg.SimulationWorkers)
	exportSvc := usecase.NewExportService(draftSvc, logger)
	archiveSvc := usecase.NewArchiveService(archiveRepo, logger)

	handler := httpapi.NewHandler(catalogSvc, draftSvc, simulationSvc, exportSvc, archiveSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CaptureRequestBody: cfg.UptraceEnabled && cfg.UptraceCaptureRequestBody,
		RequestBodyMax:     cfg.UptraceRequestBodyMaxBytes,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func openArchiveDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	return db, nil
}
