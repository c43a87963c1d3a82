package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/draftday/draftsim/internal/domain/draft"
	"github.com/draftday/draftsim/internal/domain/league"
	"github.com/draftday/draftsim/internal/domain/player"
	"github.com/draftday/draftsim/internal/platform/logging"
)

type SimulationInput struct {
	CatalogID  string
	TeamCount  int
	UserSlot   int
	RoundCount int
	Runs       int
	MaxWorkers int
	// BaseSeed makes the whole batch reproducible; run i drafts with
	// BaseSeed+i. Zero picks a time-based base.
	BaseSeed int64
}

type SimulationRunResult struct {
	Run          int         `json:"run"`
	Seed         int64       `json:"seed"`
	UserGrade    draft.Grade `json:"user_grade"`
	UserAvgValue float64     `json:"user_avg_value"`
	FirstPick    string      `json:"first_pick"`
	FirstPickPos string      `json:"first_pick_pos"`
	DurationMs   int64       `json:"duration_ms"`
	Error        string      `json:"error,omitempty"`
}

type SimulationResult struct {
	Runs               int                   `json:"runs"`
	FailedRuns         int                   `json:"failed_runs"`
	WorkerCount        int                   `json:"worker_count"`
	BaseSeed           int64                 `json:"base_seed"`
	UserSlot           int                   `json:"user_slot"`
	AvgUserValue       float64               `json:"avg_user_value"`
	GradeCounts        map[draft.Grade]int   `json:"grade_counts"`
	FirstPickPositions map[string]int        `json:"first_pick_positions"`
	Results            []SimulationRunResult `json:"results"`
}

// SimulationService drafts whole leagues repeatedly to show how the
// autopick model treats the user's slot across many seeds.
type SimulationService struct {
	catalogs   *CatalogService
	logger     *logging.Logger
	maxRuns    int
	maxWorkers int
	now        func() time.Time
}

func NewSimulationService(catalogs *CatalogService, logger *logging.Logger, maxRuns, maxWorkers int) *SimulationService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxRuns < 1 {
		maxRuns = 100
	}
	if maxWorkers < 1 {
		maxWorkers = 4
	}
	return &SimulationService{
		catalogs:   catalogs,
		logger:     logger,
		maxRuns:    maxRuns,
		maxWorkers: maxWorkers,
		now:        time.Now,
	}
}

func (s *SimulationService) Run(ctx context.Context, input SimulationInput) (SimulationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SimulationService.Run")
	defer span.End()

	if input.Runs < 1 {
		return SimulationResult{}, fmt.Errorf("%w: runs must be >= 1", ErrInvalidInput)
	}
	if input.Runs > s.maxRuns {
		return SimulationResult{}, fmt.Errorf("%w: runs %d exceeds limit %d", ErrInvalidInput, input.Runs, s.maxRuns)
	}

	catalog, err := s.catalogs.Get(input.CatalogID)
	if err != nil {
		return SimulationResult{}, err
	}

	roster, err := buildRoster(CreateDraftInput{RoundCount: input.RoundCount})
	if err != nil {
		return SimulationResult{}, err
	}
	cfg := league.Config{
		TeamCount:  input.TeamCount,
		UserSlot:   input.UserSlot,
		RoundCount: input.RoundCount,
		Roster:     roster,
	}
	if err := cfg.Validate(); err != nil {
		return SimulationResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	baseSeed := input.BaseSeed
	if baseSeed == 0 {
		baseSeed = s.now().UnixNano()
	}

	workerCount := input.MaxWorkers
	if workerCount < 1 || workerCount > s.maxWorkers {
		workerCount = s.maxWorkers
	}
	if workerCount > input.Runs {
		workerCount = input.Runs
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SimulationResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan SimulationRunResult, input.Runs)

	var workers sync.WaitGroup
	for run := 0; run < input.Runs; run++ {
		run := run
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.simulateOne(catalog, cfg, run, baseSeed+int64(run))
		}); err != nil {
			workers.Done()
			return SimulationResult{}, fmt.Errorf("submit run to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	result := SimulationResult{
		Runs:               input.Runs,
		WorkerCount:        workerCount,
		BaseSeed:           baseSeed,
		UserSlot:           input.UserSlot,
		GradeCounts:        make(map[draft.Grade]int),
		FirstPickPositions: make(map[string]int),
		Results:            make([]SimulationRunResult, 0, input.Runs),
	}

	valueSum := 0.0
	graded := 0
	for row := range results {
		result.Results = append(result.Results, row)
		if row.Error != "" {
			result.FailedRuns++
			continue
		}
		result.GradeCounts[row.UserGrade]++
		result.FirstPickPositions[row.FirstPickPos]++
		valueSum += row.UserAvgValue
		graded++
	}
	if graded > 0 {
		result.AvgUserValue = valueSum / float64(graded)
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Run < result.Results[j].Run
	})

	s.logger.Info("simulation batch finished",
		"runs", result.Runs,
		"failed", result.FailedRuns,
		"workers", result.WorkerCount,
		"avg_user_value", result.AvgUserValue)

	return result, nil
}

// simulateOne plays a full autopick draft on its own instance, so runs
// never share mutable state.
func (s *SimulationService) simulateOne(catalog *player.Catalog, cfg league.Config, run int, seed int64) SimulationRunResult {
	row := SimulationRunResult{Run: run, Seed: seed}
	start := time.Now()
	defer func() {
		row.DurationMs = time.Since(start).Milliseconds()
	}()

	instance, err := draft.NewInstance(catalog, cfg, draft.WithSeed(seed))
	if err != nil {
		row.Error = err.Error()
		return row
	}

	for {
		_, err := instance.CommitAutopick()
		if errors.Is(err, draft.ErrDraftComplete) {
			break
		}
		if err != nil {
			row.Error = err.Error()
			return row
		}
	}

	entries := instance.Snapshot()
	for _, entry := range entries {
		if entry.Slot.Team != cfg.UserSlot {
			continue
		}
		if p, ok := catalog.Get(entry.PlayerID); ok {
			row.FirstPick = p.Name
			row.FirstPickPos = string(p.Position)
		}
		break
	}

	grade := draft.GradeTeam(cfg.UserSlot, entries, catalog)
	row.UserGrade = grade.Overall
	row.UserAvgValue = grade.AvgValue

	return row
}
