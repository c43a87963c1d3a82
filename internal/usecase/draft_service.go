package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/draftday/draftsim/internal/domain/archive"
	"github.com/draftday/draftsim/internal/domain/draft"
	"github.com/draftday/draftsim/internal/domain/league"
	"github.com/draftday/draftsim/internal/domain/player"
	"github.com/draftday/draftsim/internal/platform/id"
	"github.com/draftday/draftsim/internal/platform/logging"
)

type CreateDraftInput struct {
	Name           string
	CatalogID      string
	TeamCount      int
	UserSlot       int
	RoundCount     int
	KeepersEnabled bool
	// Seed fixes autopick randomness; nil selects a time-based seed.
	Seed *int64
	// Roster overrides the default lineup shape. Nil stretches the
	// default bench so the roster fills the requested round count.
	Roster *RosterInput
}

type RosterInput struct {
	Dedicated map[string]int
	Flex      int
	Bench     int
}

type KeeperInput struct {
	DraftID  string
	Team     int
	PlayerID string
	Round    int
}

type DraftView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CatalogID      string    `json:"catalog_id"`
	State          string    `json:"state"`
	TeamCount      int       `json:"team_count"`
	UserSlot       int       `json:"user_slot"`
	RoundCount     int       `json:"round_count"`
	TotalPicks     int       `json:"total_picks"`
	PicksMade      int       `json:"picks_made"`
	KeepersEnabled bool      `json:"keepers_enabled"`
	CreatedAt      time.Time `json:"created_at"`
}

type PickView struct {
	Overall    int       `json:"overall"`
	Round      int       `json:"round"`
	Team       int       `json:"team"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Position   string    `json:"position"`
	IsKeeper   bool      `json:"is_keeper"`
	SlotKind   string    `json:"slot"`
	PickedAt   time.Time `json:"picked_at"`
}

type BoardView struct {
	Draft DraftView  `json:"draft"`
	Picks []PickView `json:"picks"`
	// NextTeam / NextRound describe the slot on the clock; both are -1
	// once the draft is complete.
	NextTeam  int `json:"next_team"`
	NextRound int `json:"next_round"`
}

type NeedsView struct {
	Team  int               `json:"team"`
	Needs []player.Position `json:"needs"`
}

type draftSession struct {
	mu        sync.Mutex
	id        string
	name      string
	catalogID string
	seed      int64
	instance  *draft.Instance
	createdAt time.Time
	archived  bool
}

// DraftService owns live draft sessions. A session's pick, undo and
// keeper operations are serialized under the session mutex; the domain
// aggregate underneath is single-threaded by contract.
type DraftService struct {
	catalogs    *CatalogService
	archiveRepo archive.Repository
	idgen       id.Generator
	logger      *logging.Logger
	defaultSeed func() int64
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*draftSession
}

func NewDraftService(catalogs *CatalogService, archiveRepo archive.Repository, idgen id.Generator, logger *logging.Logger) *DraftService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DraftService{
		catalogs:    catalogs,
		archiveRepo: archiveRepo,
		idgen:       idgen,
		logger:      logger,
		defaultSeed: func() int64 { return time.Now().UnixNano() },
		now:         time.Now,
		sessions:    make(map[string]*draftSession),
	}
}

// SetDefaultSeed pins the seed used when drafts are created without an
// explicit one. Zero keeps time-based seeding.
func (s *DraftService) SetDefaultSeed(seed int64) {
	if seed != 0 {
		s.defaultSeed = func() int64 { return seed }
	}
}

func (s *DraftService) Create(ctx context.Context, input CreateDraftInput) (DraftView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.CatalogID = strings.TrimSpace(input.CatalogID)
	if input.Name == "" {
		return DraftView{}, fmt.Errorf("%w: draft name is required", ErrInvalidInput)
	}
	if input.CatalogID == "" {
		return DraftView{}, fmt.Errorf("%w: catalog_id is required", ErrInvalidInput)
	}

	catalog, err := s.catalogs.Get(input.CatalogID)
	if err != nil {
		return DraftView{}, err
	}

	roster, err := buildRoster(input)
	if err != nil {
		return DraftView{}, err
	}

	cfg := league.Config{
		TeamCount:      input.TeamCount,
		UserSlot:       input.UserSlot,
		RoundCount:     input.RoundCount,
		Roster:         roster,
		KeepersEnabled: input.KeepersEnabled,
	}

	seed := s.defaultSeed()
	if input.Seed != nil {
		seed = *input.Seed
	}

	instance, err := draft.NewInstance(catalog, cfg, draft.WithSeed(seed))
	if err != nil {
		return DraftView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	draftID, err := id.NewPrefixedID(s.idgen, "draft")
	if err != nil {
		return DraftView{}, fmt.Errorf("generate draft id: %w", err)
	}

	session := &draftSession{
		id:        draftID,
		name:      input.Name,
		catalogID: input.CatalogID,
		seed:      seed,
		instance:  instance,
		createdAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[draftID] = session
	s.mu.Unlock()

	s.logger.Info("draft created",
		"draft_id", draftID,
		"catalog_id", input.CatalogID,
		"teams", cfg.TeamCount,
		"rounds", cfg.RoundCount)

	return s.viewLocked(session), nil
}

// buildRoster resolves the lineup shape for a new draft. Without an
// explicit roster the default lineup is used and its bench stretched or
// squeezed so one slot exists per round.
func buildRoster(input CreateDraftInput) (league.RosterRules, error) {
	if input.Roster == nil {
		roster := league.DefaultRosterRules()
		fixed := roster.TotalSlots() - roster.Bench
		if input.RoundCount < fixed {
			return league.RosterRules{}, fmt.Errorf("%w: round count %d cannot fit the default lineup (%d starters)", ErrInvalidInput, input.RoundCount, fixed)
		}
		roster.Bench = input.RoundCount - fixed
		return roster, nil
	}

	dedicated := make(map[player.Position]int, len(input.Roster.Dedicated))
	for raw, n := range input.Roster.Dedicated {
		pos := player.Position(strings.ToUpper(strings.TrimSpace(raw)))
		if _, ok := player.AllPositions[pos]; !ok {
			return league.RosterRules{}, fmt.Errorf("%w: unknown roster position %q", ErrInvalidInput, raw)
		}
		dedicated[pos] = n
	}

	return league.RosterRules{
		Dedicated: dedicated,
		Flex:      input.Roster.Flex,
		Bench:     input.Roster.Bench,
	}, nil
}

func (s *DraftService) session(draftID string) (*draftSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[strings.TrimSpace(draftID)]
	if !ok {
		return nil, fmt.Errorf("%w: draft %s", ErrNotFound, draftID)
	}
	return session, nil
}

func (s *DraftService) Get(ctx context.Context, draftID string) (DraftView, error) {
	session, err := s.session(draftID)
	if err != nil {
		return DraftView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	return s.viewLocked(session), nil
}

func (s *DraftService) List(ctx context.Context) []DraftView {
	s.mu.RLock()
	sessions := make([]*draftSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	out := make([]DraftView, 0, len(sessions))
	for _, session := range sessions {
		session.mu.Lock()
		out = append(out, s.viewLocked(session))
		session.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

func (s *DraftService) Delete(ctx context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[draftID]; !ok {
		return fmt.Errorf("%w: draft %s", ErrNotFound, draftID)
	}
	delete(s.sessions, draftID)

	return nil
}

func (s *DraftService) ReserveKeeper(ctx context.Context, input KeeperInput) error {
	session, err := s.session(input.DraftID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.instance.ReserveKeeper(input.Team, strings.TrimSpace(input.PlayerID), input.Round); err != nil {
		return fmt.Errorf("reserve keeper: %w", err)
	}

	return nil
}

func (s *DraftService) RemoveKeeper(ctx context.Context, draftID, playerID string) error {
	session, err := s.session(draftID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.instance.RemoveKeeper(strings.TrimSpace(playerID)); err != nil {
		return fmt.Errorf("remove keeper: %w", err)
	}

	return nil
}

func (s *DraftService) ListKeepers(ctx context.Context, draftID string) ([]draft.KeeperReservation, error) {
	session, err := s.session(draftID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	return session.instance.Keepers(), nil
}

func (s *DraftService) Start(ctx context.Context, draftID string) (DraftView, error) {
	session, err := s.session(draftID)
	if err != nil {
		return DraftView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.instance.Start(); err != nil {
		return DraftView{}, fmt.Errorf("start draft: %w", err)
	}
	s.logger.Info("draft started", "draft_id", session.id)

	return s.viewLocked(session), nil
}

func (s *DraftService) ManualPick(ctx context.Context, draftID, playerID string) (PickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ManualPick")
	defer span.End()

	session, err := s.session(draftID)
	if err != nil {
		return PickView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	entry, err := session.instance.CommitManualPick(strings.TrimSpace(playerID))
	if err != nil {
		return PickView{}, fmt.Errorf("manual pick: %w", err)
	}
	s.afterCommitLocked(ctx, session)

	return s.pickViewLocked(session, entry), nil
}

func (s *DraftService) Autopick(ctx context.Context, draftID string) (PickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Autopick")
	defer span.End()

	session, err := s.session(draftID)
	if err != nil {
		return PickView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	entry, err := session.instance.CommitAutopick()
	if err != nil {
		return PickView{}, fmt.Errorf("autopick: %w", err)
	}
	s.afterCommitLocked(ctx, session)

	return s.pickViewLocked(session, entry), nil
}

// AdvanceToUser autopicks opposing slots until the user is on the clock
// or the draft completes.
func (s *DraftService) AdvanceToUser(ctx context.Context, draftID string, maxPicks int) ([]PickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.AdvanceToUser")
	defer span.End()

	session, err := s.session(draftID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	entries, err := session.instance.AdvanceToUserSlot(maxPicks)
	views := make([]PickView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, s.pickViewLocked(session, entry))
	}
	if err != nil {
		return views, fmt.Errorf("advance draft: %w", err)
	}
	s.afterCommitLocked(ctx, session)

	return views, nil
}

func (s *DraftService) Undo(ctx context.Context, draftID string) (PickView, error) {
	session, err := s.session(draftID)
	if err != nil {
		return PickView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	entry, err := session.instance.Undo()
	if err != nil {
		return PickView{}, fmt.Errorf("undo pick: %w", err)
	}

	return s.pickViewLocked(session, entry), nil
}

func (s *DraftService) Board(ctx context.Context, draftID string) (BoardView, error) {
	session, err := s.session(draftID)
	if err != nil {
		return BoardView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	entries := session.instance.Snapshot()
	view := BoardView{
		Draft:     s.viewLocked(session),
		Picks:     make([]PickView, 0, len(entries)),
		NextTeam:  -1,
		NextRound: -1,
	}
	for _, entry := range entries {
		view.Picks = append(view.Picks, s.pickViewLocked(session, entry))
	}
	if slot, err := session.instance.NextOpenSlot(); err == nil {
		view.NextTeam = slot.Team
		view.NextRound = slot.Round
	}

	return view, nil
}

// Remaining lists undrafted players in rank order, optionally filtered
// by position.
func (s *DraftService) Remaining(ctx context.Context, draftID, position string, limit int) ([]player.Player, error) {
	session, err := s.session(draftID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	pool := session.instance.RemainingPlayers()
	if strings.TrimSpace(position) != "" {
		pos := player.Position(strings.ToUpper(strings.TrimSpace(position)))
		if _, ok := player.AllPositions[pos]; !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, position)
		}
		filtered := pool[:0:0]
		for _, p := range pool {
			if p.Position == pos {
				filtered = append(filtered, p)
			}
		}
		pool = filtered
	}
	if limit > 0 && limit < len(pool) {
		pool = pool[:limit]
	}

	return pool, nil
}

func (s *DraftService) Needs(ctx context.Context, draftID string, team int) (NeedsView, error) {
	session, err := s.session(draftID)
	if err != nil {
		return NeedsView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if team < 0 || team >= session.instance.Config().TeamCount {
		return NeedsView{}, fmt.Errorf("%w: team %d out of range", ErrInvalidInput, team)
	}

	return NeedsView{Team: team, Needs: session.instance.UnmetNeeds(team)}, nil
}

func (s *DraftService) Grades(ctx context.Context, draftID string) ([]draft.TeamGrade, error) {
	session, err := s.session(draftID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	return draft.GradeAll(
		session.instance.Config().TeamCount,
		session.instance.Snapshot(),
		session.instance.Catalog(),
	), nil
}

// afterCommitLocked archives the draft once the final pick lands. Called
// with the session mutex held.
func (s *DraftService) afterCommitLocked(ctx context.Context, session *draftSession) {
	if session.archived || s.archiveRepo == nil {
		return
	}
	if session.instance.State() != draft.StateComplete {
		return
	}

	record := s.archiveRecordLocked(session)
	if err := s.archiveRepo.Save(ctx, record); err != nil {
		s.logger.Error("archive completed draft", "draft_id", session.id, "error", err)
		return
	}
	session.archived = true
	s.logger.Info("draft archived", "draft_id", session.id, "picks", len(record.Picks))
}

func (s *DraftService) archiveRecordLocked(session *draftSession) archive.Draft {
	cfg := session.instance.Config()
	entries := session.instance.Snapshot()

	record := archive.Draft{
		ID:          session.id,
		Name:        session.name,
		TeamCount:   cfg.TeamCount,
		RoundCount:  cfg.RoundCount,
		UserSlot:    cfg.UserSlot,
		Seed:        session.seed,
		CompletedAt: s.now().UTC(),
		Picks:       make([]archive.Pick, 0, len(entries)),
	}
	for _, entry := range entries {
		view := s.pickViewLocked(session, entry)
		record.Picks = append(record.Picks, archive.Pick{
			Overall:    view.Overall,
			Round:      view.Round,
			Team:       view.Team,
			PlayerID:   view.PlayerID,
			PlayerName: view.PlayerName,
			Position:   view.Position,
			IsKeeper:   view.IsKeeper,
			SlotKind:   view.SlotKind,
		})
	}

	return record
}

func (s *DraftService) viewLocked(session *draftSession) DraftView {
	cfg := session.instance.Config()
	return DraftView{
		ID:             session.id,
		Name:           session.name,
		CatalogID:      session.catalogID,
		State:          session.instance.State().String(),
		TeamCount:      cfg.TeamCount,
		UserSlot:       cfg.UserSlot,
		RoundCount:     cfg.RoundCount,
		TotalPicks:     cfg.TotalPicks(),
		PicksMade:      len(session.instance.Snapshot()),
		KeepersEnabled: cfg.KeepersEnabled,
		CreatedAt:      session.createdAt,
	}
}

func (s *DraftService) pickViewLocked(session *draftSession, entry draft.BoardEntry) PickView {
	view := PickView{
		Overall:  entry.Slot.Overall,
		Round:    entry.Slot.Round,
		Team:     entry.Slot.Team,
		PlayerID: entry.PlayerID,
		IsKeeper: entry.IsKeeper,
		SlotKind: entry.Slotted.String(),
		PickedAt: entry.PickedAt,
	}
	if p, ok := session.instance.Catalog().Get(entry.PlayerID); ok {
		view.PlayerName = p.Name
		view.Position = string(p.Position)
	}

	return view
}

// IsDraftDomainErr reports whether err carries one of the draft
// sentinels, letting the transport layer map it to a client fault.
func IsDraftDomainErr(err error) bool {
	for _, sentinel := range []error{
		draft.ErrDuplicatePlayer,
		draft.ErrSlotTaken,
		draft.ErrInvalidRound,
		draft.ErrReservationsFrozen,
		draft.ErrUnknownPlayer,
		draft.ErrAlreadyDrafted,
		draft.ErrPlayerReserved,
		draft.ErrRosterFull,
		draft.ErrIllegalUndo,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
