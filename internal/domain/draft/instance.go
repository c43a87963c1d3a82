package draft

import (
	"fmt"
	"time"

	"github.com/draftday/draftsim/internal/domain/league"
	"github.com/draftday/draftsim/internal/domain/player"
)

// Instance is the explicitly owned aggregate for one draft: catalog
// (shared, read-only), league config, keeper registry, roster tracker and
// board. It is not safe for concurrent use; the calling layer serializes
// pick and undo operations per instance.
type Instance struct {
	catalog  *player.Catalog
	cfg      league.Config
	seq      Sequencer
	keepers  *KeeperRegistry
	roster   *RosterTracker
	board    *Board
	scorer   *Scorer
	curve    ScarcityCurve
	remaining map[string]struct{}
	commits  int
	now      func() time.Time
}

type Option func(*options)

type options struct {
	params ScorerParams
	seed   int64
	hasSeed bool
	curve  ScarcityCurve
	now    func() time.Time
}

// WithScorerParams overrides the autopick tuning.
func WithScorerParams(params ScorerParams) Option {
	return func(o *options) { o.params = params }
}

// WithSeed fixes the autopick random source for reproducible drafts.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.hasSeed = true
	}
}

// WithScarcityCurve overrides the scarcity shape fed to the scorer.
func WithScarcityCurve(curve ScarcityCurve) Option {
	return func(o *options) { o.curve = curve }
}

// WithClock injects the timestamp source for committed entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewInstance(catalog *player.Catalog, cfg league.Config, opts ...Option) (*Instance, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid league config: %w", err)
	}
	if catalog.Size() < cfg.TotalPicks() {
		return nil, fmt.Errorf("catalog holds %d players but the draft needs %d", catalog.Size(), cfg.TotalPicks())
	}

	o := options{
		params: DefaultScorerParams(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasSeed {
		o.seed = time.Now().UnixNano()
	}

	remaining := make(map[string]struct{}, catalog.Size())
	for _, p := range catalog.Players() {
		remaining[p.ID] = struct{}{}
	}

	return &Instance{
		catalog:   catalog,
		cfg:       cfg,
		seq:       NewSequencer(cfg.TeamCount, cfg.RoundCount),
		keepers:   NewKeeperRegistry(cfg.TeamCount, cfg.RoundCount),
		roster:    NewRosterTracker(cfg.TeamCount, cfg.Roster),
		board:     NewBoard(cfg.TotalPicks()),
		scorer:    NewScorer(o.params, o.seed),
		curve:     o.curve,
		remaining: remaining,
		now:       o.now,
	}, nil
}

func (i *Instance) Config() league.Config {
	return i.cfg
}

func (i *Instance) Catalog() *player.Catalog {
	return i.catalog
}

func (i *Instance) State() BoardState {
	return i.board.State()
}

// ReserveKeeper pre-assigns a player before the draft starts.
func (i *Instance) ReserveKeeper(team int, playerID string, round int) error {
	if !i.cfg.KeepersEnabled {
		return fmt.Errorf("keepers are disabled for this league")
	}
	if _, ok := i.catalog.Get(playerID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return i.keepers.Reserve(team, playerID, round)
}

// RemoveKeeper drops a reservation; only permitted before the draft starts.
func (i *Instance) RemoveKeeper(playerID string) error {
	return i.keepers.Remove(playerID)
}

// Keepers lists reservations ordered by round then team.
func (i *Instance) Keepers() []KeeperReservation {
	return i.keepers.List()
}

// Start freezes the keeper registry and opens the board. Reserved
// players leave the remaining pool immediately so no other team can
// draft them ahead of their reserved slot.
func (i *Instance) Start() error {
	if err := i.board.Start(); err != nil {
		return err
	}
	i.keepers.Freeze()
	for _, res := range i.keepers.List() {
		delete(i.remaining, res.PlayerID)
	}

	return nil
}

func (i *Instance) ensureStarted() error {
	if i.board.State() == StateNotStarted {
		return i.Start()
	}
	return nil
}

// NextOpenSlot resolves the next unfilled slot. ErrDraftComplete signals
// that every pick has been made.
func (i *Instance) NextOpenSlot() (PickSlot, error) {
	return i.seq.Slot(i.board.NextIndex())
}

// CommitManualPick fills the next slot with the named player. If the
// slot carries a keeper reservation the reserved player is force-assigned
// instead; the manual request is overridden, not rejected.
func (i *Instance) CommitManualPick(playerID string) (BoardEntry, error) {
	if err := i.ensureStarted(); err != nil {
		return BoardEntry{}, err
	}

	slot, err := i.NextOpenSlot()
	if err != nil {
		return BoardEntry{}, err
	}

	if res, ok := i.keepers.Lookup(slot.Team, slot.Round); ok {
		return i.commit(slot, res.PlayerID, true)
	}

	p, ok := i.catalog.Get(playerID)
	if !ok {
		return BoardEntry{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if i.keepers.Reserved(p.ID) {
		return BoardEntry{}, fmt.Errorf("%w: %s", ErrPlayerReserved, p.ID)
	}
	if _, open := i.remaining[p.ID]; !open {
		return BoardEntry{}, fmt.Errorf("%w: %s", ErrAlreadyDrafted, p.ID)
	}
	if !i.roster.CanAccept(slot.Team, p.Position) {
		return BoardEntry{}, fmt.Errorf("%w: team %d position %s", ErrRosterFull, slot.Team, p.Position)
	}

	return i.commit(slot, p.ID, false)
}

// CommitAutopick fills the next slot via the scorer, honoring keeper
// reservations first.
func (i *Instance) CommitAutopick() (BoardEntry, error) {
	if err := i.ensureStarted(); err != nil {
		return BoardEntry{}, err
	}

	slot, err := i.NextOpenSlot()
	if err != nil {
		return BoardEntry{}, err
	}

	if res, ok := i.keepers.Lookup(slot.Team, slot.Round); ok {
		return i.commit(slot, res.PlayerID, true)
	}

	pool := i.RemainingPlayers()
	pick, err := i.scorer.Pick(PickRequest{
		Team:        slot.Team,
		Round:       slot.Round,
		TotalRounds: i.cfg.RoundCount,
		OverallPick: slot.Overall,
		Remaining:   pool,
		Roster:      i.roster,
		Scarcity:    AnalyzeScarcity(pool, i.curve),
	})
	if err != nil {
		return BoardEntry{}, err
	}

	return i.commit(slot, pick.ID, false)
}

func (i *Instance) commit(slot PickSlot, playerID string, isKeeper bool) (BoardEntry, error) {
	p, ok := i.catalog.Get(playerID)
	if !ok {
		return BoardEntry{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}

	kind, err := i.roster.Record(slot.Team, p.Position)
	if err != nil {
		return BoardEntry{}, err
	}

	entry := BoardEntry{
		Slot:     slot,
		PlayerID: p.ID,
		IsKeeper: isKeeper,
		Seq:      i.commits,
		Slotted:  kind,
		PickedAt: i.now().UTC(),
	}
	if err := i.board.Append(entry); err != nil {
		// Keep roster and board consistent if the append is refused.
		_ = i.roster.Release(slot.Team, p.Position, kind)
		return BoardEntry{}, err
	}

	delete(i.remaining, p.ID)
	i.commits++

	return entry, nil
}

// Undo removes exactly the last committed entry, restoring the roster
// slot and (for non-keeper picks) the remaining pool. Keeper players
// stay reserved and never rejoin the open pool.
func (i *Instance) Undo() (BoardEntry, error) {
	entry, err := i.board.RemoveLast()
	if err != nil {
		return BoardEntry{}, err
	}

	p, ok := i.catalog.Get(entry.PlayerID)
	if !ok {
		return BoardEntry{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, entry.PlayerID)
	}
	if err := i.roster.Release(entry.Slot.Team, p.Position, entry.Slotted); err != nil {
		return BoardEntry{}, err
	}
	if !entry.IsKeeper {
		i.remaining[entry.PlayerID] = struct{}{}
	}

	return entry, nil
}

// Snapshot returns the committed entries in pick order. A fresh instance
// can rebuild live state by replaying these in order.
func (i *Instance) Snapshot() []BoardEntry {
	return i.board.Snapshot()
}

// RemainingPlayers returns the undrafted pool in rank order.
func (i *Instance) RemainingPlayers() []player.Player {
	out := make([]player.Player, 0, len(i.remaining))
	for _, p := range i.catalog.Players() {
		if _, open := i.remaining[p.ID]; open {
			out = append(out, p)
		}
	}
	return out
}

// UnmetNeeds reports a team's positions still below their dedicated limit.
func (i *Instance) UnmetNeeds(team int) []player.Position {
	return i.roster.UnmetNeeds(team)
}

// Roster exposes the tracker read-only for scoring inspection.
func (i *Instance) Roster() *RosterTracker {
	return i.roster
}

// AdvanceToUserSlot autopicks through opposing teams' slots until the
// user's next open, non-reserved slot or draft completion. Keeper slots
// along the way, the user's included, auto-fill. maxPicks <= 0 means no
// limit beyond the draft length.
func (i *Instance) AdvanceToUserSlot(maxPicks int) ([]BoardEntry, error) {
	if maxPicks <= 0 {
		maxPicks = i.cfg.TotalPicks()
	}

	committed := make([]BoardEntry, 0, maxPicks)
	for len(committed) < maxPicks {
		slot, err := i.NextOpenSlot()
		if err != nil {
			break // draft complete
		}

		_, reserved := i.keepers.Lookup(slot.Team, slot.Round)
		if slot.Team == i.cfg.UserSlot && !reserved {
			break
		}

		entry, err := i.CommitAutopick()
		if err != nil {
			return committed, err
		}
		committed = append(committed, entry)
	}

	return committed, nil
}
