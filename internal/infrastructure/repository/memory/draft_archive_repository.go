package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/draftday/draftsim/internal/domain/archive"
)

// DraftArchiveRepository keeps completed drafts in memory. It backs
// deployments that run without a database.
type DraftArchiveRepository struct {
	mu     sync.RWMutex
	drafts map[string]archive.Draft
}

func NewDraftArchiveRepository() *DraftArchiveRepository {
	return &DraftArchiveRepository{
		drafts: make(map[string]archive.Draft),
	}
}

func (r *DraftArchiveRepository) Save(_ context.Context, draft archive.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drafts[draft.ID]; exists {
		return fmt.Errorf("draft archive %s already exists", draft.ID)
	}

	picks := make([]archive.Pick, len(draft.Picks))
	copy(picks, draft.Picks)
	draft.Picks = picks
	r.drafts[draft.ID] = draft

	return nil
}

func (r *DraftArchiveRepository) GetByID(_ context.Context, id string) (archive.Draft, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, ok := r.drafts[id]
	if !ok {
		return archive.Draft{}, false, nil
	}

	picks := make([]archive.Pick, len(draft.Picks))
	copy(picks, draft.Picks)
	draft.Picks = picks

	return draft, true, nil
}

func (r *DraftArchiveRepository) List(_ context.Context, limit, offset int) ([]archive.Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]archive.Summary, 0, len(r.drafts))
	for _, draft := range r.drafts {
		summaries = append(summaries, archive.Summary{
			ID:          draft.ID,
			Name:        draft.Name,
			TeamCount:   draft.TeamCount,
			RoundCount:  draft.RoundCount,
			PickCount:   len(draft.Picks),
			CompletedAt: draft.CompletedAt,
			CreatedAt:   draft.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].CompletedAt.Equal(summaries[j].CompletedAt) {
			return summaries[i].CompletedAt.After(summaries[j].CompletedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})

	if offset >= len(summaries) {
		return []archive.Summary{}, nil
	}
	end := offset + limit
	if end > len(summaries) {
		end = len(summaries)
	}

	return summaries[offset:end], nil
}

func (r *DraftArchiveRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafts[id]; !ok {
		return fmt.Errorf("delete draft archive: not found")
	}
	delete(r.drafts, id)

	return nil
}
