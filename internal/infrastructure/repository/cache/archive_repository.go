package cache

import (
	"context"
	"strconv"

	"github.com/draftday/draftsim/internal/domain/archive"
	basecache "github.com/draftday/draftsim/internal/platform/cache"
)

// ArchiveRepository decorates an archive repository with read-through
// caching. Writes invalidate every archive key so lists never serve a
// deleted or missing draft.
type ArchiveRepository struct {
	next  archive.Repository
	cache *basecache.Store
}

func NewArchiveRepository(next archive.Repository, cache *basecache.Store) *ArchiveRepository {
	return &ArchiveRepository{next: next, cache: cache}
}

func (r *ArchiveRepository) Save(ctx context.Context, draft archive.Draft) error {
	if err := r.next.Save(ctx, draft); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "archive:")
	return nil
}

func (r *ArchiveRepository) GetByID(ctx context.Context, id string) (archive.Draft, bool, error) {
	key := "archive:id:" + id
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedArchiveByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return archive.Draft{}, false, err
	}

	cached, _ := v.(cachedArchiveByID)
	return cached.value, cached.exists, nil
}

type cachedArchiveByID struct {
	value  archive.Draft
	exists bool
}

func (r *ArchiveRepository) List(ctx context.Context, limit, offset int) ([]archive.Summary, error) {
	key := "archive:list:" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		return append([]archive.Summary(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]archive.Summary)
	return append([]archive.Summary(nil), items...), nil
}

func (r *ArchiveRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "archive:")
	return nil
}
