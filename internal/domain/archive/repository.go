package archive

import "context"

type Repository interface {
	Save(ctx context.Context, draft Draft) error
	GetByID(ctx context.Context, id string) (Draft, bool, error)
	List(ctx context.Context, limit, offset int) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}
