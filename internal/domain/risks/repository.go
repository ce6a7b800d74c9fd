package risks

import "context"

type Repository interface {
	Create(ctx context.Context, e Entry) error
	Update(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, id string) (Entry, error)
	ListByActivity(ctx context.Context, activityID string) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}
