package tables

import "context"

type Repository interface {
	Create(ctx context.Context, row Row) error
	Update(ctx context.Context, row Row) error
	GetByID(ctx context.Context, id string) (Row, error)
	ListByActivityKind(ctx context.Context, activityID, kind string) ([]Row, error)
	Delete(ctx context.Context, id string) error
}
