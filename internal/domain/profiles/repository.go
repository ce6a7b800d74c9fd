package profiles

import "context"

type Repository interface {
	Create(ctx context.Context, p Profile) error
	GetByUID(ctx context.Context, uid string) (Profile, error)
	Update(ctx context.Context, p Profile) error
}
