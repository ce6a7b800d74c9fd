package signatures

import "context"

type Repository interface {
	// Upsert reemplaza la firma existente de (activityID, uid) si la hay.
	Upsert(ctx context.Context, sig Signature) error
	ListByActivity(ctx context.Context, activityID string) ([]Signature, error)
}
