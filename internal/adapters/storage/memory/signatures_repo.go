package memory

import (
	"context"
	"sync"

	"activity-planner/internal/domain/signatures"
)

type signatureRepo struct {
	mu sync.RWMutex
	// key: activityID + "/" + uid
	byKey map[string]signatures.Signature
}

func NewSignatureRepo() signatures.Repository {
	return &signatureRepo{
		byKey: make(map[string]signatures.Signature),
	}
}

func sigKey(activityID, uid string) string {
	return activityID + "/" + uid
}

func (r *signatureRepo) Upsert(ctx context.Context, sig signatures.Signature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKey[sigKey(sig.ActivityID, sig.UID)] = sig
	return nil
}

func (r *signatureRepo) ListByActivity(ctx context.Context, activityID string) ([]signatures.Signature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]signatures.Signature, 0)
	for _, sig := range r.byKey {
		if sig.ActivityID == activityID {
			out = append(out, sig)
		}
	}
	return out, nil
}
