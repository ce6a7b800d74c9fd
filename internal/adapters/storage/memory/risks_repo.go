package memory

import (
	"context"
	"errors"
	"sync"

	"activity-planner/internal/domain/risks"
)

type riskRepo struct {
	mu   sync.RWMutex
	byID map[string]risks.Entry
}

func NewRiskRepo() risks.Repository {
	return &riskRepo{
		byID: make(map[string]risks.Entry),
	}
}

func (r *riskRepo) Create(ctx context.Context, e risks.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("risk id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("risk already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *riskRepo) Update(ctx context.Context, e risks.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *riskRepo) GetByID(ctx context.Context, id string) (risks.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return risks.Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *riskRepo) ListByActivity(ctx context.Context, activityID string) ([]risks.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]risks.Entry, 0)
	for _, e := range r.byID {
		if e.ActivityID == activityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *riskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
