package memory

import (
	"context"
	"errors"
	"sync"

	"activity-planner/internal/domain/profiles"
)

type profileRepo struct {
	mu    sync.RWMutex
	byUID map[string]profiles.Profile
}

func NewProfileRepo() profiles.Repository {
	return &profileRepo{
		byUID: make(map[string]profiles.Profile),
	}
}

func (r *profileRepo) Create(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.UID == "" {
		return errors.New("profile uid required")
	}
	if _, exists := r.byUID[p.UID]; exists {
		return errors.New("profile already exists")
	}
	r.byUID[p.UID] = p
	return nil
}

func (r *profileRepo) GetByUID(ctx context.Context, uid string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUID[uid]
	if !ok {
		return profiles.Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *profileRepo) Update(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUID[p.UID]; !exists {
		return ErrNotFound
	}
	r.byUID[p.UID] = p
	return nil
}
