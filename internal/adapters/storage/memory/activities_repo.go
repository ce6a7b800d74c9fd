package memory

import (
	"context"
	"errors"
	"sync"

	"activity-planner/internal/domain/activities"
)

// ErrNotFound es el sentinel del dominio: los servicios distinguen
// "no existe" de un fallo de infraestructura.
var ErrNotFound = activities.ErrNotFound

type activityRepo struct {
	mu   sync.RWMutex
	byID map[string]activities.Activity
}

func NewActivityRepo() activities.Repository {
	return &activityRepo{
		byID: make(map[string]activities.Activity),
	}
}

// clone copia el documento entero, RoleMap incluido: el repo emula un
// document store, nada de compartir mapas con el servicio.
func clone(a activities.Activity) activities.Activity {
	out := a
	out.People = a.People.Clone()
	return out
}

func (r *activityRepo) Create(ctx context.Context, a activities.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("activity id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("activity already exists")
	}
	r.byID[a.ID] = clone(a)
	return nil
}

func (r *activityRepo) GetByID(ctx context.Context, id string) (activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return activities.Activity{}, ErrNotFound
	}
	return clone(a), nil
}

func (r *activityRepo) Update(ctx context.Context, a activities.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("activity id required")
	}
	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}
	r.byID[a.ID] = clone(a)
	return nil
}

func (r *activityRepo) ListByMember(ctx context.Context, uid string) ([]activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activities.Activity, 0)
	for _, a := range r.byID {
		if a.People.HasAccess(uid) {
			out = append(out, clone(a))
		}
	}
	return out, nil
}

func (r *activityRepo) ListByPendingEmail(ctx context.Context, email string) ([]activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activities.Activity, 0)
	for _, a := range r.byID {
		if _, ok := a.People.ByEmail[email]; ok {
			out = append(out, clone(a))
		}
	}
	return out, nil
}

func (r *activityRepo) ListStartingOn(ctx context.Context, date string) ([]activities.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activities.Activity, 0)
	for _, a := range r.byID {
		if a.StartDate == date {
			out = append(out, clone(a))
		}
	}
	return out, nil
}
