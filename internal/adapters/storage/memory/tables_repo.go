package memory

import (
	"context"
	"errors"
	"sync"

	"activity-planner/internal/domain/tables"
)

type tableRepo struct {
	mu   sync.RWMutex
	byID map[string]tables.Row
}

func NewTableRepo() tables.Repository {
	return &tableRepo{
		byID: make(map[string]tables.Row),
	}
}

func cloneRow(row tables.Row) tables.Row {
	out := row
	if row.Cells != nil {
		out.Cells = make(map[string]string, len(row.Cells))
		for k, v := range row.Cells {
			out.Cells[k] = v
		}
	}
	return out
}

func (r *tableRepo) Create(ctx context.Context, row tables.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row.ID == "" {
		return errors.New("row id required")
	}
	if _, exists := r.byID[row.ID]; exists {
		return errors.New("row already exists")
	}
	r.byID[row.ID] = cloneRow(row)
	return nil
}

func (r *tableRepo) Update(ctx context.Context, row tables.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[row.ID]; !exists {
		return ErrNotFound
	}
	r.byID[row.ID] = cloneRow(row)
	return nil
}

func (r *tableRepo) GetByID(ctx context.Context, id string) (tables.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byID[id]
	if !ok {
		return tables.Row{}, ErrNotFound
	}
	return cloneRow(row), nil
}

func (r *tableRepo) ListByActivityKind(ctx context.Context, activityID, kind string) ([]tables.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tables.Row, 0)
	for _, row := range r.byID {
		if row.ActivityID == activityID && row.Kind == kind {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

func (r *tableRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
