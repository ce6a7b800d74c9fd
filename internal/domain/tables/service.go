package tables

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/ports/auth"
	"activity-planner/internal/rules"

	"github.com/google/uuid"
)

type ActivityGuard interface {
	Authorize(ctx context.Context, activityID string, c auth.Claims, edit bool) error
}

type Service struct {
	repo  Repository
	guard ActivityGuard
	now   func() time.Time
}

func NewService(repo Repository, guard ActivityGuard) *Service {
	return &Service{
		repo:  repo,
		guard: guard,
		now:   time.Now,
	}
}

func validKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// List devuelve las filas de una tabla ordenadas por position.
func (s *Service) List(ctx context.Context, c auth.Claims, activityID, kind string) ([]Row, error) {
	if err := s.guard.Authorize(ctx, activityID, c, false); err != nil {
		return nil, err
	}
	if !validKind(kind) {
		return nil, &rules.ValidationError{Field: "kind", Kind: rules.KindEnum}
	}

	items, err := s.repo.ListByActivityKind(ctx, activityID, kind)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items, nil
}

// Put crea o actualiza una fila. position debe ser entero y cells un objeto
// de strings (celda por columna).
func (s *Service) Put(ctx context.Context, c auth.Claims, activityID, kind string, payload map[string]any) (Row, error) {
	if err := s.guard.Authorize(ctx, activityID, c, true); err != nil {
		return Row{}, err
	}
	if !validKind(kind) {
		return Row{}, &rules.ValidationError{Field: "kind", Kind: rules.KindEnum}
	}
	if payload == nil {
		return Row{}, fmt.Errorf("%w: no parameters provided", activities.ErrInvalidInput)
	}

	fields := []rules.Field{
		rules.F("position", payload["position"], rules.Number(), rules.Integer()),
		rules.F("cells", payload["cells"], rules.Object()),
	}
	if _, err := rules.Check(fields, false); err != nil {
		return Row{}, err
	}

	cells, err := cellsFromPayload(payload["cells"])
	if err != nil {
		return Row{}, err
	}

	now := s.now()
	id, _ := payload["id"].(string)
	id = strings.TrimSpace(id)

	if id == "" {
		row := Row{
			ID:         uuid.NewString(),
			ActivityID: activityID,
			Kind:       kind,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		applyRow(&row, payload, cells)
		if err := s.repo.Create(ctx, row); err != nil {
			return Row{}, err
		}
		return row, nil
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, activities.ErrNotFound) {
		return Row{}, err
	}
	if err != nil || row.ActivityID != activityID || row.Kind != kind {
		return Row{}, fmt.Errorf("row %s: %w", id, activities.ErrNotFound)
	}

	applyRow(&row, payload, cells)
	row.UpdatedAt = now
	if err := s.repo.Update(ctx, row); err != nil {
		return Row{}, err
	}
	return row, nil
}

func (s *Service) Delete(ctx context.Context, c auth.Claims, activityID, kind, rowID string) error {
	if err := s.guard.Authorize(ctx, activityID, c, true); err != nil {
		return err
	}

	row, err := s.repo.GetByID(ctx, strings.TrimSpace(rowID))
	if err != nil && !errors.Is(err, activities.ErrNotFound) {
		return err
	}
	if err != nil || row.ActivityID != activityID || row.Kind != kind {
		return fmt.Errorf("row %s: %w", rowID, activities.ErrNotFound)
	}
	return s.repo.Delete(ctx, row.ID)
}

// cellsFromPayload valida que cada celda sea string. nil => sin cambios.
func cellsFromPayload(raw any) (map[string]string, error) {
	if raw == nil {
		return nil, nil
	}
	obj := raw.(map[string]any)
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, &rules.ValidationError{Field: "cells." + k, Kind: rules.KindString}
		}
		out[k] = s
	}
	return out, nil
}

func applyRow(row *Row, payload map[string]any, cells map[string]string) {
	if v, ok := payload["position"].(float64); ok {
		row.Position = int(v)
	}
	if cells != nil {
		row.Cells = cells
	}
}
