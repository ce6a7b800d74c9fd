package risks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/ports/auth"
	"activity-planner/internal/rules"

	"github.com/google/uuid"
)

// ActivityGuard evita importar el servicio de activities entero: solo
// necesitamos el prólogo de autorización.
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

func (s *Service) List(ctx context.Context, c auth.Claims, activityID string) ([]Entry, error) {
	if err := s.guard.Authorize(ctx, activityID, c, false); err != nil {
		return nil, err
	}
	return s.repo.ListByActivity(ctx, activityID)
}

// Put crea o actualiza una fila según venga id o no. El guard (con permiso de
// edición) corre antes de validar campos.
func (s *Service) Put(ctx context.Context, c auth.Claims, activityID string, payload map[string]any) (Entry, error) {
	if err := s.guard.Authorize(ctx, activityID, c, true); err != nil {
		return Entry{}, err
	}
	if payload == nil {
		return Entry{}, fmt.Errorf("%w: no parameters provided", activities.ErrInvalidInput)
	}

	id, _ := payload["id"].(string)
	id = strings.TrimSpace(id)
	creating := id == ""

	descRules := []rules.Rule{rules.String()}
	if creating {
		descRules = []rules.Rule{rules.Defined(), rules.String()}
	}
	fields := []rules.Field{
		rules.F("description", payload["description"], descRules...),
		rules.F("likelihood", payload["likelihood"], rules.Enum(Likelihoods...)),
		rules.F("consequence", payload["consequence"], rules.Enum(Consequences...)),
		rules.F("mitigation", payload["mitigation"], rules.String()),
	}
	if _, err := rules.Check(fields, false); err != nil {
		return Entry{}, err
	}

	now := s.now()

	if creating {
		e := Entry{
			ID:         uuid.NewString(),
			ActivityID: activityID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		apply(&e, payload)
		if err := s.repo.Create(ctx, e); err != nil {
			return Entry{}, err
		}
		return e, nil
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, activities.ErrNotFound) {
		return Entry{}, err
	}
	if err != nil || e.ActivityID != activityID {
		return Entry{}, fmt.Errorf("risk %s: %w", id, activities.ErrNotFound)
	}

	apply(&e, payload)
	e.UpdatedAt = now
	if err := s.repo.Update(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, c auth.Claims, activityID, riskID string) error {
	if err := s.guard.Authorize(ctx, activityID, c, true); err != nil {
		return err
	}

	riskID = strings.TrimSpace(riskID)
	e, err := s.repo.GetByID(ctx, riskID)
	if err != nil && !errors.Is(err, activities.ErrNotFound) {
		return err
	}
	if err != nil || e.ActivityID != activityID {
		return fmt.Errorf("risk %s: %w", riskID, activities.ErrNotFound)
	}
	return s.repo.Delete(ctx, riskID)
}

func apply(e *Entry, payload map[string]any) {
	set := func(dst *string, key string) {
		if v, ok := payload[key].(string); ok {
			*dst = v
		}
	}
	set(&e.Description, "description")
	set(&e.Likelihood, "likelihood")
	set(&e.Consequence, "consequence")
	set(&e.Mitigation, "mitigation")
}
