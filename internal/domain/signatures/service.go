package signatures

import (
	"context"
	"fmt"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/ports/auth"
	"activity-planner/internal/rules"
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

func (s *Service) List(ctx context.Context, c auth.Claims, activityID string) ([]Signature, error) {
	if err := s.guard.Authorize(ctx, activityID, c, false); err != nil {
		return nil, err
	}
	return s.repo.ListByActivity(ctx, activityID)
}

// Set guarda la firma del que llama. Firmar requiere acceso pero no rol de
// edición: un Viewer también firma su asistencia.
func (s *Service) Set(ctx context.Context, c auth.Claims, activityID string, payload map[string]any) (Signature, error) {
	if err := s.guard.Authorize(ctx, activityID, c, false); err != nil {
		return Signature{}, err
	}
	if payload == nil {
		return Signature{}, fmt.Errorf("%w: no parameters provided", activities.ErrInvalidInput)
	}

	fields := []rules.Field{
		rules.F("signedName", payload["signedName"], rules.Defined(), rules.String()),
		rules.F("imageDataURL", payload["imageDataURL"], rules.String()),
	}
	if _, err := rules.Check(fields, false); err != nil {
		return Signature{}, err
	}

	sig := Signature{
		ActivityID: activityID,
		UID:        c.UserID,
		SignedName: payload["signedName"].(string),
		SignedAt:   s.now(),
	}
	if v, ok := payload["imageDataURL"].(string); ok {
		sig.ImageDataURL = v
	}

	if err := s.repo.Upsert(ctx, sig); err != nil {
		return Signature{}, err
	}
	return sig, nil
}
