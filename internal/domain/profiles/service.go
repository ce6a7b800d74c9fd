package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/ports/auth"
	"activity-planner/internal/rules"
)

// InvitePromoter pasa las invitaciones pendientes por email a la cuenta nueva
// (lo implementa activities.Service).
type InvitePromoter interface {
	PromotePendingInvites(ctx context.Context, uid, email string) error
}

type Service struct {
	repo     Repository
	promoter InvitePromoter
	now      func() time.Time
}

func NewService(repo Repository, promoter InvitePromoter) *Service {
	return &Service{
		repo:     repo,
		promoter: promoter,
		now:      time.Now,
	}
}

// Get devuelve el perfil propio; si no existe todavía, devuelve uno vacío con
// los datos de los claims (el documento se crea recién al guardar o por hook).
func (s *Service) Get(ctx context.Context, c auth.Claims) (Profile, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return Profile{}, activities.ErrUnauthenticated
	}

	p, err := s.repo.GetByUID(ctx, c.UserID)
	if errors.Is(err, activities.ErrNotFound) {
		return Profile{UID: c.UserID, Email: c.Email}, nil
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Set actualiza parcialmente el perfil propio. emergencyContact viene como
// objeto anidado; las reglas lo validan por path.
func (s *Service) Set(ctx context.Context, c auth.Claims, payload map[string]any) (Profile, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return Profile{}, activities.ErrUnauthenticated
	}
	if !c.EmailVerified {
		return Profile{}, activities.ErrNotVerified
	}
	if payload == nil {
		return Profile{}, fmt.Errorf("%w: no parameters provided", activities.ErrInvalidInput)
	}

	emergencyName := rules.ParsePath("emergencyContact.name")
	emergencyPhone := rules.ParsePath("emergencyContact.phone")

	fields := []rules.Field{
		rules.F("displayName", payload["displayName"], rules.String()),
		rules.F("phone", payload["phone"], rules.String()),
		rules.F("emergencyContact", payload["emergencyContact"], rules.Object()),
		{Name: emergencyName, Value: emergencyName.Lookup(payload), Rules: []rules.Rule{rules.String()}},
		{Name: emergencyPhone, Value: emergencyPhone.Lookup(payload), Rules: []rules.Rule{rules.String()}},
		rules.F("subscribeReminders", payload["subscribeReminders"], rules.Boolean()),
	}
	if _, err := rules.Check(fields, false); err != nil {
		return Profile{}, err
	}

	now := s.now()

	p, err := s.repo.GetByUID(ctx, c.UserID)
	creating := errors.Is(err, activities.ErrNotFound)
	if err != nil && !creating {
		return Profile{}, err
	}
	if creating {
		p = Profile{UID: c.UserID, Email: c.Email, CreatedAt: now}
	}

	set := func(dst *string, v any) {
		if s, ok := v.(string); ok {
			*dst = s
		}
	}
	set(&p.DisplayName, payload["displayName"])
	set(&p.Phone, payload["phone"])
	set(&p.EmergencyName, emergencyName.Lookup(payload))
	set(&p.EmergencyPhone, emergencyPhone.Lookup(payload))
	if v, ok := payload["subscribeReminders"].(bool); ok {
		p.SubscribeReminders = v
	}
	p.UpdatedAt = now

	if creating {
		if err := s.repo.Create(ctx, p); err != nil {
			return Profile{}, err
		}
		return p, nil
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Provision corre al crearse una cuenta en el proveedor de identidad:
// crea el documento de perfil (idempotente) y promueve invitaciones
// pendientes con ese email. El orden importa poco; ambas son idempotentes.
func (s *Service) Provision(ctx context.Context, uid, email, displayName string) error {
	uid = strings.TrimSpace(uid)
	email = strings.ToLower(strings.TrimSpace(email))
	if uid == "" || email == "" {
		return fmt.Errorf("%w: uid and email required", activities.ErrInvalidInput)
	}

	if _, err := s.repo.GetByUID(ctx, uid); err != nil {
		if !errors.Is(err, activities.ErrNotFound) {
			return err
		}
		now := s.now()
		p := Profile{
			UID:         uid,
			Email:       email,
			DisplayName: strings.TrimSpace(displayName),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
	}

	if s.promoter == nil {
		return nil
	}
	return s.promoter.PromotePendingInvites(ctx, uid, email)
}
