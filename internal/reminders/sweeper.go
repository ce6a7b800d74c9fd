// Package reminders implementa el barrido programado: actividades que
// arrancan en exactamente 7/14/21/28 días reciben un correo por persona.
// Contrato: best-effort. Un envío que falla se loguea y se sigue; no hay
// reintentos ni se corta el barrido.
package reminders

import (
	"context"
	"fmt"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/platform/logger"
	"activity-planner/internal/ports/identity"
	"activity-planner/internal/ports/notify"
)

// Offsets en días antes del startDate.
var Offsets = []int{7, 14, 21, 28}

const dateLayout = "2006-01-02"

// ActivitySource es lo único que el barrido necesita del repo de actividades.
type ActivitySource interface {
	ListStartingOn(ctx context.Context, date string) ([]activities.Activity, error)
}

type Sweeper struct {
	source   ActivitySource
	users    identity.Provider // puede ser nil: solo se notifica a pendientes
	notifier notify.Notifier
	replyTo  string
	log      logger.Logger
	now      func() time.Time
}

func NewSweeper(source ActivitySource, users identity.Provider, notifier notify.Notifier, replyTo string, log logger.Logger) *Sweeper {
	return &Sweeper{
		source:   source,
		users:    users,
		notifier: notifier,
		replyTo:  replyTo,
		log:      log,
		now:      time.Now,
	}
}

// Run hace una pasada completa. Siempre devuelve nil: los errores por
// actividad/destinatario se loguean y no frenan el resto.
func (s *Sweeper) Run(ctx context.Context) error {
	today := s.now().UTC()

	for _, days := range Offsets {
		date := today.AddDate(0, 0, days).Format(dateLayout)

		items, err := s.source.ListStartingOn(ctx, date)
		if err != nil {
			s.log.Error("reminders: list activities failed", map[string]any{
				"date": date, "error": err.Error(),
			})
			continue
		}

		for _, a := range items {
			s.remind(ctx, a, days)
		}
	}
	return nil
}

func (s *Sweeper) remind(ctx context.Context, a activities.Activity, days int) {
	recipients := s.recipients(ctx, a)

	subject := fmt.Sprintf("Reminder: %s starts in %d days", a.Name, days)
	body := []string{
		fmt.Sprintf("Your activity %q starts on %s.", a.Name, a.StartDate),
	}
	if a.Location != "" {
		body = append(body, fmt.Sprintf("Location: %s", a.Location))
	}
	if a.StartTime != "" {
		body = append(body, fmt.Sprintf("Start time: %s", a.StartTime))
	}

	for _, to := range recipients {
		err := s.notifier.Send(ctx, notify.Message{
			To:        to,
			ReplyTo:   s.replyTo,
			Subject:   subject,
			BodyLines: body,
		})
		if err != nil {
			s.log.Warn("reminders: send failed", map[string]any{
				"activity": a.ID, "to": to, "error": err.Error(),
			})
		}
	}
}

// recipients junta los emails pendientes tal cual y resuelve los UIDs contra
// el proveedor de identidad. Si el lookup falla, se notifica solo a los
// pendientes (mejor parcial que nada).
func (s *Sweeper) recipients(ctx context.Context, a activities.Activity) []string {
	out := make([]string, 0, len(a.People.ByEmail)+len(a.People.ByUID))
	for email := range a.People.ByEmail {
		out = append(out, email)
	}

	if s.users == nil || len(a.People.ByUID) == 0 {
		return out
	}

	refs := make([]identity.Ref, 0, len(a.People.ByUID))
	for uid := range a.People.ByUID {
		refs = append(refs, identity.Ref{UID: uid})
	}

	res, err := s.users.Lookup(ctx, refs)
	if err != nil {
		s.log.Warn("reminders: identity lookup failed", map[string]any{
			"activity": a.ID, "error": err.Error(),
		})
		return out
	}

	for _, u := range res.Found {
		if u.Email != "" {
			out = append(out, u.Email)
		}
	}
	return out
}
