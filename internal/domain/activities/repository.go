package activities

import "context"

// Repository es el contrato mínimo contra el document store.
// Update reemplaza el documento completo; no hay CAS.
// GetByID y Update devuelven un error que envuelve ErrNotFound cuando el
// documento no existe; cualquier otro error es de infraestructura.
type Repository interface {
	Create(ctx context.Context, a Activity) error
	GetByID(ctx context.Context, id string) (Activity, error)
	Update(ctx context.Context, a Activity) error

	// ListByMember: actividades donde uid aparece en el mapa por UID.
	ListByMember(ctx context.Context, uid string) ([]Activity, error)

	// ListByPendingEmail: actividades con una invitación pendiente para email.
	ListByPendingEmail(ctx context.Context, email string) ([]Activity, error)

	// ListStartingOn: actividades con startDate igual a date (YYYY-MM-DD).
	// Lo usa el barrido de recordatorios.
	ListStartingOn(ctx context.Context, date string) ([]Activity, error)
}
