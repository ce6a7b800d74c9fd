package profiles

import "time"

// Profile es el documento compañero de cada cuenta: datos personales que las
// actividades no guardan (teléfono, contacto de emergencia, preferencias).
type Profile struct {
	UID string

	DisplayName string
	Email       string
	Phone       string

	EmergencyName  string
	EmergencyPhone string

	SubscribeReminders bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
