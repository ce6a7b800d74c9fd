package signatures

import "time"

// Signature es la firma digital de una persona sobre una actividad.
// Una por (actividad, uid); re-firmar reemplaza la anterior.
type Signature struct {
	ActivityID string
	UID        string

	SignedName string
	// Data URL del trazo (image/png;base64). Opcional: hay clientes que solo
	// mandan el nombre tipeado.
	ImageDataURL string

	SignedAt time.Time
}
