package activities

import "errors"

// Taxonomía de errores compartida por todos los módulos de actividad.
// El mapping a HTTP vive en cada handler.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotVerified     = errors.New("email not verified")
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
)
