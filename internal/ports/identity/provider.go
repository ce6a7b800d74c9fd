package identity

import "context"

// Ref identifica a una persona por UID o por email (uno de los dos).
type Ref struct {
	UID   string
	Email string
}

// User es el perfil mínimo que expone el proveedor de identidad.
type User struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Result separa los refs resueltos de los que no tienen cuenta todavía.
type Result struct {
	Found    []User
	NotFound []Ref
}

// Provider es el lookup batch por email/uid contra el proveedor de identidad.
// No cachea; cada llamada va al upstream.
type Provider interface {
	Lookup(ctx context.Context, refs []Ref) (Result, error)
}
