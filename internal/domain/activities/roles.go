package activities

import "strings"

// Role es el rol de una persona dentro de una actividad, ordenado por
// privilegio: Activity Leader > Editor ≈ Assisting > Viewer.
type Role string

const (
	RoleActivityLeader Role = "Activity Leader"
	RoleEditor         Role = "Editor"
	RoleAssisting      Role = "Assisting"
	RoleViewer         Role = "Viewer"
)

// RoleNames en el orden que espera el cliente (y las reglas enum/people).
func RoleNames() []string {
	return []string{
		string(RoleActivityLeader),
		string(RoleAssisting),
		string(RoleEditor),
		string(RoleViewer),
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleActivityLeader, RoleEditor, RoleAssisting, RoleViewer:
		return true
	default:
		return false
	}
}

// CanEdit: todos menos Viewer pueden mutar la actividad.
func (r Role) CanEdit() bool {
	switch r {
	case RoleActivityLeader, RoleEditor, RoleAssisting:
		return true
	default:
		return false
	}
}

// PrincipalRef identifica a una persona por UID (cuenta registrada) o por
// email (invitación pendiente). Uno solo de los dos.
type PrincipalRef struct {
	UID   string
	Email string
}

func RefUID(uid string) PrincipalRef     { return PrincipalRef{UID: strings.TrimSpace(uid)} }
func RefEmail(email string) PrincipalRef { return PrincipalRef{Email: normalizeEmail(email)} }

func (p PrincipalRef) IsZero() bool { return p.UID == "" && p.Email == "" }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleMap es el ACL por actividad: dos mapas disjuntos, uid→rol para cuentas
// registradas y email→rol para invitados pendientes.
type RoleMap struct {
	ByUID   map[string]Role
	ByEmail map[string]Role
}

func NewRoleMap() RoleMap {
	return RoleMap{
		ByUID:   map[string]Role{},
		ByEmail: map[string]Role{},
	}
}

func (m RoleMap) Clone() RoleMap {
	out := NewRoleMap()
	for k, v := range m.ByUID {
		out.ByUID[k] = v
	}
	for k, v := range m.ByEmail {
		out.ByEmail[k] = v
	}
	return out
}

func (m RoleMap) HasAccess(uid string) bool {
	_, ok := m.ByUID[uid]
	return ok
}

func (m RoleMap) RoleOf(uid string) (Role, bool) {
	r, ok := m.ByUID[uid]
	return r, ok
}

func (m RoleMap) CanEdit(uid string) bool {
	r, ok := m.ByUID[uid]
	return ok && r.CanEdit()
}

// EditorCount cuenta solo entradas por UID: una actividad nunca puede quedar
// editable únicamente por gente sin cuenta.
func (m RoleMap) EditorCount() int {
	n := 0
	for _, r := range m.ByUID {
		if r.CanEdit() {
			n++
		}
	}
	return n
}

// HasActivityLeader mira la unión de ambos mapas (incluye pendientes).
func (m RoleMap) HasActivityLeader() bool {
	for _, r := range m.ByUID {
		if r == RoleActivityLeader {
			return true
		}
	}
	for _, r := range m.ByEmail {
		if r == RoleActivityLeader {
			return true
		}
	}
	return false
}

// HoldsRole: el ref ya tiene exactamente ese rol.
func (m RoleMap) HoldsRole(ref PrincipalRef, role Role) bool {
	if ref.UID != "" {
		return m.ByUID[ref.UID] == role
	}
	if ref.Email != "" {
		return m.ByEmail[ref.Email] == role
	}
	return false
}

func (m RoleMap) Get(ref PrincipalRef) (Role, bool) {
	if ref.UID != "" {
		r, ok := m.ByUID[ref.UID]
		return r, ok
	}
	if ref.Email != "" {
		r, ok := m.ByEmail[ref.Email]
		return r, ok
	}
	return "", false
}

func (m RoleMap) Set(ref PrincipalRef, role Role) {
	if ref.UID != "" {
		m.ByUID[ref.UID] = role
		return
	}
	if ref.Email != "" {
		m.ByEmail[ref.Email] = role
	}
}

func (m RoleMap) Delete(ref PrincipalRef) {
	if ref.UID != "" {
		delete(m.ByUID, ref.UID)
		return
	}
	if ref.Email != "" {
		delete(m.ByEmail, ref.Email)
	}
}

// Promote mueve una entrada pendiente (email) a una registrada (uid),
// conservando el rol. Idempotente: si el uid ya está, solo limpia el email.
// Devuelve true si cambió algo.
func (m RoleMap) Promote(email, uid string) bool {
	email = normalizeEmail(email)
	uid = strings.TrimSpace(uid)
	if email == "" || uid == "" {
		return false
	}

	role, pending := m.ByEmail[email]
	if !pending {
		return false
	}

	if _, already := m.ByUID[uid]; !already {
		m.ByUID[uid] = role
	}
	delete(m.ByEmail, email)
	return true
}
