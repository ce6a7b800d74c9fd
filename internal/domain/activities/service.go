package activities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"activity-planner/internal/ports/auth"
	"activity-planner/internal/ports/identity"
	"activity-planner/internal/rules"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	users identity.Provider // puede ser nil (modo dev): todo email cuenta como pendiente
	now   func() time.Time
}

func NewService(repo Repository, users identity.Provider) *Service {
	return &Service{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

// authorize es el prólogo común de todos los handlers de actividad:
// autenticado → email verificado → id presente → actividad existe → acceso
// (con promoción lazy de invitación pendiente) → permiso de edición si aplica.
// La promoción se escribe al toque y no se revierte si un paso posterior
// falla: ganar acceso es deseable aunque la mutación puntual no salga.
func (s *Service) authorize(ctx context.Context, activityID string, c auth.Claims, edit bool) (Activity, Role, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return Activity{}, "", ErrUnauthenticated
	}
	if !c.EmailVerified {
		return Activity{}, "", ErrNotVerified
	}

	activityID = strings.TrimSpace(activityID)
	if activityID == "" {
		return Activity{}, "", fmt.Errorf("%w: activity id required", ErrInvalidInput)
	}

	a, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		// Solo el sentinel del repo se vuelve 404; un fallo de infraestructura
		// sube tal cual.
		if errors.Is(err, ErrNotFound) {
			return Activity{}, "", fmt.Errorf("activity %s: %w", activityID, ErrNotFound)
		}
		return Activity{}, "", err
	}

	role, ok := a.People.RoleOf(c.UserID)
	if !ok {
		// Promoción lazy: primera vez que entra alguien invitado por email.
		email := normalizeEmail(c.Email)
		if email == "" || !a.People.Promote(email, c.UserID) {
			return Activity{}, "", fmt.Errorf("%w: no access to activity %s", ErrForbidden, activityID)
		}
		a.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, a); err != nil {
			return Activity{}, "", err
		}
		role, _ = a.People.RoleOf(c.UserID)
	}

	if edit && !role.CanEdit() {
		return Activity{}, "", fmt.Errorf("%w: %s role cannot edit", ErrForbidden, role)
	}

	return a, role, nil
}

// Authorize expone el guard a los módulos hermanos (risks, tables,
// signatures) sin ciclos de imports.
func (s *Service) Authorize(ctx context.Context, activityID string, c auth.Claims, edit bool) error {
	_, _, err := s.authorize(ctx, activityID, c, edit)
	return err
}

// List devuelve las actividades donde el usuario tiene alguna entrada por UID.
func (s *Service) List(ctx context.Context, c auth.Claims) ([]Summary, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return nil, ErrUnauthenticated
	}

	items, err := s.repo.ListByMember(ctx, c.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(items))
	for _, a := range items {
		role, _ := a.People.RoleOf(c.UserID)
		out = append(out, Summary{ID: a.ID, Name: a.Name, Role: role})
	}
	return out, nil
}

func overviewFields(payload map[string]any, nameRequired bool) []rules.Field {
	nameRules := []rules.Rule{rules.String()}
	if nameRequired {
		nameRules = []rules.Rule{rules.Defined(), rules.String()}
	}
	return []rules.Field{
		rules.F("name", payload["name"], nameRules...),
		rules.F("location", payload["location"], rules.String()),
		rules.F("startDate", payload["startDate"], rules.String()),
		rules.F("startTime", payload["startTime"], rules.String()),
		rules.F("endDate", payload["endDate"], rules.String()),
		rules.F("endTime", payload["endTime"], rules.String()),
	}
}

// Create valida el payload, resuelve la gente contra el proveedor de
// identidad y crea la actividad. Si no viene people, el creador queda como
// único Editor.
func (s *Service) Create(ctx context.Context, c auth.Claims, payload map[string]any) (Activity, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return Activity{}, ErrUnauthenticated
	}
	if !c.EmailVerified {
		return Activity{}, ErrNotVerified
	}
	if payload == nil {
		return Activity{}, fmt.Errorf("%w: no parameters provided", ErrInvalidInput)
	}

	if _, err := rules.Check(overviewFields(payload, true), false); err != nil {
		return Activity{}, err
	}

	now := s.now()
	a := Activity{
		ID:        uuid.NewString(),
		People:    NewRoleMap(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyOverview(&a, payload)

	peopleRaw, hasPeople := payload["people"]
	if !hasPeople || peopleRaw == nil {
		a.People.ByUID[c.UserID] = RoleEditor
	} else {
		if err := s.resolvePeople(ctx, &a.People, peopleRaw); err != nil {
			return Activity{}, err
		}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// resolvePeople valida la lista {email, role}, exige exactamente un Activity
// Leader y la parte en dos mapas según quién ya tiene cuenta.
func (s *Service) resolvePeople(ctx context.Context, m *RoleMap, raw any) error {
	fields := []rules.Field{
		rules.F("people", raw, rules.Defined(), rules.Array(), rules.People(RoleNames()...)),
	}
	if _, err := rules.Check(fields, false); err != nil {
		return err
	}

	items := raw.([]any)
	leaders := 0
	byEmail := map[string]Role{}
	for _, item := range items {
		obj := item.(map[string]any)
		email := normalizeEmail(obj["email"].(string))
		role := Role(obj["role"].(string))
		if role == RoleActivityLeader {
			leaders++
		}
		byEmail[email] = role
	}
	if leaders != 1 {
		return fmt.Errorf("%w: there must be one Activity Leader", ErrInvalidInput)
	}

	refs := make([]identity.Ref, 0, len(byEmail))
	for email := range byEmail {
		refs = append(refs, identity.Ref{Email: email})
	}

	res, err := s.lookup(ctx, refs)
	if err != nil {
		return err
	}

	for _, u := range res.Found {
		m.ByUID[u.UID] = byEmail[normalizeEmail(u.Email)]
	}
	for _, r := range res.NotFound {
		m.ByEmail[normalizeEmail(r.Email)] = byEmail[normalizeEmail(r.Email)]
	}

	if m.EditorCount() == 0 {
		return fmt.Errorf("%w: at least one person with an Activity Leader, Editor or Assisting role must currently have an account", ErrInvalidInput)
	}
	return nil
}

// lookup tolera users == nil (modo dev): nadie tiene cuenta.
func (s *Service) lookup(ctx context.Context, refs []identity.Ref) (identity.Result, error) {
	if s.users == nil {
		return identity.Result{NotFound: refs}, nil
	}
	return s.users.Lookup(ctx, refs)
}

// OverviewGet devuelve los campos de overview. Requiere acceso de lectura.
func (s *Service) OverviewGet(ctx context.Context, c auth.Claims, activityID string) (Overview, error) {
	a, _, err := s.authorize(ctx, activityID, c, false)
	if err != nil {
		return Overview{}, err
	}
	return a.Overview(), nil
}

// OverviewSet es un update parcial: solo toca los campos presentes (no nil).
// El guard corre antes que la validación de campos.
func (s *Service) OverviewSet(ctx context.Context, c auth.Claims, activityID string, payload map[string]any) error {
	a, _, err := s.authorize(ctx, activityID, c, true)
	if err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("%w: no parameters provided", ErrInvalidInput)
	}

	// name solo es obligatorio si viene en el payload (no se puede dejar en blanco)
	_, nameGiven := payload["name"]
	nameGiven = nameGiven && payload["name"] != nil
	if _, err := rules.Check(overviewFields(payload, nameGiven), false); err != nil {
		return err
	}

	applyOverview(&a, payload)
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

func applyOverview(a *Activity, payload map[string]any) {
	set := func(dst *string, key string) {
		if v, ok := payload[key].(string); ok {
			*dst = v
		}
	}
	set(&a.Name, "name")
	set(&a.Location, "location")
	set(&a.StartDate, "startDate")
	set(&a.StartTime, "startTime")
	set(&a.EndDate, "endDate")
	set(&a.EndTime, "endTime")
}

// Person es una entrada del RoleMap resuelta para la UI.
type Person struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	Role        Role
	Pending     bool
}

// PeopleGet resuelve el RoleMap completo contra el proveedor de identidad.
func (s *Service) PeopleGet(ctx context.Context, c auth.Claims, activityID string) ([]Person, error) {
	a, _, err := s.authorize(ctx, activityID, c, false)
	if err != nil {
		return nil, err
	}

	refs := make([]identity.Ref, 0, len(a.People.ByUID))
	for uid := range a.People.ByUID {
		refs = append(refs, identity.Ref{UID: uid})
	}

	res, err := s.lookup(ctx, refs)
	if err != nil {
		return nil, err
	}

	found := map[string]identity.User{}
	for _, u := range res.Found {
		found[u.UID] = u
	}

	out := make([]Person, 0, len(a.People.ByUID)+len(a.People.ByEmail))
	for uid, role := range a.People.ByUID {
		p := Person{UID: uid, Role: role}
		if u, ok := found[uid]; ok {
			p.Email = u.Email
			p.DisplayName = u.DisplayName
			p.PhotoURL = u.PhotoURL
		}
		out = append(out, p)
	}
	for email, role := range a.People.ByEmail {
		out = append(out, Person{Email: email, Role: role, Pending: true})
	}
	return out, nil
}

// SetRoleInput: ref por uid o email; Role nil revoca el acceso.
type SetRoleInput struct {
	UID   string
	Email string
	Role  *Role
}

// SetRole aplica un cambio de rol cuidando los dos invariantes estructurales:
// a lo sumo un Activity Leader (union de ambos mapas) y al menos una cuenta
// registrada con rol de edición.
func (s *Service) SetRole(ctx context.Context, c auth.Claims, activityID string, in SetRoleInput) error {
	a, _, err := s.authorize(ctx, activityID, c, true)
	if err != nil {
		return err
	}

	ref := RefUID(in.UID)
	if ref.IsZero() {
		ref = RefEmail(in.Email)
	}
	if ref.IsZero() {
		return fmt.Errorf("%w: uid or email required", ErrInvalidInput)
	}

	var staleEmail PrincipalRef
	if ref.Email != "" {
		fields := []rules.Field{rules.F("email", ref.Email, rules.String(), rules.Email())}
		if _, err := rules.Check(fields, false); err != nil {
			return err
		}
		// Si el email ya tiene cuenta, la asignación va directo al mapa por
		// UID y la entrada pendiente con ese email (si la hay) queda obsoleta.
		res, err := s.lookup(ctx, []identity.Ref{{Email: ref.Email}})
		if err != nil {
			return err
		}
		if len(res.Found) > 0 {
			staleEmail = ref
			ref = RefUID(res.Found[0].UID)
		}
	}

	if in.Role != nil && !in.Role.Valid() {
		return &rules.ValidationError{Field: "role", Kind: rules.KindEnum}
	}

	next := a.People.Clone()
	// Los dos mapas son disjuntos: al conocerse la cuenta, el email sale del
	// mapa de pendientes; la misma persona nunca queda en ambos.
	if !staleEmail.IsZero() {
		next.Delete(staleEmail)
	}

	// Un solo Activity Leader, mirando uid + email. Reasignar al holder
	// actual es no-op válido; cualquier otro destino exige limpiar primero.
	if in.Role != nil && *in.Role == RoleActivityLeader &&
		next.HasActivityLeader() && !next.HoldsRole(ref, RoleActivityLeader) {
		return fmt.Errorf("%w: there must be one Activity Leader", ErrInvalidInput)
	}

	if in.Role == nil {
		next.Delete(ref)
	} else {
		next.Set(ref, *in.Role)
	}

	// Nunca dejar la actividad sin una cuenta registrada que pueda editar.
	if next.EditorCount() == 0 {
		return fmt.Errorf("%w: at least one account holder must keep an editing role", ErrForbidden)
	}

	a.People = next
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

// LookupEntry es el resultado por email de LookupUsers.
type LookupEntry struct {
	UserExists  bool
	Email       string
	DisplayName string
	PhotoURL    string
}

// LookupUsers expone el batch lookup del proveedor de identidad (lo usa el
// cliente para armar la lista de gente antes de crear la actividad).
func (s *Service) LookupUsers(ctx context.Context, c auth.Claims, payload map[string]any) ([]LookupEntry, error) {
	if strings.TrimSpace(c.UserID) == "" {
		return nil, ErrUnauthenticated
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: no parameters provided", ErrInvalidInput)
	}

	fields := []rules.Field{
		rules.F("emails", payload["emails"], rules.Defined(), rules.Array()),
	}
	if _, err := rules.Check(fields, false); err != nil {
		return nil, err
	}

	items := payload["emails"].([]any)
	refs := make([]identity.Ref, 0, len(items))
	for _, item := range items {
		email, ok := item.(string)
		if !ok {
			return nil, &rules.ValidationError{Field: "emails", Kind: rules.KindString}
		}
		refs = append(refs, identity.Ref{Email: normalizeEmail(email)})
	}

	res, err := s.lookup(ctx, refs)
	if err != nil {
		return nil, err
	}

	out := make([]LookupEntry, 0, len(refs))
	for _, u := range res.Found {
		out = append(out, LookupEntry{
			UserExists:  true,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			PhotoURL:    u.PhotoURL,
		})
	}
	for _, r := range res.NotFound {
		out = append(out, LookupEntry{Email: r.Email})
	}
	return out, nil
}

// PromotePendingInvites pasa todas las invitaciones pendientes de email al
// uid dado. Lo dispara el hook de registro; idempotente.
func (s *Service) PromotePendingInvites(ctx context.Context, uid, email string) error {
	uid = strings.TrimSpace(uid)
	email = normalizeEmail(email)
	if uid == "" || email == "" {
		return fmt.Errorf("%w: uid and email required", ErrInvalidInput)
	}

	items, err := s.repo.ListByPendingEmail(ctx, email)
	if err != nil {
		return err
	}

	for _, a := range items {
		if !a.People.Promote(email, uid) {
			continue
		}
		a.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
