package activities

import (
	"encoding/json"
	"errors"
	"net/http"

	"activity-planner/internal/middleware"
	"activity-planner/internal/rules"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/activities", func(ar chi.Router) {
		ar.Get("/", listActivitiesHandler(svc))
		ar.Post("/", createActivityHandler(svc))

		ar.Route("/{activityID}", func(ir chi.Router) {
			ir.Get("/overview", overviewGetHandler(svc))
			ir.Put("/overview", overviewSetHandler(svc))
			ir.Get("/people", peopleGetHandler(svc))
			ir.Put("/people", setRoleHandler(svc))
		})
	})

	r.Post("/users/lookup", lookupUsersHandler(svc))
}

type summaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type overviewResponse struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	StartTime string `json:"startTime"`
	EndDate   string `json:"endDate"`
	EndTime   string `json:"endTime"`
}

type personResponse struct {
	UID         string `json:"uid,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	Role        Role   `json:"role"`
	Pending     bool   `json:"pending,omitempty"`
}

type setRoleRequest struct {
	UID   string  `json:"uid"`
	Email string  `json:"email"`
	Role  *string `json:"role"` // null => revocar
}

type lookupUserResponse struct {
	UserExists  bool   `json:"userExists"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// listActivitiesHandler godoc
// @Summary Listar actividades del usuario
// @Description Devuelve id, nombre y rol de cada actividad donde el usuario tiene acceso. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags activities
// @Produce json
// @Success 200 {array} summaryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /activities [get]
func listActivitiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]summaryResponse, 0, len(items))
		for _, it := range items {
			out = append(out, summaryResponse{ID: it.ID, Name: it.Name, Role: it.Role})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createActivityHandler godoc
// @Summary Crear actividad
// @Description Crea una actividad con overview y lista opcional de gente {email, role}. Si viene people, debe haber exactamente un Activity Leader y al menos una cuenta registrada con rol de edición. Sin people, el creador queda como Editor.
// @Tags activities
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string
// @Failure 400 {string} string "payload inválido / invariantes"
// @Failure 401 {string} string "unauthorized"
// @Router /activities [post]
func createActivityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		payload, err := decodePayload(r)
		if err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims, payload)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID})
	}
}

func overviewGetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		ov, err := svc.OverviewGet(r.Context(), claims, chi.URLParam(r, "activityID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, overviewResponse(ov))
	}
}

func overviewSetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		payload, err := decodePayload(r)
		if err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.OverviewSet(r.Context(), claims, chi.URLParam(r, "activityID"), payload); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func peopleGetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		people, err := svc.PeopleGet(r.Context(), claims, chi.URLParam(r, "activityID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]personResponse, 0, len(people))
		for _, p := range people {
			out = append(out, personResponse{
				UID:         p.UID,
				Email:       p.Email,
				DisplayName: p.DisplayName,
				PhotoURL:    p.PhotoURL,
				Role:        p.Role,
				Pending:     p.Pending,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// setRoleHandler godoc
// @Summary Asignar o revocar rol
// @Description Asigna role al uid o email dado; role null revoca el acceso. Rechaza un segundo Activity Leader (400) y cualquier cambio que deje la actividad sin cuentas con rol de edición (403).
// @Tags activities
// @Accept json
// @Produce json
// @Param activityID path string true "ID de la actividad"
// @Param payload body setRoleRequest true "uid o email + role (null revoca)"
// @Success 200 {object} map[string]bool
// @Failure 400 {string} string "rol inválido / segundo Activity Leader"
// @Failure 403 {string} string "sin permiso de edición / último editor"
// @Router /activities/{activityID}/people [put]
func setRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req setRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := SetRoleInput{UID: req.UID, Email: req.Email}
		if req.Role != nil {
			role := Role(*req.Role)
			in.Role = &role
		}

		if err := svc.SetRole(r.Context(), claims, chi.URLParam(r, "activityID"), in); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func lookupUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		payload, err := decodePayload(r)
		if err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		entries, err := svc.LookupUsers(r.Context(), claims, payload)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]lookupUserResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, lookupUserResponse{
				UserExists:  e.UserExists,
				Email:       e.Email,
				DisplayName: e.DisplayName,
				PhotoURL:    e.PhotoURL,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func decodePayload(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mapea la taxonomía de errores a HTTP.
func writeError(w http.ResponseWriter, err error) {
	var verr *rules.ValidationError
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotVerified):
		http.Error(w, "email not verified", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput), errors.As(err, &verr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
