package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/middleware"
	"activity-planner/internal/rules"

	"github.com/go-chi/chi/v5"
)

// HookOptions protege POST /hooks/user-created: el proveedor de identidad
// manda el secret compartido en X-Hook-Secret. Secret vacío => hook abierto
// solo si DevMode (router sin verifier).
type HookOptions struct {
	Secret  string
	DevMode bool
}

func RegisterRoutes(r chi.Router, svc *Service, hook HookOptions) {
	r.Route("/me/profile", func(pr chi.Router) {
		pr.Get("/", getProfileHandler(svc))
		pr.Put("/", setProfileHandler(svc))
	})

	r.Post("/hooks/user-created", userCreatedHookHandler(svc, hook))
}

type profileResponse struct {
	UID                string            `json:"uid"`
	DisplayName        string            `json:"displayName,omitempty"`
	Email              string            `json:"email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	EmergencyContact   map[string]string `json:"emergencyContact,omitempty"`
	SubscribeReminders bool              `json:"subscribeReminders"`
}

func toProfileResponse(p Profile) profileResponse {
	out := profileResponse{
		UID:                p.UID,
		DisplayName:        p.DisplayName,
		Email:              p.Email,
		Phone:              p.Phone,
		SubscribeReminders: p.SubscribeReminders,
	}
	if p.EmergencyName != "" || p.EmergencyPhone != "" {
		out.EmergencyContact = map[string]string{
			"name":  p.EmergencyName,
			"phone": p.EmergencyPhone,
		}
	}
	return out
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		p, err := svc.Get(r.Context(), claims)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func setProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Set(r.Context(), claims, payload)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

type userCreatedRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func userCreatedHookHandler(svc *Service, hook HookOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := strings.TrimSpace(hook.Secret)
		if secret == "" && !hook.DevMode {
			http.Error(w, "hook disabled", http.StatusNotFound)
			return
		}
		if secret != "" && r.Header.Get("X-Hook-Secret") != secret {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req userCreatedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.Provision(r.Context(), req.UID, req.Email, req.DisplayName); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *rules.ValidationError
	switch {
	case errors.Is(err, activities.ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, activities.ErrNotVerified):
		http.Error(w, "email not verified", http.StatusForbidden)
	case errors.Is(err, activities.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, activities.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, activities.ErrInvalidInput), errors.As(err, &verr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
