package risks

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/middleware"
	"activity-planner/internal/rules"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/activities/{activityID}/risks", func(rr chi.Router) {
		rr.Get("/", listRisksHandler(svc))
		rr.Put("/", putRiskHandler(svc))
		rr.Delete("/{riskID}", deleteRiskHandler(svc))
	})
}

type riskResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Likelihood  string    `json:"likelihood,omitempty"`
	Consequence string    `json:"consequence,omitempty"`
	Mitigation  string    `json:"mitigation,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toRiskResponse(e Entry) riskResponse {
	return riskResponse{
		ID:          e.ID,
		Description: e.Description,
		Likelihood:  e.Likelihood,
		Consequence: e.Consequence,
		Mitigation:  e.Mitigation,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func listRisksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims, chi.URLParam(r, "activityID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]riskResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toRiskResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// putRiskHandler godoc
// @Summary Crear o actualizar fila de riesgo
// @Description Sin id crea una fila nueva; con id actualiza la existente. likelihood y consequence validan contra las escalas de la matriz.
// @Tags risks
// @Accept json
// @Produce json
// @Param activityID path string true "ID de la actividad"
// @Success 200 {object} riskResponse
// @Failure 400 {string} string "campo inválido"
// @Failure 403 {string} string "sin permiso de edición"
// @Router /activities/{activityID}/risks [put]
func putRiskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Put(r.Context(), claims, chi.URLParam(r, "activityID"), payload)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRiskResponse(e))
	}
}

func deleteRiskHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		err := svc.Delete(r.Context(), claims, chi.URLParam(r, "activityID"), chi.URLParam(r, "riskID"))
		if err != nil {
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
