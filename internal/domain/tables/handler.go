package tables

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
	r.Route("/activities/{activityID}/tables/{kind}/rows", func(tr chi.Router) {
		tr.Get("/", listRowsHandler(svc))
		tr.Put("/", putRowHandler(svc))
		tr.Delete("/{rowID}", deleteRowHandler(svc))
	})
}

type rowResponse struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Position  int               `json:"position"`
	Cells     map[string]string `json:"cells"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func toRowResponse(row Row) rowResponse {
	cells := row.Cells
	if cells == nil {
		cells = map[string]string{}
	}
	return rowResponse{
		ID:        row.ID,
		Kind:      row.Kind,
		Position:  row.Position,
		Cells:     cells,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func listRowsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims, chi.URLParam(r, "activityID"), chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]rowResponse, 0, len(items))
		for _, row := range items {
			out = append(out, toRowResponse(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func putRowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		row, err := svc.Put(r.Context(), claims, chi.URLParam(r, "activityID"), chi.URLParam(r, "kind"), payload)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRowResponse(row))
	}
}

func deleteRowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		err := svc.Delete(r.Context(), claims,
			chi.URLParam(r, "activityID"), chi.URLParam(r, "kind"), chi.URLParam(r, "rowID"))
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
