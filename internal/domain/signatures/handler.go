package signatures

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
	r.Route("/activities/{activityID}/signatures", func(sr chi.Router) {
		sr.Get("/", listSignaturesHandler(svc))
		sr.Put("/", setSignatureHandler(svc))
	})
}

type signatureResponse struct {
	UID          string    `json:"uid"`
	SignedName   string    `json:"signedName"`
	ImageDataURL string    `json:"imageDataURL,omitempty"`
	SignedAt     time.Time `json:"signedAt"`
}

func toSignatureResponse(sig Signature) signatureResponse {
	return signatureResponse{
		UID:          sig.UID,
		SignedName:   sig.SignedName,
		ImageDataURL: sig.ImageDataURL,
		SignedAt:     sig.SignedAt,
	}
}

func listSignaturesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.List(r.Context(), claims, chi.URLParam(r, "activityID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]signatureResponse, 0, len(items))
		for _, sig := range items {
			out = append(out, toSignatureResponse(sig))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func setSignatureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sig, err := svc.Set(r.Context(), claims, chi.URLParam(r, "activityID"), payload)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSignatureResponse(sig))
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
