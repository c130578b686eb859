package verifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-services-marketplace/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta el trámite de verificación de identidad de prestadores.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/verifications", func(vr chi.Router) {
		vr.Post("/", submitHandler(svc))
		vr.Post("/{verificationID}/approve", approveHandler(svc))
		vr.Post("/{verificationID}/reject", rejectHandler(svc))
	})

	r.Get("/me/verification", getMineHandler(svc))
}

type submitRequest struct {
	IDDocumentURL string `json:"id_document_url"`
	SelfieURL     string `json:"selfie_url"`
}

type verificationResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	IDDocumentURL  string     `json:"id_document_url"`
	SelfieURL      string     `json:"selfie_url"`
	Status         string     `json:"status"`
	VerifierUserID string     `json:"verifier_user_id,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Submit(r.Context(), claims.UserID, SubmitInput{
			IDDocumentURL: req.IDDocumentURL,
			SelfieURL:     req.SelfieURL,
		})
		if err != nil {
			writeVerificationError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toVerificationResponse(v))
	}
}

func getMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		v, err := svc.GetByUser(r.Context(), claims.UserID)
		if err != nil {
			writeVerificationError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVerificationResponse(v))
	}
}

func approveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		v, err := svc.Approve(r.Context(), chi.URLParam(r, "verificationID"), claims.UserID)
		if err != nil {
			writeVerificationError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVerificationResponse(v))
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		v, err := svc.Reject(r.Context(), chi.URLParam(r, "verificationID"), claims.UserID)
		if err != nil {
			writeVerificationError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVerificationResponse(v))
	}
}

func writeVerificationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "verification not found", http.StatusNotFound)
	case errors.Is(err, ErrSelfReview):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotPending):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toVerificationResponse(v Verification) verificationResponse {
	return verificationResponse{
		ID:             v.ID,
		UserID:         v.UserID,
		IDDocumentURL:  v.IDDocumentURL,
		SelfieURL:      v.SelfieURL,
		Status:         string(v.Status),
		VerifierUserID: v.VerifierUserID,
		VerifiedAt:     v.VerifiedAt,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
