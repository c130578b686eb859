package requests

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-services-marketplace/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta el browse de pedidos abiertos, el detalle, la
// cancelación y el listado propio. extra cuelga rutas anidadas de otros
// módulos bajo /requests/{requestID} (las ofertas).
func RegisterRoutes(r chi.Router, svc *Service, extra func(chi.Router)) {
	r.Route("/requests", func(rr chi.Router) {
		rr.Get("/", listOpenHandler(svc))

		rr.Route("/{requestID}", func(idr chi.Router) {
			idr.Get("/", getRequestHandler(svc))
			idr.Post("/cancel", cancelRequestHandler(svc))

			if extra != nil {
				extra(idr)
			}
		})
	})

	r.Get("/me/requests", listMineHandler(svc))
}

// RegisterPetRoutes cuelga la creación de pedidos bajo /pets/{petID}.
func RegisterPetRoutes(pr chi.Router, svc *Service) {
	pr.Post("/requests", createRequestHandler(svc))
}

type createRequestRequest struct {
	Type            string    `json:"type"` // walk | grooming | boarding | training
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
}

type requestResponse struct {
	ID              string    `json:"id"`
	PetID           string    `json:"pet_id"`
	OwnerUserID     string    `json:"owner_user_id"`
	Type            string    `json:"type"`
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func createRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sr, err := svc.Create(r.Context(), chi.URLParam(r, "petID"), claims.UserID, CreateInput{
			Type:            ServiceType(req.Type),
			StartAt:         req.StartAt,
			DurationMinutes: req.DurationMinutes,
			Location:        req.Location,
			Notes:           req.Notes,
		})
		if err != nil {
			writeRequestError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRequestResponse(sr))
	}
}

func listOpenHandler(svc *Service) http.HandlerFunc {
	// Browse de prestadores: solo pedidos abiertos, filtrables por tipo.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if st := r.URL.Query().Get("status"); st != "" && st != string(StatusOpen) {
			http.Error(w, "only status=open is supported", http.StatusBadRequest)
			return
		}

		items, err := svc.ListOpen(r.Context(), ListFilter{
			Type: ServiceType(r.URL.Query().Get("type")),
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid type filter", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, sr := range items {
			out = append(out, toRequestResponse(sr))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, sr := range items {
			out = append(out, toRequestResponse(sr))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sr, err := svc.GetByID(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil {
			http.Error(w, "request not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(sr))
	}
}

func cancelRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sr, err := svc.Cancel(r.Context(), chi.URLParam(r, "requestID"), claims.UserID)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(sr))
	}
}

func writeRequestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "request not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toRequestResponse(sr ServiceRequest) requestResponse {
	return requestResponse{
		ID:              sr.ID,
		PetID:           sr.PetID,
		OwnerUserID:     sr.OwnerUserID,
		Type:            string(sr.Type),
		StartAt:         sr.StartAt,
		DurationMinutes: sr.DurationMinutes,
		Location:        sr.Location,
		Notes:           sr.Notes,
		Status:          string(sr.Status),
		CreatedAt:       sr.CreatedAt,
		UpdatedAt:       sr.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
