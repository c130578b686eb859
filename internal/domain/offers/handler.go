package offers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-services-marketplace/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta accept/reject y el listado propio del prestador.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/offers/{offerID}", func(or chi.Router) {
		or.Post("/accept", acceptOfferHandler(svc))
		or.Post("/reject", rejectOfferHandler(svc))
	})

	r.Get("/me/offers", listMineHandler(svc))
}

// RegisterRequestRoutes cuelga crear/listar ofertas bajo /requests/{requestID}.
func RegisterRequestRoutes(rr chi.Router, svc *Service) {
	rr.Post("/offers", createOfferHandler(svc))
	rr.Get("/offers", listByRequestHandler(svc))
}

type createOfferRequest struct {
	Message    string `json:"message"`
	PriceCents int    `json:"price_cents"`
}

type offerResponse struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	GiverUserID string    `json:"giver_user_id"`
	Message     string    `json:"message"`
	PriceCents  int       `json:"price_cents"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type acceptOfferResponse struct {
	Offer     offerResponse `json:"offer"`
	BookingID string        `json:"booking_id"`
}

func createOfferHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Create(r.Context(), chi.URLParam(r, "requestID"), claims.UserID, CreateInput{
			Message:    req.Message,
			PriceCents: req.PriceCents,
		})
		if err != nil {
			writeOfferError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toOfferResponse(o))
	}
}

func listByRequestHandler(svc *Service) http.HandlerFunc {
	// Solo el owner del pedido ve las ofertas recibidas.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByRequest(r.Context(), chi.URLParam(r, "requestID"), claims.UserID)
		if err != nil {
			writeOfferError(w, err)
			return
		}

		out := make([]offerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOfferResponse(o))
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

		items, err := svc.ListByGiver(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]offerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOfferResponse(o))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func acceptOfferHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		o, bookingID, err := svc.Accept(r.Context(), chi.URLParam(r, "offerID"), claims.UserID)
		if err != nil {
			writeOfferError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, acceptOfferResponse{
			Offer:     toOfferResponse(o),
			BookingID: bookingID,
		})
	}
}

func rejectOfferHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		o, err := svc.Reject(r.Context(), chi.URLParam(r, "offerID"), claims.UserID)
		if err != nil {
			writeOfferError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOfferResponse(o))
	}
}

func writeOfferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "offer not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotAGiver):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrOwnRequest):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrRequestNotOpen), errors.Is(err, ErrNotPending):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toOfferResponse(o ServiceOffer) offerResponse {
	return offerResponse{
		ID:          o.ID,
		RequestID:   o.RequestID,
		GiverUserID: o.GiverUserID,
		Message:     o.Message,
		PriceCents:  o.PriceCents,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
