package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-services-marketplace/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta el ciclo de vida del engagement: start, complete,
// cancel y la calificación del owner.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/bookings/{bookingID}", func(br chi.Router) {
		br.Get("/", getBookingHandler(svc))
		br.Post("/start", startBookingHandler(svc))
		br.Post("/complete", completeBookingHandler(svc))
		br.Post("/cancel", cancelBookingHandler(svc))
		br.Post("/rate", rateBookingHandler(svc))
	})

	r.Get("/me/bookings", listMineHandler(svc))
}

type completeBookingRequest struct {
	PhotoURLs []string `json:"photo_urls"`
}

type rateBookingRequest struct {
	Rating   int `json:"rating"` // 1..5
	TipCents int `json:"tip_cents"`
}

type bookingResponse struct {
	ID              string     `json:"id"`
	RequestID       string     `json:"request_id"`
	OfferID         string     `json:"offer_id"`
	OwnerUserID     string     `json:"owner_user_id"`
	GiverUserID     string     `json:"giver_user_id"`
	PetID           string     `json:"pet_id"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Location        string     `json:"location"`
	PriceCents      int        `json:"price_cents"`
	PhotoURLs       []string   `json:"photo_urls"`
	Status          string     `json:"status"`
	Rating          int        `json:"rating"`
	TipCents        int        `json:"tip_cents"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func getBookingHandler(svc *Service) http.HandlerFunc {
	// Solo owner o giver del booking pueden verlo.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		b, err := svc.GetForUser(r.Context(), chi.URLParam(r, "bookingID"), claims.UserID)
		if err != nil {
			writeBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]bookingResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBookingResponse(b))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func startBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		b, err := svc.Start(r.Context(), chi.URLParam(r, "bookingID"), claims.UserID)
		if err != nil {
			writeBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func completeBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Body opcional: el giver puede adjuntar fotos del servicio.
		var req completeBookingRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		b, err := svc.Complete(r.Context(), chi.URLParam(r, "bookingID"), claims.UserID, CompleteInput{
			PhotoURLs: req.PhotoURLs,
		})
		if err != nil {
			writeBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func cancelBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		b, err := svc.Cancel(r.Context(), chi.URLParam(r, "bookingID"), claims.UserID)
		if err != nil {
			writeBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func rateBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req rateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		b, err := svc.Rate(r.Context(), chi.URLParam(r, "bookingID"), claims.UserID, RateInput{
			Rating:   req.Rating,
			TipCents: req.TipCents,
		})
		if err != nil {
			writeBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotCompleted), errors.Is(err, ErrAlreadyRated):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toBookingResponse(b Booking) bookingResponse {
	photos := b.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return bookingResponse{
		ID:              b.ID,
		RequestID:       b.RequestID,
		OfferID:         b.OfferID,
		OwnerUserID:     b.OwnerUserID,
		GiverUserID:     b.GiverUserID,
		PetID:           b.PetID,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		DurationMinutes: b.DurationMinutes,
		Location:        b.Location,
		PriceCents:      b.PriceCents,
		PhotoURLs:       photos,
		Status:          string(b.Status),
		Rating:          b.Rating,
		TipCents:        b.TipCents,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
