package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-services-marketplace/internal/domain/users"
	"pet-services-marketplace/internal/middleware"
	"pet-services-marketplace/internal/ports/backend"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta los endpoints de auth y perfil propio.
// El flujo de sign-up crea el perfil de forma explícita e idempotente
// (EnsureProfile); sign-in lo re-asegura por si quedó a medias.
func RegisterRoutes(r chi.Router, auth backend.AuthClient, profiles *users.Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(auth, profiles))
		ar.Post("/signin", signInHandler(auth, profiles))
		ar.Post("/signout", signOutHandler(auth))
		ar.Get("/session", sessionHandler(profiles))
	})

	r.Route("/me/profile", func(mr chi.Router) {
		mr.Get("/", getProfileHandler(profiles))
		mr.Patch("/", updateProfileHandler(profiles))
	})
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // owner | giver
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string           `json:"access_token,omitempty"`
	TokenType   string           `json:"token_type,omitempty"`
	ExpiresIn   int              `json:"expires_in,omitempty"`
	User        identityResponse `json:"user"`
	Profile     *profileResponse `json:"profile,omitempty"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateProfileRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

func signUpHandler(auth backend.AuthClient, profiles *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		role := users.Role(strings.TrimSpace(req.Role))
		if role == "" {
			role = users.RoleOwner
		}
		if !users.ValidRole(role) {
			http.Error(w, "role must be owner or giver", http.StatusBadRequest)
			return
		}

		sess, err := auth.SignUp(r.Context(), req.Email, req.Password, map[string]string{
			"full_name": strings.TrimSpace(req.FullName),
			"role":      string(role),
		})
		if err != nil {
			writeBackendError(w, err)
			return
		}

		// Creación explícita del perfil, separada del sign-up del backend.
		// EnsureProfile es idempotente: repetir el flujo no duplica filas.
		profile, err := profiles.EnsureProfile(r.Context(), sess.User)
		if err != nil {
			http.Error(w, "could not create profile", http.StatusInternalServerError)
			return
		}

		pr := toProfileResponse(profile)
		writeJSON(w, http.StatusCreated, toSessionResponse(sess, &pr))
	}
}

func signInHandler(auth backend.AuthClient, profiles *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeBackendError(w, err)
			return
		}

		// Si el perfil quedó a medias en un sign-up anterior, lo repara.
		profile, err := profiles.EnsureProfile(r.Context(), sess.User)
		if err != nil {
			// Sin perfil igual devolvemos la sesión: el cliente puede reintentar.
			writeJSON(w, http.StatusOK, toSessionResponse(sess, nil))
			return
		}

		pr := toProfileResponse(profile)
		writeJSON(w, http.StatusOK, toSessionResponse(sess, &pr))
	}
}

func signOutHandler(auth backend.AuthClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := middleware.GetToken(r.Context())
		if !ok || token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := auth.SignOut(r.Context(), token); err != nil {
			writeBackendError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionHandler(profiles *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		resp := sessionResponse{
			User: identityResponse{ID: claims.UserID, Email: claims.Email},
		}
		if p, err := profiles.GetByID(r.Context(), claims.UserID); err == nil {
			pr := toProfileResponse(p)
			resp.Profile = &pr
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func getProfileHandler(profiles *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := profiles.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				http.Error(w, "profile not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func updateProfileHandler(profiles *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := profiles.UpdateProfile(r.Context(), claims.UserID, users.UpdateInput{
			FullName:  req.FullName,
			Phone:     req.Phone,
			AvatarURL: req.AvatarURL,
		})
		if err != nil {
			switch {
			case errors.Is(err, users.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, users.ErrNotFound):
				http.Error(w, "profile not found", http.StatusNotFound)
			default:
				writeBackendError(w, err)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func toSessionResponse(sess backend.Session, profile *profileResponse) sessionResponse {
	return sessionResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		ExpiresIn:   sess.ExpiresIn,
		User:        identityResponse{ID: sess.User.ID, Email: sess.User.Email},
		Profile:     profile,
	}
}

func toProfileResponse(p users.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Role:      string(p.Role),
		AvatarURL: p.AvatarURL,
		Verified:  p.Verified,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// writeBackendError traduce el *backend.Error al status y mensaje originales.
// Los errores del backend se devuelven sin envolver (mismo texto en live y demo).
func writeBackendError(w http.ResponseWriter, err error) {
	var be *backend.Error
	if errors.As(err, &be) {
		status := be.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		http.Error(w, be.Message, status)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
