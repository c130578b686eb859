package pets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"pet-services-marketplace/internal/middleware"
	"pet-services-marketplace/internal/ports/backend"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

// RegisterRoutes monta el CRUD de mascotas más el upload de avatar.
// extra permite colgar rutas anidadas de otros módulos bajo /pets/{petID}
// (los pedidos de servicio se crean contra una mascota).
func RegisterRoutes(r chi.Router, svc *Service, files backend.FileStore, bucket string, extra func(chi.Router)) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Route("/{petID}", func(ppr chi.Router) {
			ppr.Get("/", getPetHandler(svc))
			ppr.Patch("/", updatePetHandler(svc))
			ppr.Delete("/", deletePetHandler(svc))
			ppr.Post("/avatar", uploadAvatarHandler(svc, files, bucket))

			if extra != nil {
				extra(ppr)
			}
		})
	})
}

type safeZoneDTO struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	RadiusM int     `json:"radius_m"`
}

type createPetRequest struct {
	Name        string       `json:"name"`
	Species     string       `json:"species"`
	Breed       string       `json:"breed"`
	BirthDate   string       `json:"birth_date"` // YYYY-MM-DD opcional
	Description string       `json:"description"`
	SafeZone    *safeZoneDTO `json:"safe_zone"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string      `json:"name"`
	Breed       *string      `json:"breed"`
	BirthDate   *string      `json:"birth_date"` // YYYY-MM-DD; null = limpiar
	Description *string      `json:"description"`
	SafeZone    *safeZoneDTO `json:"safe_zone"` // null = limpiar
}

type petResponse struct {
	ID          string       `json:"id"`
	OwnerUserID string       `json:"owner_user_id"`
	Name        string       `json:"name"`
	Species     string       `json:"species"`
	Breed       string       `json:"breed"`
	BirthDate   *time.Time   `json:"birth_date,omitempty"`
	Description string       `json:"description"`
	AvatarURL   string       `json:"avatar_url"`
	SafeZone    *safeZoneDTO `json:"safe_zone,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Species:     Species(req.Species),
			Breed:       req.Breed,
			BirthDate:   bd,
			Description: req.Description,
			SafeZone:    toSafeZone(req.SafeZone),
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNotAnOwner):
				http.Error(w, err.Error(), http.StatusForbidden)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	// Solo el owner ve el perfil completo de su mascota.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decodificar a map primero para distinguir "campo: null" de "no enviado".
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		var req updatePetRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		in := UpdateInput{
			Name:        req.Name,
			Breed:       req.Breed,
			Description: req.Description,
		}

		if v, present := raw["birth_date"]; present {
			if string(v) == "null" {
				in.ClearBirth = true
			} else if req.BirthDate != nil {
				t, err := time.Parse("2006-01-02", *req.BirthDate)
				if err != nil {
					http.Error(w, "birth_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				in.BirthDate = &t
			}
		}

		if v, present := raw["safe_zone"]; present {
			if string(v) == "null" {
				in.ClearZone = true
			} else {
				in.SafeZone = toSafeZone(req.SafeZone)
			}
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), claims.UserID, in)
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID"), claims.UserID); err != nil {
			writePetError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadAvatarHandler recibe multipart (campo "file"), lo sube al FileStore y
// guarda la URL pública en el perfil de la mascota.
func uploadAvatarHandler(svc *Service, files backend.FileStore, bucket string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		if owner, err := svc.OwnerOf(r.Context(), petID); err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		} else if owner != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file field is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		path := fmt.Sprintf("pets/%s/avatar-%s%s", petID, uuid.NewString(), ext)
		contentType := header.Header.Get("Content-Type")

		url, err := files.Upload(r.Context(), bucket, path, file, contentType)
		if err != nil {
			http.Error(w, "upload failed", http.StatusBadGateway)
			return
		}

		p, err := svc.SetAvatar(r.Context(), petID, claims.UserID, url)
		if err != nil {
			writePetError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func writePetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toSafeZone(dto *safeZoneDTO) *SafeZone {
	if dto == nil {
		return nil
	}
	return &SafeZone{Lat: dto.Lat, Lng: dto.Lng, RadiusM: dto.RadiusM}
}

func toSafeZoneDTO(z *SafeZone) *safeZoneDTO {
	if z == nil {
		return nil
	}
	return &safeZoneDTO{Lat: z.Lat, Lng: z.Lng, RadiusM: z.RadiusM}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Species:     string(p.Species),
		Breed:       p.Breed,
		BirthDate:   p.BirthDate,
		Description: p.Description,
		AvatarURL:   p.AvatarURL,
		SafeZone:    toSafeZoneDTO(p.SafeZone),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no extraer helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
