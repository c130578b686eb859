package router

import (
	"net/http"

	"pet-services-marketplace/internal/adapters/auth/token"
	"pet-services-marketplace/internal/adapters/backend/cloudinary"
	"pet-services-marketplace/internal/adapters/backend/hosted"
	memback "pet-services-marketplace/internal/adapters/backend/memory"
	"pet-services-marketplace/internal/adapters/sessioncache"
	mem "pet-services-marketplace/internal/adapters/storage/memory"
	pg "pet-services-marketplace/internal/adapters/storage/postgres"
	"pet-services-marketplace/internal/adapters/storage/tablestore"
	"pet-services-marketplace/internal/config"
	"pet-services-marketplace/internal/domain/bookings"
	"pet-services-marketplace/internal/domain/offers"
	"pet-services-marketplace/internal/domain/pets"
	"pet-services-marketplace/internal/domain/requests"
	"pet-services-marketplace/internal/domain/users"
	"pet-services-marketplace/internal/domain/verifications"
	"pet-services-marketplace/internal/middleware"
	"pet-services-marketplace/internal/platform/logger"
	"pet-services-marketplace/internal/ports/auth"
	"pet-services-marketplace/internal/ports/backend"
	"pet-services-marketplace/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	Config *config.Config
	Log    logger.Logger
}

// NewRouter arma todo el binding en el arranque: elige una sola vez entre el
// backend hosteado y el mock in-memory (modo demo) y cablea repos, services
// y rutas contra esa elección. Nada re-decide el binding en runtime.
func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	log := opts.Log

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Binding del backend: una sola decisión, al arranque.
	var (
		authClient  backend.AuthClient
		tableClient backend.TableClient
		fileStore   backend.FileStore
	)

	if cfg.DemoMode() {
		sessions := sessioncache.NewMemory()
		if cfg.RedisURI != "" {
			if redisCache, err := sessioncache.NewRedis(cfg.RedisURI); err == nil {
				sessions = redisCache
			} else {
				log.Warn("redis unavailable, using in-memory session cache", map[string]any{"error": err.Error()})
			}
		}

		mock := memback.New(sessions)
		authClient = mock
		tableClient = mock
		fileStore = memback.NewFileStore()

		log.Info("demo mode: in-memory backend binding", nil)
	} else {
		client, err := hosted.New(hosted.Config{
			BaseURL: cfg.BackendURL,
			AnonKey: cfg.BackendAnonKey,
		})
		if err != nil {
			// Config incompleta equivale a demo: mismo binding que arriba.
			log.Warn("hosted backend misconfigured, falling back to demo binding", map[string]any{"error": err.Error()})
			mock := memback.New(sessioncache.NewMemory())
			authClient = mock
			tableClient = mock
			fileStore = memback.NewFileStore()
		} else {
			authClient = client
			tableClient = client
			fileStore = client
			log.Info("hosted backend binding", map[string]any{"url": cfg.BackendURL})
		}
	}

	// Storage alternativo de imágenes.
	if cfg.HasCloudinary() {
		if cld, err := cloudinary.New(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret); err == nil {
			fileStore = cld
			log.Info("cloudinary file store enabled", nil)
		} else {
			log.Warn("cloudinary misconfigured, using backend storage", map[string]any{"error": err.Error()})
		}
	}

	// Verificación de tokens: local (HS256) si hay secret, si no round trip al backend.
	var verifier auth.Verifier
	if cfg.BackendJWTSecret != "" {
		verifier = token.NewJWTVerifier(cfg.BackendJWTSecret)
	} else {
		verifier = token.NewBackendVerifier(authClient)
	}
	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Repos: Postgres directo si hay DSN; si no, perfiles via tabla del
	// backend y dominio in-memory.
	var (
		userRepo    users.Repository
		petRepo     pets.Repository
		requestRepo requests.Repository
		offerRepo   offers.Repository
		bookingRepo bookings.Repository
		verifRepo   verifications.Repository
	)

	if cfg.DatabaseDSN != "" {
		db, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			log.Error("postgres unavailable, using fallback repos", map[string]any{"error": err.Error()})
		} else {
			userRepo = pg.NewUsersRepo(db)
			petRepo = pg.NewPetsRepo(db)
			requestRepo = pg.NewRequestsRepo(db)
			offerRepo = pg.NewOffersRepo(db)
			bookingRepo = pg.NewBookingsRepo(db)
			verifRepo = pg.NewVerificationsRepo(db)
		}
	}
	if userRepo == nil {
		userRepo = tablestore.NewUsersRepo(tableClient)
		petRepo = mem.NewPetRepo()
		requestRepo = mem.NewRequestRepo()
		offerRepo = mem.NewOfferRepo()
		bookingRepo = mem.NewBookingRepo()
		verifRepo = mem.NewVerificationRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo)
	petsSvc := pets.NewService(petRepo, usersSvc)
	requestsSvc := requests.NewService(requestRepo, petsSvc)
	bookingsSvc := bookings.NewService(bookingRepo, requestsSvc)
	offersSvc := offers.NewService(offerRepo, requestsSvc, usersSvc, bookingsSvc)
	verifSvc := verifications.NewService(verifRepo, usersSvc)

	// Rutas por módulo
	session.RegisterRoutes(r, authClient, usersSvc)
	pets.RegisterRoutes(r, petsSvc, fileStore, cfg.StorageBucket, func(pr chi.Router) {
		requests.RegisterPetRoutes(pr, requestsSvc)
	})
	requests.RegisterRoutes(r, requestsSvc, func(rr chi.Router) {
		offers.RegisterRequestRoutes(rr, offersSvc)
	})
	offers.RegisterRoutes(r, offersSvc)
	bookings.RegisterRoutes(r, bookingsSvc)
	verifications.RegisterRoutes(r, verifSvc)

	return r
}
