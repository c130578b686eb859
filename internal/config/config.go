package config

import (
	"os"
	"strings"
)

// Valores placeholder documentados en el .env.example del proyecto.
// Si la config del backend viene vacía o con estos valores, se activa demo mode.
const (
	PlaceholderBackendURL = "https://YOUR_PROJECT.supabase.co"
	PlaceholderBackendKey = "YOUR_ANON_KEY"
)

type Config struct {
	Port           string
	Environment    string // production, development, etc.
	AllowedOrigins []string

	// Backend hosteado (auth + tablas + storage)
	BackendURL       string
	BackendAnonKey   string
	BackendJWTSecret string // HS256; si está, los tokens se verifican local sin round trip

	// Postgres directo para los repos de dominio (si no está, repos in-memory)
	DatabaseDSN string

	// Sesiones demo/local (si no está, cache in-memory)
	RedisURI string

	// Storage de imágenes alternativo
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	StorageBucket string
}

func Load() *Config {
	allowedOrigins := splitCSV(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		AllowedOrigins: allowedOrigins,

		BackendURL:       strings.TrimSpace(getEnv("SUPABASE_URL", "")),
		BackendAnonKey:   strings.TrimSpace(getEnv("SUPABASE_ANON_KEY", "")),
		BackendJWTSecret: strings.TrimSpace(getEnv("SUPABASE_JWT_SECRET", "")),

		DatabaseDSN: strings.TrimSpace(getEnv("DB_DSN", "")),
		RedisURI:    strings.TrimSpace(getEnv("REDIS_URI", "")),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		StorageBucket: getEnv("STORAGE_BUCKET", "pet-media"),
	}
}

// DemoMode decide si el binding live se reemplaza por el mock in-memory:
// URL/key ausentes o iguales a los placeholders documentados.
func (c *Config) DemoMode() bool {
	if c.BackendURL == "" || c.BackendAnonKey == "" {
		return true
	}
	if strings.EqualFold(c.BackendURL, PlaceholderBackendURL) {
		return true
	}
	if c.BackendAnonKey == PlaceholderBackendKey {
		return true
	}
	return false
}

// HasCloudinary indica si el storage de imágenes puede ir por Cloudinary.
func (c *Config) HasCloudinary() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
