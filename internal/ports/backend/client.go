package backend

import (
	"context"
	"io"
)

// AuthClient cubre las operaciones de autenticación del backend hosteado.
// Dos variantes: hosted (live) y memory (demo). Se elige una sola vez al
// arrancar; el resto del código depende solo de esta interfaz.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (Identity, error)
}

// Filter es un filtro de igualdad/comparación estilo PostgREST.
type Filter struct {
	Column string
	Op     string // eq, neq, gt, lt, gte, lte
	Value  string
}

// Eq es el filtro más común: column = value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// TableClient son las operaciones genéricas de tabla del backend.
// Cada llamada es un round trip único: sin retry, pooling ni caching.
type TableClient interface {
	Select(ctx context.Context, table string, filters ...Filter) ([]map[string]any, error)
	Insert(ctx context.Context, table string, row map[string]any) (map[string]any, error)
	Update(ctx context.Context, table string, changes map[string]any, filters ...Filter) ([]map[string]any, error)
	Delete(ctx context.Context, table string, filters ...Filter) error
}

// FileStore sube archivos (avatares, documentos de identidad) y resuelve URLs públicas.
type FileStore interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error)
	PublicURL(bucket, path string) string
}
