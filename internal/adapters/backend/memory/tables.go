package memory

import (
	"context"
	"net/http"

	"pet-services-marketplace/internal/ports/backend"

	"github.com/google/uuid"
)

// Semántica de tablas en demo mode:
//   - Select sobre "users" filtrando por id resuelve contra las cuentas mock.
//   - Cualquier otra combinación tabla/columna devuelve "no mock data available".
//   - Insert siempre acepta y devuelve la fila con id generado (no persiste).
//   - Update y Delete fallan con "not available in demo mode", sin mutar nada.

func (b *Backend) Select(ctx context.Context, table string, filters ...backend.Filter) ([]map[string]any, error) {
	if table == "users" && len(filters) == 1 && filters[0].Column == "id" && filters[0].Op == "eq" {
		b.mu.RLock()
		a, ok := b.byID[filters[0].Value]
		b.mu.RUnlock()

		if !ok {
			return nil, noMockData(table)
		}
		return []map[string]any{userRow(a)}, nil
	}
	return nil, noMockData(table)
}

func (b *Backend) Insert(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	if _, ok := out["id"]; !ok {
		out["id"] = uuid.NewString()
	}
	return out, nil
}

func (b *Backend) Update(ctx context.Context, table string, changes map[string]any, filters ...backend.Filter) ([]map[string]any, error) {
	return nil, demoUnavailable("update")
}

func (b *Backend) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	return demoUnavailable("delete")
}

func userRow(a account) map[string]any {
	return map[string]any{
		"id":         a.ID,
		"email":      a.Email,
		"full_name":  a.Metadata["full_name"],
		"phone":      a.Metadata["phone"],
		"role":       a.Metadata["role"],
		"avatar_url": a.Metadata["avatar_url"],
		"verified":   false,
		"created_at": a.CreatedAt,
	}
}

func noMockData(table string) error {
	return backend.Errf(backend.KindNoData, http.StatusNotFound,
		"mocked DB: no mock data available for table %q", table)
}

func demoUnavailable(op string) error {
	return backend.Errf(backend.KindUnavailable, 0,
		"mocked DB: %s not available in demo mode", op)
}
