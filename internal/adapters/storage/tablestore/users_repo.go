// Package tablestore implementa repositorios sobre las operaciones genéricas
// de tabla del backend (backend.TableClient). Con el binding live pega al
// backend hosteado; con el mock hereda la semántica de demo mode (los updates
// fallan con "not available in demo mode").
package tablestore

import (
	"context"
	"time"

	"pet-services-marketplace/internal/domain/users"
	"pet-services-marketplace/internal/ports/backend"
)

const usersTable = "users"

type UsersRepo struct {
	tables backend.TableClient
}

func NewUsersRepo(tables backend.TableClient) *UsersRepo {
	return &UsersRepo{tables: tables}
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.Profile, error) {
	rows, err := r.tables.Select(ctx, usersTable, backend.Eq("id", id))
	if err != nil {
		if backend.KindOf(err) == backend.KindNoData {
			return users.Profile{}, users.ErrNotFound
		}
		return users.Profile{}, err
	}
	if len(rows) == 0 {
		return users.Profile{}, users.ErrNotFound
	}
	return toProfile(rows[0]), nil
}

func (r *UsersRepo) Create(ctx context.Context, p users.Profile) error {
	_, err := r.tables.Insert(ctx, usersTable, map[string]any{
		"id":         p.ID,
		"email":      p.Email,
		"full_name":  p.FullName,
		"phone":      p.Phone,
		"role":       string(p.Role),
		"avatar_url": p.AvatarURL,
		"verified":   p.Verified,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	})
	return err
}

func (r *UsersRepo) Update(ctx context.Context, id string, in users.UpdateInput) (users.Profile, error) {
	changes := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if in.FullName != nil {
		changes["full_name"] = *in.FullName
	}
	if in.Phone != nil {
		changes["phone"] = *in.Phone
	}
	if in.AvatarURL != nil {
		changes["avatar_url"] = *in.AvatarURL
	}

	rows, err := r.tables.Update(ctx, usersTable, changes, backend.Eq("id", id))
	if err != nil {
		return users.Profile{}, err
	}
	if len(rows) == 0 {
		return users.Profile{}, users.ErrNotFound
	}
	return toProfile(rows[0]), nil
}

func (r *UsersRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.tables.Update(ctx, usersTable, map[string]any{
		"verified":   verified,
		"updated_at": time.Now().UTC(),
	}, backend.Eq("id", id))
	return err
}

// toProfile mapea la fila genérica al modelo. Los campos faltantes quedan en
// cero: el backend es dueño del esquema, acá no se valida.
func toProfile(row map[string]any) users.Profile {
	return users.Profile{
		ID:        str(row["id"]),
		Email:     str(row["email"]),
		FullName:  str(row["full_name"]),
		Phone:     str(row["phone"]),
		Role:      users.Role(str(row["role"])),
		AvatarURL: str(row["avatar_url"]),
		Verified:  boolean(row["verified"]),
		CreatedAt: timestamp(row["created_at"]),
		UpdatedAt: timestamp(row["updated_at"]),
	}
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func boolean(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func timestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

var _ users.Repository = (*UsersRepo)(nil)
