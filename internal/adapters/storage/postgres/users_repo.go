package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pet-services-marketplace/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, email, full_name, phone, role, avatar_url, verified, created_at, updated_at
`

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.Profile{}, users.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return users.Profile{}, users.ErrNotFound
	}
	return p, err
}

func (r *UsersRepo) Create(ctx context.Context, p users.Profile) error {
	// upsert por id: EnsureProfile puede correr más de una vez
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, full_name, phone, role, avatar_url, verified, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING
	`,
		p.ID,
		p.Email,
		p.FullName,
		p.Phone,
		string(p.Role),
		p.AvatarURL,
		p.Verified,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) Update(ctx context.Context, id string, in users.UpdateInput) (users.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET
			full_name  = COALESCE($2, full_name),
			phone      = COALESCE($3, phone),
			avatar_url = COALESCE($4, avatar_url),
			updated_at = $5
		WHERE id = $1
		RETURNING `+userColumns,
		id,
		in.FullName,
		in.Phone,
		in.AvatarURL,
		time.Now().UTC(),
	)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return users.Profile{}, users.ErrNotFound
	}
	return p, err
}

func (r *UsersRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET verified = $2, updated_at = $3
		WHERE id = $1
	`, id, verified, time.Now().UTC())
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (users.Profile, error) {
	var p users.Profile
	var role string
	if err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Phone,
		&role,
		&p.AvatarURL,
		&p.Verified,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return users.Profile{}, err
	}
	p.Role = users.Role(role)
	return p, nil
}

var _ users.Repository = (*UsersRepo)(nil)
