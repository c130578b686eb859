package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-services-marketplace/internal/domain/requests"
)

type RequestsRepo struct {
	db *sql.DB
}

func NewRequestsRepo(db *sql.DB) *RequestsRepo {
	return &RequestsRepo{db: db}
}

const requestColumns = `
	id, pet_id, owner_user_id,
	type, start_at, duration_minutes, location, notes,
	status, created_at, updated_at
`

func (r *RequestsRepo) Create(ctx context.Context, sr requests.ServiceRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO service_requests (
			id, pet_id, owner_user_id,
			type, start_at, duration_minutes, location, notes,
			status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		sr.ID,
		sr.PetID,
		sr.OwnerUserID,
		string(sr.Type),
		sr.StartAt,
		sr.DurationMinutes,
		sr.Location,
		sr.Notes,
		string(sr.Status),
		sr.CreatedAt,
		sr.UpdatedAt,
	)
	return err
}

func (r *RequestsRepo) GetByID(ctx context.Context, id string) (requests.ServiceRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return requests.ServiceRequest{}, requests.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+requestColumns+`
		FROM service_requests
		WHERE id = $1
	`, id)

	sr, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return requests.ServiceRequest{}, requests.ErrNotFound
	}
	return sr, err
}

func (r *RequestsRepo) ListOpen(ctx context.Context, f requests.ListFilter) ([]requests.ServiceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM service_requests
		WHERE status = 'open'
	`
	args := []any{}
	if f.Type != "" {
		query += ` AND type = $1`
		args = append(args, string(f.Type))
	}
	query += ` ORDER BY start_at ASC`

	return r.queryRequests(ctx, query, args...)
}

func (r *RequestsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]requests.ServiceRequest, error) {
	return r.queryRequests(ctx, `
		SELECT `+requestColumns+`
		FROM service_requests
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
}

func (r *RequestsRepo) Update(ctx context.Context, sr requests.ServiceRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE service_requests
		SET
			type = $2,
			start_at = $3,
			duration_minutes = $4,
			location = $5,
			notes = $6,
			status = $7,
			updated_at = $8
		WHERE id = $1
	`,
		sr.ID,
		string(sr.Type),
		sr.StartAt,
		sr.DurationMinutes,
		sr.Location,
		sr.Notes,
		string(sr.Status),
		sr.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return requests.ErrNotFound
	}
	return nil
}

func (r *RequestsRepo) queryRequests(ctx context.Context, query string, args ...any) ([]requests.ServiceRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]requests.ServiceRequest, 0)
	for rows.Next() {
		sr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (requests.ServiceRequest, error) {
	var sr requests.ServiceRequest
	var typ, status string

	if err := row.Scan(
		&sr.ID,
		&sr.PetID,
		&sr.OwnerUserID,
		&typ,
		&sr.StartAt,
		&sr.DurationMinutes,
		&sr.Location,
		&sr.Notes,
		&status,
		&sr.CreatedAt,
		&sr.UpdatedAt,
	); err != nil {
		return requests.ServiceRequest{}, err
	}

	sr.Type = requests.ServiceType(typ)
	sr.Status = requests.Status(status)
	return sr, nil
}
