package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-services-marketplace/internal/domain/offers"
)

type OffersRepo struct {
	db *sql.DB
}

func NewOffersRepo(db *sql.DB) *OffersRepo {
	return &OffersRepo{db: db}
}

const offerColumns = `
	id, request_id, giver_user_id, message, price_cents, status, created_at, updated_at
`

func (r *OffersRepo) Create(ctx context.Context, o offers.ServiceOffer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO service_offers (
			id, request_id, giver_user_id, message, price_cents, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		o.ID,
		o.RequestID,
		o.GiverUserID,
		o.Message,
		o.PriceCents,
		string(o.Status),
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OffersRepo) GetByID(ctx context.Context, id string) (offers.ServiceOffer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return offers.ServiceOffer{}, offers.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+offerColumns+`
		FROM service_offers
		WHERE id = $1
	`, id)

	o, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return offers.ServiceOffer{}, offers.ErrNotFound
	}
	return o, err
}

func (r *OffersRepo) ListByRequest(ctx context.Context, requestID string) ([]offers.ServiceOffer, error) {
	return r.queryOffers(ctx, `
		SELECT `+offerColumns+`
		FROM service_offers
		WHERE request_id = $1
		ORDER BY created_at ASC
	`, requestID)
}

func (r *OffersRepo) ListByGiver(ctx context.Context, giverUserID string) ([]offers.ServiceOffer, error) {
	return r.queryOffers(ctx, `
		SELECT `+offerColumns+`
		FROM service_offers
		WHERE giver_user_id = $1
		ORDER BY created_at ASC
	`, giverUserID)
}

func (r *OffersRepo) Update(ctx context.Context, o offers.ServiceOffer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE service_offers
		SET
			message = $2,
			price_cents = $3,
			status = $4,
			updated_at = $5
		WHERE id = $1
	`,
		o.ID,
		o.Message,
		o.PriceCents,
		string(o.Status),
		o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return offers.ErrNotFound
	}
	return nil
}

func (r *OffersRepo) queryOffers(ctx context.Context, query string, args ...any) ([]offers.ServiceOffer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offers.ServiceOffer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOffer(row rowScanner) (offers.ServiceOffer, error) {
	var o offers.ServiceOffer
	var status string

	if err := row.Scan(
		&o.ID,
		&o.RequestID,
		&o.GiverUserID,
		&o.Message,
		&o.PriceCents,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return offers.ServiceOffer{}, err
	}

	o.Status = offers.Status(status)
	return o, nil
}
