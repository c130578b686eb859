package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"pet-services-marketplace/internal/domain/bookings"
)

type BookingsRepo struct {
	db *sql.DB
}

func NewBookingsRepo(db *sql.DB) *BookingsRepo {
	return &BookingsRepo{db: db}
}

const bookingColumns = `
	id, request_id, offer_id, owner_user_id, giver_user_id, pet_id,
	start_at, end_at, duration_minutes, location, price_cents, photo_urls,
	status, rating, tip_cents, created_at, updated_at
`

func (r *BookingsRepo) Create(ctx context.Context, b bookings.Booking) error {
	photos, err := photosJSON(b.PhotoURLs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bookings (
			id, request_id, offer_id, owner_user_id, giver_user_id, pet_id,
			start_at, end_at, duration_minutes, location, price_cents, photo_urls,
			status, rating, tip_cents, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		b.ID,
		b.RequestID,
		b.OfferID,
		b.OwnerUserID,
		b.GiverUserID,
		b.PetID,
		b.StartAt,
		toNullTime(b.EndAt),
		b.DurationMinutes,
		b.Location,
		b.PriceCents,
		photos,
		string(b.Status),
		b.Rating,
		b.TipCents,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (r *BookingsRepo) GetByID(ctx context.Context, id string) (bookings.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return bookings.Booking{}, bookings.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id)

	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return bookings.Booking{}, bookings.ErrNotFound
	}
	return b, err
}

func (r *BookingsRepo) ListByUser(ctx context.Context, userID string) ([]bookings.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE owner_user_id = $1 OR giver_user_id = $1
		ORDER BY start_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookings.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingsRepo) Update(ctx context.Context, b bookings.Booking) error {
	photos, err := photosJSON(b.PhotoURLs)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET
			end_at = $2,
			photo_urls = $3,
			status = $4,
			rating = $5,
			tip_cents = $6,
			updated_at = $7
		WHERE id = $1
	`,
		b.ID,
		toNullTime(b.EndAt),
		photos,
		string(b.Status),
		b.Rating,
		b.TipCents,
		b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return bookings.ErrNotFound
	}
	return nil
}

func scanBooking(row rowScanner) (bookings.Booking, error) {
	var b bookings.Booking
	var status string
	var endAt sql.NullTime
	var photos []byte

	if err := row.Scan(
		&b.ID,
		&b.RequestID,
		&b.OfferID,
		&b.OwnerUserID,
		&b.GiverUserID,
		&b.PetID,
		&b.StartAt,
		&endAt,
		&b.DurationMinutes,
		&b.Location,
		&b.PriceCents,
		&photos,
		&status,
		&b.Rating,
		&b.TipCents,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return bookings.Booking{}, err
	}

	b.Status = bookings.Status(status)
	if endAt.Valid {
		t := endAt.Time
		b.EndAt = &t
	}
	if len(photos) > 0 {
		_ = json.Unmarshal(photos, &b.PhotoURLs)
	}
	return b, nil
}

// photo_urls es JSONB
func photosJSON(urls []string) (any, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	return json.Marshal(urls)
}
