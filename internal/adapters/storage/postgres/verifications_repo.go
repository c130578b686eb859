package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-services-marketplace/internal/domain/verifications"
)

type VerificationsRepo struct {
	db *sql.DB
}

func NewVerificationsRepo(db *sql.DB) *VerificationsRepo {
	return &VerificationsRepo{db: db}
}

const verificationColumns = `
	id, user_id, id_document_url, selfie_url,
	status, verifier_user_id, verified_at, created_at, updated_at
`

func (r *VerificationsRepo) Create(ctx context.Context, v verifications.Verification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verifications (
			id, user_id, id_document_url, selfie_url,
			status, verifier_user_id, verified_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		v.ID,
		v.UserID,
		v.IDDocumentURL,
		v.SelfieURL,
		string(v.Status),
		v.VerifierUserID,
		toNullTime(v.VerifiedAt),
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func (r *VerificationsRepo) GetByID(ctx context.Context, id string) (verifications.Verification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return verifications.Verification{}, verifications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+verificationColumns+`
		FROM verifications
		WHERE id = $1
	`, id)

	v, err := scanVerification(row)
	if err == sql.ErrNoRows {
		return verifications.Verification{}, verifications.ErrNotFound
	}
	return v, err
}

func (r *VerificationsRepo) GetByUser(ctx context.Context, userID string) (verifications.Verification, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+verificationColumns+`
		FROM verifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)

	v, err := scanVerification(row)
	if err == sql.ErrNoRows {
		return verifications.Verification{}, verifications.ErrNotFound
	}
	return v, err
}

func (r *VerificationsRepo) Update(ctx context.Context, v verifications.Verification) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verifications
		SET
			id_document_url = $2,
			selfie_url = $3,
			status = $4,
			verifier_user_id = $5,
			verified_at = $6,
			updated_at = $7
		WHERE id = $1
	`,
		v.ID,
		v.IDDocumentURL,
		v.SelfieURL,
		string(v.Status),
		v.VerifierUserID,
		toNullTime(v.VerifiedAt),
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return verifications.ErrNotFound
	}
	return nil
}

func scanVerification(row rowScanner) (verifications.Verification, error) {
	var v verifications.Verification
	var status string
	var verifier sql.NullString
	var verifiedAt sql.NullTime

	if err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.IDDocumentURL,
		&v.SelfieURL,
		&status,
		&verifier,
		&verifiedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		return verifications.Verification{}, err
	}

	v.Status = verifications.Status(status)
	if verifier.Valid {
		v.VerifierUserID = verifier.String
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		v.VerifiedAt = &t
	}
	return v, nil
}
