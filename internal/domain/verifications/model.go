package verifications

import "time"

// Status de una verificación de identidad: pending -> approved | rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Verification es el trámite de verificación de identidad de un prestador:
// documento + selfie, revisados manualmente.
type Verification struct {
	ID     string
	UserID string

	IDDocumentURL string
	SelfieURL     string

	Status         Status
	VerifierUserID string
	VerifiedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
