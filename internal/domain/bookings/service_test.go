package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-services-marketplace/internal/domain/offers"
	"pet-services-marketplace/internal/domain/requests"
)

// -------------------------
// Test doubles
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Booking
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Booking{}}
}

func (r *testRepo) Create(ctx context.Context, b Booking) error {
	r.byID[b.ID] = b
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return Booking{}, errRepoNotFound
	}
	return b, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	out := make([]Booking, 0)
	for _, b := range r.byID {
		if b.OwnerUserID == userID || b.GiverUserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, b Booking) error {
	if _, ok := r.byID[b.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[b.ID] = b
	return nil
}

// testTransitions registra qué transiciones del pedido se dispararon.
type testTransitions struct {
	inProgress, completed, cancelled []string
}

func (t *testTransitions) MarkInProgress(ctx context.Context, id string) (requests.ServiceRequest, error) {
	t.inProgress = append(t.inProgress, id)
	return requests.ServiceRequest{ID: id, Status: requests.StatusInProgress}, nil
}

func (t *testTransitions) MarkCompleted(ctx context.Context, id string) (requests.ServiceRequest, error) {
	t.completed = append(t.completed, id)
	return requests.ServiceRequest{ID: id, Status: requests.StatusCompleted}, nil
}

func (t *testTransitions) MarkCancelled(ctx context.Context, id string) (requests.ServiceRequest, error) {
	t.cancelled = append(t.cancelled, id)
	return requests.ServiceRequest{ID: id, Status: requests.StatusCancelled}, nil
}

func engagementInput() offers.EngagementInput {
	return offers.EngagementInput{
		RequestID:       "req-1",
		OfferID:         "offer-1",
		OwnerUserID:     "owner-1",
		GiverUserID:     "giver-1",
		PetID:           "pet-1",
		StartAt:         time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
		Location:        "Caballito",
		PriceCents:      2000,
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_CreateEngagement(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testTransitions{})

	id, err := svc.CreateEngagement(context.Background(), engagementInput())
	if err != nil {
		t.Fatalf("create engagement: %v", err)
	}

	b, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Status != StatusScheduled {
		t.Fatalf("expected scheduled, got %s", b.Status)
	}
	if b.PriceCents != 2000 || b.GiverUserID != "giver-1" || b.RequestID != "req-1" {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestService_Start_OnlyGiver(t *testing.T) {
	repo := newTestRepo()
	trans := &testTransitions{}
	svc := NewService(repo, trans)
	ctx := context.Background()

	id, _ := svc.CreateEngagement(ctx, engagementInput())

	if _, err := svc.Start(ctx, id, "owner-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for owner start, got %v", err)
	}

	b, err := svc.Start(ctx, id, "giver-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if b.Status != StatusInProgress {
		t.Fatalf("expected in_progress, got %s", b.Status)
	}
	if len(trans.inProgress) != 1 || trans.inProgress[0] != "req-1" {
		t.Fatalf("expected request marked in_progress, got %v", trans.inProgress)
	}

	if _, err := svc.Start(ctx, id, "giver-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on double start, got %v", err)
	}
}

func TestService_Complete_SetsEndAndPhotos(t *testing.T) {
	repo := newTestRepo()
	trans := &testTransitions{}
	svc := NewService(repo, trans)
	ctx := context.Background()

	id, _ := svc.CreateEngagement(ctx, engagementInput())

	// no se puede cerrar sin arrancar
	if _, err := svc.Complete(ctx, id, "giver-1", CompleteInput{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.Start(ctx, id, "giver-1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	b, err := svc.Complete(ctx, id, "giver-1", CompleteInput{
		PhotoURLs: []string{"https://cdn.example.com/walk1.jpg"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if b.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", b.Status)
	}
	if b.EndAt == nil {
		t.Fatal("expected end_at set on complete")
	}
	if len(b.PhotoURLs) != 1 {
		t.Fatalf("expected 1 photo, got %v", b.PhotoURLs)
	}
	if len(trans.completed) != 1 {
		t.Fatalf("expected request marked completed, got %v", trans.completed)
	}
}

func TestService_Cancel_EitherPartyBeforeClose(t *testing.T) {
	repo := newTestRepo()
	trans := &testTransitions{}
	svc := NewService(repo, trans)
	ctx := context.Background()

	id, _ := svc.CreateEngagement(ctx, engagementInput())

	if _, err := svc.Cancel(ctx, id, "extraño"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	b, err := svc.Cancel(ctx, id, "owner-1")
	if err != nil {
		t.Fatalf("cancel by owner: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}
	if len(trans.cancelled) != 1 {
		t.Fatalf("expected request cancelled, got %v", trans.cancelled)
	}

	if _, err := svc.Cancel(ctx, id, "giver-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on double cancel, got %v", err)
	}
}

func TestService_Rate_OwnerOnceOnCompleted(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testTransitions{})
	ctx := context.Background()

	id, _ := svc.CreateEngagement(ctx, engagementInput())

	// sin completar no se califica
	if _, err := svc.Rate(ctx, id, "owner-1", RateInput{Rating: 5}); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}

	if _, err := svc.Start(ctx, id, "giver-1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Complete(ctx, id, "giver-1", CompleteInput{}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// rating fuera de rango
	if _, err := svc.Rate(ctx, id, "owner-1", RateInput{Rating: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for rating 0, got %v", err)
	}
	if _, err := svc.Rate(ctx, id, "owner-1", RateInput{Rating: 6}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for rating 6, got %v", err)
	}

	// solo el owner
	if _, err := svc.Rate(ctx, id, "giver-1", RateInput{Rating: 5}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for giver rate, got %v", err)
	}

	b, err := svc.Rate(ctx, id, "owner-1", RateInput{Rating: 5, TipCents: 500})
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if b.Rating != 5 || b.TipCents != 500 {
		t.Fatalf("unexpected rating: %+v", b)
	}

	if _, err := svc.Rate(ctx, id, "owner-1", RateInput{Rating: 4}); !errors.Is(err, ErrAlreadyRated) {
		t.Fatalf("expected ErrAlreadyRated, got %v", err)
	}
}
