package requests

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]ServiceRequest
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]ServiceRequest{}}
}

func (r *testRepo) Create(ctx context.Context, sr ServiceRequest) error {
	if sr.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[sr.ID] = sr
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (ServiceRequest, error) {
	sr, ok := r.byID[id]
	if !ok {
		return ServiceRequest{}, errRepoNotFound
	}
	return sr, nil
}

func (r *testRepo) ListOpen(ctx context.Context, f ListFilter) ([]ServiceRequest, error) {
	out := make([]ServiceRequest, 0)
	for _, sr := range r.byID {
		if sr.Status != StatusOpen {
			continue
		}
		if f.Type != "" && sr.Type != f.Type {
			continue
		}
		out = append(out, sr)
	}
	return out, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]ServiceRequest, error) {
	out := make([]ServiceRequest, 0)
	for _, sr := range r.byID {
		if sr.OwnerUserID == ownerUserID {
			out = append(out, sr)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, sr ServiceRequest) error {
	if _, ok := r.byID[sr.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[sr.ID] = sr
	return nil
}

// testPets mapea petID -> ownerUserID.
type testPets map[string]string

func (p testPets) OwnerOf(ctx context.Context, petID string) (string, error) {
	owner, ok := p[petID]
	if !ok {
		return "", errRepoNotFound
	}
	return owner, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_RequiresPetOwnership(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPets{"pet-1": "owner-1"})

	in := CreateInput{
		Type:            TypeWalk,
		StartAt:         time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Location:        "Parque Centenario",
	}

	if _, err := svc.Create(context.Background(), "pet-1", "intruso", in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	sr, err := svc.Create(context.Background(), "pet-1", "owner-1", in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sr.Status != StatusOpen {
		t.Fatalf("expected open, got %s", sr.Status)
	}
}

func TestService_Create_ValidatesInput(t *testing.T) {
	svc := NewService(newTestRepo(), testPets{"pet-1": "owner-1"})
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"unknown type", CreateInput{Type: "massage", StartAt: start, DurationMinutes: 30}},
		{"zero start", CreateInput{Type: TypeWalk, DurationMinutes: 30}},
		{"zero duration", CreateInput{Type: TypeWalk, StartAt: start}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), "pet-1", "owner-1", tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestService_ListOpen_FiltersByType(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPets{"pet-1": "owner-1"})
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mustCreate := func(typ ServiceType) ServiceRequest {
		t.Helper()
		sr, err := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{
			Type: typ, StartAt: start, DurationMinutes: 30,
		})
		if err != nil {
			t.Fatalf("create %s: %v", typ, err)
		}
		return sr
	}

	mustCreate(TypeWalk)
	mustCreate(TypeGrooming)
	cancelled := mustCreate(TypeWalk)
	if _, err := svc.Cancel(context.Background(), cancelled.ID, "owner-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	walks, err := svc.ListOpen(context.Background(), ListFilter{Type: TypeWalk})
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(walks) != 1 {
		t.Fatalf("expected 1 open walk, got %d", len(walks))
	}

	if _, err := svc.ListOpen(context.Background(), ListFilter{Type: "massage"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
}

func TestService_Cancel_OnlyOwnerAndOnlyBeforeStart(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPets{"pet-1": "owner-1"})

	sr, err := svc.Create(context.Background(), "pet-1", "owner-1", CreateInput{
		Type: TypeWalk, StartAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), sr.ID, "otro"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// matched todavía se puede cancelar
	if _, err := svc.MarkMatched(context.Background(), sr.ID); err != nil {
		t.Fatalf("mark matched: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), sr.ID, "owner-1"); err != nil {
		t.Fatalf("cancel matched: %v", err)
	}

	// cancelado no transiciona más
	if _, err := svc.Cancel(context.Background(), sr.ID, "owner-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestService_StatusMachine(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testPets{"pet-1": "owner-1"})
	ctx := context.Background()

	sr, err := svc.Create(ctx, "pet-1", "owner-1", CreateInput{
		Type: TypeBoarding, StartAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// open no puede ir directo a in_progress ni a completed
	if _, err := svc.MarkInProgress(ctx, sr.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("open->in_progress: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.MarkCompleted(ctx, sr.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("open->completed: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.MarkMatched(ctx, sr.ID); err != nil {
		t.Fatalf("open->matched: %v", err)
	}
	if _, err := svc.MarkMatched(ctx, sr.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("matched->matched: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.MarkInProgress(ctx, sr.ID); err != nil {
		t.Fatalf("matched->in_progress: %v", err)
	}
	got, err := svc.MarkCompleted(ctx, sr.ID)
	if err != nil {
		t.Fatalf("in_progress->completed: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}

	// terminal
	if _, err := svc.MarkCancelled(ctx, sr.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completed->cancelled: expected ErrInvalidTransition, got %v", err)
	}
}
