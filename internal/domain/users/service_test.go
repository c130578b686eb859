package users

import (
	"context"
	"errors"
	"testing"

	"pet-services-marketplace/internal/ports/backend"
)

type testRepo struct {
	byID    map[string]Profile
	creates int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Profile{}}
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Create(ctx context.Context, p Profile) error {
	r.byID[p.ID] = p
	r.creates++
	return nil
}

func (r *testRepo) Update(ctx context.Context, id string, in UpdateInput) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.AvatarURL != nil {
		p.AvatarURL = *in.AvatarURL
	}
	r.byID[id] = p
	return p, nil
}

func (r *testRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Verified = verified
	r.byID[id] = p
	return nil
}

func TestService_EnsureProfile_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	identity := backend.Identity{
		ID:    "user-1",
		Email: "ana@example.com",
		Metadata: map[string]string{
			"full_name": "Ana García",
			"role":      "giver",
		},
	}

	p1, err := svc.EnsureProfile(ctx, identity)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if p1.Role != RoleGiver || p1.FullName != "Ana García" {
		t.Fatalf("unexpected profile: %+v", p1)
	}

	p2, err := svc.EnsureProfile(ctx, identity)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if p2.ID != p1.ID {
		t.Fatalf("expected same profile, got %q vs %q", p2.ID, p1.ID)
	}
	if repo.creates != 1 {
		t.Fatalf("expected exactly one create, got %d", repo.creates)
	}
}

func TestService_EnsureProfile_DefaultsRoleToOwner(t *testing.T) {
	svc := NewService(newTestRepo())

	p, err := svc.EnsureProfile(context.Background(), backend.Identity{
		ID:       "user-1",
		Email:    "ana@example.com",
		Metadata: map[string]string{"role": "superadmin"},
	})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if p.Role != RoleOwner {
		t.Fatalf("expected owner default, got %s", p.Role)
	}
}

func TestService_UpdateProfile_Validation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.EnsureProfile(ctx, backend.Identity{ID: "user-1", Email: "a@b.c"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, "user-1", UpdateInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on empty patch, got %v", err)
	}

	empty := "  "
	if _, err := svc.UpdateProfile(ctx, "user-1", UpdateInput{FullName: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on blank name, got %v", err)
	}

	phone := "+54 11 5555-0000"
	p, err := svc.UpdateProfile(ctx, "user-1", UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Phone != phone {
		t.Fatalf("phone not applied: %+v", p)
	}
}
