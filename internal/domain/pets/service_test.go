package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-services-marketplace/internal/domain/users"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

type testRoles map[string]users.Role

func (r testRoles) RoleOf(ctx context.Context, userID string) (users.Role, error) {
	role, ok := r[userID]
	if !ok {
		return "", errRepoNotFound
	}
	return role, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, testRoles{"owner-1": users.RoleOwner, "giver-1": users.RoleGiver})
	return svc, repo
}

func TestService_Create_OnlyOwnersHavePets(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), "giver-1", CreateInput{
		Name: "Milo", Species: SpeciesDog,
	}); !errors.Is(err, ErrNotAnOwner) {
		t.Fatalf("expected ErrNotAnOwner, got %v", err)
	}

	p, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "  Milo ", Species: SpeciesCat,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Milo" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
}

func TestService_Create_ValidatesSpecies(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name: "Rex", Species: "hamster",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Update_PatchSemantics(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	birth := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.Create(ctx, "owner-1", CreateInput{
		Name:      "Milo",
		Species:   SpeciesDog,
		Breed:     "mestizo",
		BirthDate: &birth,
		SafeZone:  &SafeZone{Lat: -34.6, Lng: -58.38, RadiusM: 500},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// patch parcial: solo breed; el resto queda igual
	newBreed := "caniche"
	updated, err := svc.Update(ctx, p.ID, "owner-1", UpdateInput{Breed: &newBreed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Breed != "caniche" || updated.Name != "Milo" || updated.BirthDate == nil || updated.SafeZone == nil {
		t.Fatalf("patch touched unrelated fields: %+v", updated)
	}

	// limpiar birth_date y safe_zone explícitamente
	updated, err = svc.Update(ctx, p.ID, "owner-1", UpdateInput{ClearBirth: true, ClearZone: true})
	if err != nil {
		t.Fatalf("clear update: %v", err)
	}
	if updated.BirthDate != nil || updated.SafeZone != nil {
		t.Fatalf("expected cleared fields: %+v", updated)
	}

	// nombre vacío no va
	empty := " "
	if _, err := svc.Update(ctx, p.ID, "owner-1", UpdateInput{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// solo el owner edita
	if _, err := svc.Update(ctx, p.ID, "giver-1", UpdateInput{Breed: &newBreed}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Delete_OnlyOwner(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "owner-1", CreateInput{Name: "Milo", Species: SpeciesDog})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, p.ID, "giver-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, p.ID, "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); err == nil {
		t.Fatal("expected pet gone after delete")
	}
}
