package verifications

import (
	"context"
	"errors"
	"testing"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID  map[string]Verification
	order []string // para GetByUser: la más reciente
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Verification{}}
}

func (r *testRepo) Create(ctx context.Context, v Verification) error {
	r.byID[v.ID] = v
	r.order = append(r.order, v.ID)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Verification, error) {
	v, ok := r.byID[id]
	if !ok {
		return Verification{}, errRepoNotFound
	}
	return v, nil
}

func (r *testRepo) GetByUser(ctx context.Context, userID string) (Verification, error) {
	for i := len(r.order) - 1; i >= 0; i-- {
		if v := r.byID[r.order[i]]; v.UserID == userID {
			return v, nil
		}
	}
	return Verification{}, errRepoNotFound
}

func (r *testRepo) Update(ctx context.Context, v Verification) error {
	if _, ok := r.byID[v.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[v.ID] = v
	return nil
}

type testMarker map[string]bool

func (m testMarker) SetVerified(ctx context.Context, id string, verified bool) error {
	m[id] = verified
	return nil
}

func submitDocs(t *testing.T, svc *Service, userID string) Verification {
	t.Helper()
	v, err := svc.Submit(context.Background(), userID, SubmitInput{
		IDDocumentURL: "https://cdn.example.com/dni.jpg",
		SelfieURL:     "https://cdn.example.com/selfie.jpg",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return v
}

func TestService_Submit_PendingResubmitUpdatesSame(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testMarker{})

	v1 := submitDocs(t, svc, "giver-1")
	if v1.Status != StatusPending {
		t.Fatalf("expected pending, got %s", v1.Status)
	}

	v2, err := svc.Submit(context.Background(), "giver-1", SubmitInput{
		IDDocumentURL: "https://cdn.example.com/dni-v2.jpg",
		SelfieURL:     "https://cdn.example.com/selfie-v2.jpg",
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if v2.ID != v1.ID {
		t.Fatal("resubmit over pending must update the same application")
	}
	if v2.IDDocumentURL != "https://cdn.example.com/dni-v2.jpg" {
		t.Fatalf("documents not replaced: %+v", v2)
	}
}

func TestService_Submit_AfterRejectionOpensNew(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, testMarker{})
	ctx := context.Background()

	v1 := submitDocs(t, svc, "giver-1")
	if _, err := svc.Reject(ctx, v1.ID, "admin-1"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	v2 := submitDocs(t, svc, "giver-1")
	if v2.ID == v1.ID {
		t.Fatal("resubmit after rejection must open a new application")
	}
	if v2.Status != StatusPending {
		t.Fatalf("expected pending, got %s", v2.Status)
	}
}

func TestService_Approve_MarksUserVerified(t *testing.T) {
	repo := newTestRepo()
	marker := testMarker{}
	svc := NewService(repo, marker)
	ctx := context.Background()

	v := submitDocs(t, svc, "giver-1")

	approved, err := svc.Approve(ctx, v.ID, "admin-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved || approved.VerifierUserID != "admin-1" || approved.VerifiedAt == nil {
		t.Fatalf("unexpected verification: %+v", approved)
	}
	if !marker["giver-1"] {
		t.Fatal("expected user marked verified")
	}

	// ya no está pendiente
	if _, err := svc.Approve(ctx, v.ID, "admin-2"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestService_Review_RejectsSelfReview(t *testing.T) {
	repo := newTestRepo()
	marker := testMarker{}
	svc := NewService(repo, marker)

	v := submitDocs(t, svc, "giver-1")

	if _, err := svc.Approve(context.Background(), v.ID, "giver-1"); !errors.Is(err, ErrSelfReview) {
		t.Fatalf("expected ErrSelfReview, got %v", err)
	}
	if marker["giver-1"] {
		t.Fatal("self review must not mark the user verified")
	}
}

func TestService_Reject_DoesNotMarkVerified(t *testing.T) {
	repo := newTestRepo()
	marker := testMarker{}
	svc := NewService(repo, marker)

	v := submitDocs(t, svc, "giver-1")

	rejected, err := svc.Reject(context.Background(), v.ID, "admin-1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if _, ok := marker["giver-1"]; ok {
		t.Fatal("reject must not touch the verified flag")
	}
}
