package memory

import (
	"context"
	"strings"
	"testing"

	"pet-services-marketplace/internal/ports/backend"
)

func TestSignUp_AndSignIn(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	sess, err := b.SignUp(ctx, "Ana@Example.com", "secret123", map[string]string{
		"full_name": "Ana García",
		"role":      "owner",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if sess.AccessToken == "" {
		t.Fatal("signup: expected access token")
	}
	if sess.User.Email != "ana@example.com" {
		t.Fatalf("signup: email not normalized, got %q", sess.User.Email)
	}
	if sess.User.Metadata["role"] != "owner" {
		t.Fatalf("signup: metadata lost, got %v", sess.User.Metadata)
	}

	// el mismo par email/password abre otra sesión
	sess2, err := b.SignIn(ctx, "ana@example.com", "secret123")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if sess2.User.ID != sess.User.ID {
		t.Fatalf("signin: expected same identity, got %q vs %q", sess2.User.ID, sess.User.ID)
	}
	if sess2.AccessToken == sess.AccessToken {
		t.Fatal("signin: expected a fresh token per session")
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	if _, err := b.SignUp(ctx, "ana@example.com", "secret123", nil); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, err := b.SignUp(ctx, "ana@example.com", "otherpass", nil)
	if backend.KindOf(err) != backend.KindEmailTaken {
		t.Fatalf("expected KindEmailTaken, got %v", err)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	if _, err := b.SignUp(ctx, "ana@example.com", "secret123", nil); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := b.SignIn(ctx, "ana@example.com", "wrong")
	if backend.KindOf(err) != backend.KindInvalidCredentials {
		t.Fatalf("expected KindInvalidCredentials, got %v", err)
	}
	// mismo mensaje para password incorrecto y usuario inexistente
	if !strings.Contains(err.Error(), "mocked DB: invalid credentials") {
		t.Fatalf("unexpected message: %v", err)
	}

	_, err2 := b.SignIn(ctx, "nadie@example.com", "secret123")
	if err2 == nil || err2.Error() != err.Error() {
		t.Fatalf("expected identical error for unknown user, got %v", err2)
	}
}

func TestSignOut_RevokesSession(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	sess, err := b.SignUp(ctx, "ana@example.com", "secret123", nil)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := b.GetUser(ctx, sess.AccessToken); err != nil {
		t.Fatalf("get user before signout: %v", err)
	}

	if err := b.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatalf("signout: %v", err)
	}

	_, err = b.GetUser(ctx, sess.AccessToken)
	if backend.KindOf(err) != backend.KindUnauthorized {
		t.Fatalf("expected revoked session, got %v", err)
	}
}

func TestSelect_UsersByID(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	sess, err := b.SignUp(ctx, "ana@example.com", "secret123", map[string]string{
		"full_name": "Ana",
		"role":      "giver",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	rows, err := b.Select(ctx, "users", backend.Eq("id", sess.User.ID))
	if err != nil {
		t.Fatalf("select users: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["email"] != "ana@example.com" || rows[0]["role"] != "giver" {
		t.Fatalf("unexpected row: %v", rows[0])
	}
}

func TestSelect_UsersByUnknownID_NoMockData(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	if _, err := b.SignUp(ctx, "ana@example.com", "secret123", nil); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// id que no corresponde a ninguna cuenta mock
	_, err := b.Select(ctx, "users", backend.Eq("id", "no-such-user"))
	if backend.KindOf(err) != backend.KindNoData {
		t.Fatalf("expected KindNoData, got %v", err)
	}
	if !strings.Contains(err.Error(), `mocked DB: no mock data available for table "users"`) {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestSelect_UnknownTable_NoMockData(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	_, err := b.Select(ctx, "pets", backend.Eq("owner_user_id", "x"))
	if backend.KindOf(err) != backend.KindNoData {
		t.Fatalf("expected KindNoData, got %v", err)
	}
	if !strings.Contains(err.Error(), `mocked DB: no mock data available for table "pets"`) {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestInsert_EchoesRowWithID(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	row, err := b.Insert(ctx, "users", map[string]any{"email": "ana@example.com"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if row["email"] != "ana@example.com" {
		t.Fatalf("insert dropped fields: %v", row)
	}
	if id, _ := row["id"].(string); id == "" {
		t.Fatalf("insert: expected generated id, got %v", row["id"])
	}
}

func TestUpdateAndDelete_UnavailableInDemoMode(t *testing.T) {
	b := New(nil)
	ctx := context.Background()

	_, err := b.Update(ctx, "users", map[string]any{"full_name": "X"}, backend.Eq("id", "u1"))
	if backend.KindOf(err) != backend.KindUnavailable {
		t.Fatalf("expected KindUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "mocked DB: update not available in demo mode") {
		t.Fatalf("unexpected message: %v", err)
	}

	if err := b.Delete(ctx, "users", backend.Eq("id", "u1")); backend.KindOf(err) != backend.KindUnavailable {
		t.Fatalf("expected KindUnavailable on delete, got %v", err)
	}
}
