package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/indexes"
	"github.com/unimove/unimove/internal/domain/models"
	"github.com/unimove/unimove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *userstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return userstore.New(db)
}

func TestCreate_NormalizesAndHashes(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Username: "  alice  ",
		Email:    "Alice@Example.COM",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Username != "alice" {
		t.Errorf("username: got %q", created.Username)
	}
	if created.Email != "alice@example.com" {
		t.Errorf("email: got %q", created.Email)
	}
	if created.Role != "user" {
		t.Errorf("role: got %q, want user", created.Role)
	}
	if !created.IsActive {
		t.Error("new users should be active")
	}
	if created.Password == "secret123" {
		t.Error("password must be hashed, not stored in plaintext")
	}
	if !userstore.VerifyPassword(&created, "secret123") {
		t.Error("VerifyPassword should accept the original plaintext")
	}
	if userstore.VerifyPassword(&created, "wrong") {
		t.Error("VerifyPassword should reject a wrong password")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Username: "alice", Email: "alice@test.com", Password: "secret123"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Username: "alice2", Email: "ALICE@test.com", Password: "secret123"})
	if !errors.Is(err, userstore.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Username: "eve", Email: "eve@test.com", Password: "secret123", Role: "superadmin"}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestGetByEmail(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Username: "bob", Email: "bob@test.com", Password: "secret123"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, " BOB@test.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got == nil || got.Username != "bob" {
		t.Errorf("got %+v", got)
	}

	missing, err := store.GetByEmail(ctx, "nobody@test.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestUpdateProfile_Partial(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "carol", Email: "carol@test.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	phone := "555-0100"
	updated, err := store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{Phone: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Phone != "555-0100" {
		t.Errorf("phone: got %q", updated.Phone)
	}
	if updated.Username != "carol" {
		t.Errorf("username should be untouched, got %q", updated.Username)
	}
}

func TestSetPassword(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "dave", Email: "dave@test.com", Password: "oldpass1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SetPassword(ctx, created.ID, "newpass1"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !userstore.VerifyPassword(got, "newpass1") {
		t.Error("new password should verify")
	}
	if userstore.VerifyPassword(got, "oldpass1") {
		t.Error("old password should no longer verify")
	}
}

func TestSummaries(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.User{Username: "anna", Email: "anna@test.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	missing := primitive.NewObjectID()

	out, err := store.Summaries(ctx, []primitive.ObjectID{a.ID, missing})
	if err != nil {
		t.Fatalf("Summaries failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d summaries, want 1", len(out))
	}
	if out[a.ID].Username != "anna" {
		t.Errorf("summary username: got %q", out[a.ID].Username)
	}
}
