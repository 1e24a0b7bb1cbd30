package users_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/unimove/unimove/internal/app/features/users"
	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/auth"
	"github.com/unimove/unimove/internal/app/system/indexes"
	"github.com/unimove/unimove/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tokens, err := auth.NewTokenManager("test-secret-0123456789abcdef0123456789", "unimove", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	handler := users.NewHandler(userstore.New(db), tokens, zap.NewNop())
	return handler, testutil.NewFixtures(t, db)
}

func TestServeRegister_Success(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/users/register", map[string]any{
		"username": "alice",
		"email":    "alice@test.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	handler.ServeRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	env := testutil.DecodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]any)
	if data["token"] == "" || data["token"] == nil {
		t.Error("expected a token in the response")
	}
	user, _ := data["user"].(map[string]any)
	if user["role"] != "user" {
		t.Errorf("role: got %v, want user", user["role"])
	}
}

func TestServeRegister_ShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/users/register", map[string]any{
		"username": "alice",
		"email":    "alice@test.com",
		"password": "12345",
	})
	rec := httptest.NewRecorder()
	handler.ServeRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeRegister_DuplicateEmail(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")

	req := testutil.NewJSONRequest(t, "POST", "/users/register", map[string]any{
		"username": "alice2",
		"email":    "alice@test.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	handler.ServeRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeLogin_Success(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Register through the handler so the password hash matches.
	reg := testutil.NewJSONRequest(t, "POST", "/users/register", map[string]any{
		"username": "bob",
		"email":    "bob@test.com",
		"password": "secret123",
	})
	regRec := httptest.NewRecorder()
	handler.ServeRegister(regRec, reg)
	if regRec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", regRec.Code, regRec.Body.String())
	}

	req := testutil.NewJSONRequest(t, "POST", "/users/login", map[string]any{
		"email":    "BOB@test.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	env := testutil.DecodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]any)
	if data["token"] == nil || data["refreshToken"] == nil {
		t.Error("expected token and refreshToken in the response")
	}
}

func TestServeLogin_WrongPassword(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "carol", "carol@test.com", "rightpass", "user")

	req := testutil.NewJSONRequest(t, "POST", "/users/login", map[string]any{
		"email":    "carol@test.com",
		"password": "wrongpass",
	})
	rec := httptest.NewRecorder()
	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeLogin_UnknownEmail_SameMessage(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/users/login", map[string]any{
		"email":    "nobody@test.com",
		"password": "whatever1",
	})
	rec := httptest.NewRecorder()
	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if env["message"] != "incorrect email or password" {
		t.Errorf("message: got %v", env["message"])
	}
}
