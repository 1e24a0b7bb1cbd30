package orders_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/unimove/unimove/internal/app/features/orders"
	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/indexes"
	"github.com/unimove/unimove/internal/domain/models"
	"github.com/unimove/unimove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*orders.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	handler := orders.NewHandler(orderstore.New(db), activitystore.New(db), userstore.New(db), zap.NewNop())
	return handler, testutil.NewFixtures(t, db)
}

func TestServeCreate_BooksAndPays(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)

	req := testutil.NewJSONRequest(t, "POST", "/orders", map[string]any{
		"activityId":    activity.ID.Hex(),
		"paymentMethod": "wechat",
	})
	req = testutil.WithUser(req, alice)

	rec := httptest.NewRecorder()
	handler.ServeCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	env := testutil.DecodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]any)
	order, _ := data["order"].(map[string]any)
	if order["status"] != models.OrderPaid {
		t.Errorf("order status: got %v, want paid", order["status"])
	}
	if order["amount"] != float64(25) {
		t.Errorf("amount: got %v, want the activity price", order["amount"])
	}

	// Booking also takes the seat.
	var updated models.Activity
	if err := fixtures.DB().Collection("activities").FindOne(ctx, bson.M{"_id": activity.ID}).Decode(&updated); err != nil {
		t.Fatalf("reload activity: %v", err)
	}
	if updated.CurrentParticipants != 1 || !updated.HasParticipant(alice.ID) {
		t.Errorf("seat not taken: counter=%d", updated.CurrentParticipants)
	}
}

func TestServeCreate_AlreadyJoined(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)

	// Alice already holds a seat through the join endpoint.
	store := activitystore.New(fixtures.DB())
	if err := store.Enroll(ctx, activity.ID, alice.ID); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	req := testutil.NewJSONRequest(t, "POST", "/orders", map[string]any{
		"activityId":    activity.ID.Hex(),
		"paymentMethod": "card",
	})
	req = testutil.WithUser(req, alice)

	rec := httptest.NewRecorder()
	handler.ServeCreate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeCreate_ExistingLiveOrder(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)

	// A pending order holds no seat but still blocks a second booking.
	fixtures.CreateOrder(ctx, alice.ID, activity.ID, 25, models.OrderPending)

	req := testutil.NewJSONRequest(t, "POST", "/orders", map[string]any{
		"activityId":    activity.ID.Hex(),
		"paymentMethod": "wechat",
	})
	req = testutil.WithUser(req, alice)

	rec := httptest.NewRecorder()
	handler.ServeCreate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}

	// The rejected booking must not leave a seat behind.
	var updated models.Activity
	if err := fixtures.DB().Collection("activities").FindOne(ctx, bson.M{"_id": activity.ID}).Decode(&updated); err != nil {
		t.Fatalf("reload activity: %v", err)
	}
	if updated.CurrentParticipants != 0 || updated.HasParticipant(alice.ID) {
		t.Errorf("seat leaked: counter=%d", updated.CurrentParticipants)
	}
}

func TestServeCreate_BadPaymentMethod(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)

	req := testutil.NewJSONRequest(t, "POST", "/orders", map[string]any{
		"activityId":    activity.ID.Hex(),
		"paymentMethod": "cash",
	})
	req = testutil.WithUser(req, alice)

	rec := httptest.NewRecorder()
	handler.ServeCreate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeCancel_PaidFarFromStart_Refunds(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	// Starts in 25 hours: still inside the refund window.
	activity := fixtures.CreateActivityAt(ctx, "Hoops", organizer.ID, time.Now().UTC().Add(25*time.Hour))

	store := activitystore.New(fixtures.DB())
	if err := store.Enroll(ctx, activity.ID, alice.ID); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	order := fixtures.CreateOrder(ctx, alice.ID, activity.ID, 25, models.OrderPaid)

	req := testutil.NewJSONRequest(t, "PUT", "/orders/"+order.ID.Hex()+"/cancel", map[string]any{
		"reason": "schedule conflict",
	})
	req = testutil.WithUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", order.ID.Hex())

	rec := httptest.NewRecorder()
	handler.ServeCancel(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	env := testutil.DecodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]any)
	got, _ := data["order"].(map[string]any)
	if got["status"] != models.OrderRefunded {
		t.Errorf("status: got %v, want refunded", got["status"])
	}
	if got["refundAmount"] != float64(25) {
		t.Errorf("refundAmount: got %v, want 25", got["refundAmount"])
	}

	// The seat is released.
	var updated models.Activity
	if err := fixtures.DB().Collection("activities").FindOne(ctx, bson.M{"_id": activity.ID}).Decode(&updated); err != nil {
		t.Fatalf("reload activity: %v", err)
	}
	if updated.CurrentParticipants != 0 || updated.HasParticipant(alice.ID) {
		t.Errorf("seat not released: counter=%d", updated.CurrentParticipants)
	}
}

func TestServeCancel_PaidTooCloseToStart(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	// Starts in 23 hours: past the refund cutoff.
	activity := fixtures.CreateActivityAt(ctx, "Hoops", organizer.ID, time.Now().UTC().Add(23*time.Hour))
	order := fixtures.CreateOrder(ctx, alice.ID, activity.ID, 25, models.OrderPaid)

	req := testutil.NewJSONRequest(t, "PUT", "/orders/"+order.ID.Hex()+"/cancel", nil)
	req = testutil.WithUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", order.ID.Hex())

	rec := httptest.NewRecorder()
	handler.ServeCancel(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestServeCancel_Pending_DefaultReason(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)
	order := fixtures.CreateOrder(ctx, alice.ID, activity.ID, 25, models.OrderPending)

	req := testutil.NewJSONRequest(t, "PUT", "/orders/"+order.ID.Hex()+"/cancel", nil)
	req = testutil.WithUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", order.ID.Hex())

	rec := httptest.NewRecorder()
	handler.ServeCancel(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	env := testutil.DecodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]any)
	got, _ := data["order"].(map[string]any)
	if got["status"] != models.OrderCancelled {
		t.Errorf("status: got %v, want cancelled", got["status"])
	}
	if got["cancelReason"] != "user cancelled" {
		t.Errorf("cancelReason: got %v, want the default", got["cancelReason"])
	}
}

func TestServeCancel_NotOwner(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	mallory := fixtures.CreateUser(ctx, "mallory", "mallory@test.com", "secret123", "user")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)
	order := fixtures.CreateOrder(ctx, alice.ID, activity.ID, 25, models.OrderPaid)

	req := testutil.NewJSONRequest(t, "PUT", "/orders/"+order.ID.Hex()+"/cancel", nil)
	req = testutil.WithUser(req, mallory)
	req = testutil.WithChiURLParam(req, "id", order.ID.Hex())

	rec := httptest.NewRecorder()
	handler.ServeCancel(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestServePay_PendingOrder(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)
	order := fixtures.CreateOrder(ctx, alice.ID, activity.ID, 25, models.OrderPending)

	req := testutil.NewJSONRequest(t, "PUT", "/orders/"+order.ID.Hex()+"/pay", map[string]any{
		"paymentMethod": "alipay",
	})
	req = testutil.WithUser(req, alice)
	req = testutil.WithChiURLParam(req, "id", order.ID.Hex())

	rec := httptest.NewRecorder()
	handler.ServePay(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	env := testutil.DecodeEnvelope(t, rec)
	data, _ := env["data"].(map[string]any)
	got, _ := data["order"].(map[string]any)
	if got["status"] != models.OrderPaid {
		t.Errorf("status: got %v, want paid", got["status"])
	}

	// Paying also takes the seat.
	var updated models.Activity
	if err := fixtures.DB().Collection("activities").FindOne(ctx, bson.M{"_id": activity.ID}).Decode(&updated); err != nil {
		t.Fatalf("reload activity: %v", err)
	}
	if !updated.HasParticipant(alice.ID) {
		t.Error("payment should enroll the buyer")
	}
}

func TestServeDetail_AdminCanView(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	organizer := fixtures.CreateUser(ctx, "org", "org@test.com", "secret123", "user")
	alice := fixtures.CreateUser(ctx, "alice", "alice@test.com", "secret123", "user")
	admin := fixtures.CreateUser(ctx, "root", "root@test.com", "secret123", "admin")
	activity := fixtures.CreateActivity(ctx, "Hoops", organizer.ID, 5)
	order := fixtures.CreateOrder(ctx, alice.ID, activity.ID, 25, models.OrderPaid)

	req := httptest.NewRequest("GET", "/orders/"+order.ID.Hex(), nil)
	req = testutil.WithUser(req, admin)
	req = testutil.WithChiURLParam(req, "id", order.ID.Hex())

	rec := httptest.NewRecorder()
	handler.ServeDetail(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin view status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
}
