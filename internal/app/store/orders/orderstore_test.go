package orderstore_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	"github.com/unimove/unimove/internal/app/system/indexes"
	"github.com/unimove/unimove/internal/domain/models"
	"github.com/unimove/unimove/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newStore(t *testing.T) (*orderstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return orderstore.New(db), testutil.NewFixtures(t, db)
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Now()
	n := orderstore.NewOrderNumber(now)
	if !strings.HasPrefix(n, "UM") {
		t.Errorf("order number %q should start with UM", n)
	}
	if len(n) != 2+13+6 {
		t.Errorf("order number %q has length %d, want 21", n, len(n))
	}
	if n == orderstore.NewOrderNumber(now) {
		t.Error("two order numbers from the same instant should differ")
	}
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Order{
		User:     primitive.NewObjectID(),
		Activity: primitive.NewObjectID(),
		Amount:   25,
		Status:   models.OrderPaid,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.OrderNumber == "" {
		t.Error("expected a generated order number")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Amount != 25 || got.Status != models.OrderPaid {
		t.Errorf("got amount=%v status=%q", got.Amount, got.Status)
	}
}

func TestCreate_DuplicateLive(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	activity := primitive.NewObjectID()

	if _, err := store.Create(ctx, models.Order{User: user, Activity: activity, Amount: 10, Status: models.OrderPaid}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Order{User: user, Activity: activity, Amount: 10, Status: models.OrderPending})
	if !errors.Is(err, orderstore.ErrDuplicateLive) {
		t.Errorf("expected ErrDuplicateLive, got %v", err)
	}
}

// A refunded order does not count as live, so a new booking is allowed.
func TestCreate_AfterRefundAllowed(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	activity := primitive.NewObjectID()

	first, err := store.Create(ctx, models.Order{User: user, Activity: activity, Amount: 10, Status: models.OrderPaid})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := store.MarkRefunded(ctx, first.ID, "changed plans"); err != nil {
		t.Fatalf("MarkRefunded failed: %v", err)
	}

	if _, err := store.Create(ctx, models.Order{User: user, Activity: activity, Amount: 10, Status: models.OrderPaid}); err != nil {
		t.Errorf("rebooking after refund should succeed, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	order, err := store.Create(ctx, models.Order{
		User:     primitive.NewObjectID(),
		Activity: primitive.NewObjectID(),
		Amount:   30,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paid, err := store.MarkPaid(ctx, order.ID, "alipay")
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if paid.Status != models.OrderPaid || paid.PaymentMethod != "alipay" || paid.PaymentTime == nil {
		t.Errorf("got status=%q method=%q time=%v", paid.Status, paid.PaymentMethod, paid.PaymentTime)
	}

	// Second pay must fail: the order is no longer pending.
	if _, err := store.MarkPaid(ctx, order.ID, "wechat"); !errors.Is(err, orderstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for double pay, got %v", err)
	}
}

func TestMarkCancelled(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	order, err := store.Create(ctx, models.Order{
		User:     primitive.NewObjectID(),
		Activity: primitive.NewObjectID(),
		Amount:   30,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cancelled, err := store.MarkCancelled(ctx, order.ID, "user cancelled")
	if err != nil {
		t.Fatalf("MarkCancelled failed: %v", err)
	}
	if cancelled.Status != models.OrderCancelled || cancelled.CancelReason != "user cancelled" {
		t.Errorf("got status=%q reason=%q", cancelled.Status, cancelled.CancelReason)
	}
}

func TestMarkRefunded(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	order, err := store.Create(ctx, models.Order{
		User:     primitive.NewObjectID(),
		Activity: primitive.NewObjectID(),
		Amount:   42.5,
		Status:   models.OrderPaid,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	refunded, err := store.MarkRefunded(ctx, order.ID, "rained out")
	if err != nil {
		t.Fatalf("MarkRefunded failed: %v", err)
	}
	if refunded.Status != models.OrderRefunded {
		t.Errorf("status: got %q", refunded.Status)
	}
	if refunded.RefundAmount == nil || *refunded.RefundAmount != 42.5 {
		t.Errorf("refundAmount: got %v, want 42.5", refunded.RefundAmount)
	}
	if refunded.RefundTime == nil {
		t.Error("expected a refund time")
	}

	// Refunding a non-paid order must fail.
	if _, err := store.MarkRefunded(ctx, order.ID, "again"); !errors.Is(err, orderstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for double refund, got %v", err)
	}
}

func TestHasPaidOrder(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	activity := primitive.NewObjectID()

	ok, err := store.HasPaidOrder(ctx, user, activity)
	if err != nil {
		t.Fatalf("HasPaidOrder failed: %v", err)
	}
	if ok {
		t.Error("expected no paid order yet")
	}

	if _, err := store.Create(ctx, models.Order{User: user, Activity: activity, Amount: 10, Status: models.OrderPaid}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ok, err = store.HasPaidOrder(ctx, user, activity)
	if err != nil {
		t.Fatalf("HasPaidOrder failed: %v", err)
	}
	if !ok {
		t.Error("expected a paid order")
	}
}

func TestHasLiveOrder(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	activity := primitive.NewObjectID()

	ok, err := store.HasLiveOrder(ctx, user, activity)
	if err != nil {
		t.Fatalf("HasLiveOrder failed: %v", err)
	}
	if ok {
		t.Error("expected no live order yet")
	}

	order, err := store.Create(ctx, models.Order{User: user, Activity: activity, Amount: 10, Status: models.OrderPending})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ok, err = store.HasLiveOrder(ctx, user, activity)
	if err != nil {
		t.Fatalf("HasLiveOrder failed: %v", err)
	}
	if !ok {
		t.Error("a pending order counts as live")
	}

	// A closed order does not.
	if _, err := store.MarkCancelled(ctx, order.ID, "changed plans"); err != nil {
		t.Fatalf("MarkCancelled failed: %v", err)
	}
	ok, err = store.HasLiveOrder(ctx, user, activity)
	if err != nil {
		t.Fatalf("HasLiveOrder failed: %v", err)
	}
	if ok {
		t.Error("a cancelled order should not count as live")
	}
}

func TestListByUser_StatusFilter(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	if _, err := store.Create(ctx, models.Order{User: user, Activity: primitive.NewObjectID(), Amount: 10, Status: models.OrderPaid}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Order{User: user, Activity: primitive.NewObjectID(), Amount: 20, Status: models.OrderCancelled}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, total, err := store.ListByUser(ctx, user, models.OrderPaid, 0, 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Status != models.OrderPaid {
		t.Errorf("paid filter: got %d results (total %d)", len(list), total)
	}

	_, total, err = store.ListByUser(ctx, user, "", 0, 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if total != 2 {
		t.Errorf("unfiltered total: got %d, want 2", total)
	}
}
