// internal/domain/models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
	OrderRefunded  = "refunded"
)

// PaymentMethods is the closed set of accepted payment methods.
var PaymentMethods = []string{"wechat", "alipay", "card"}

// Order binds a user to an activity and carries the payment and
// cancellation state of that enrollment. The amount is a snapshot of the
// activity price at creation time.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber   string             `bson:"order_number" json:"orderNumber"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Activity      primitive.ObjectID `bson:"activity" json:"activity"`
	Amount        float64            `bson:"amount" json:"amount"`
	Status        string             `bson:"status" json:"status"`
	PaymentMethod string             `bson:"payment_method,omitempty" json:"paymentMethod,omitempty"`
	PaymentTime   *time.Time         `bson:"payment_time,omitempty" json:"paymentTime,omitempty"`
	CancelReason  string             `bson:"cancel_reason,omitempty" json:"cancelReason,omitempty"`
	RefundAmount  *float64           `bson:"refund_amount,omitempty" json:"refundAmount,omitempty"`
	RefundTime    *time.Time         `bson:"refund_time,omitempty" json:"refundTime,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPaid, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// IsValidPaymentMethod reports whether m is an accepted payment method.
func IsValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
