package models

import (
	"encoding/json"
	"time"
)

// Order lifecycle statuses. The webhook reconciler only ever writes
// StatusPending or StatusPaid; the remaining statuses are set by explicit
// admin action.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
)

// statusTransitions encodes the allowed order state machine:
// pending -> paid -> fulfilled, with side exits pending|paid -> cancelled
// and paid -> refunded.
var statusTransitions = map[string][]string{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusFulfilled, StatusCancelled, StatusRefunded},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusFulfilled, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LineItem is one catalog item's snapshot within an order: name and image
// are copied at order time so later catalog edits do not rewrite history.
// All amounts are integer minor units.
type LineItem struct {
	ProductID      string `json:"productId,omitempty" bson:"product_id,omitempty"`
	Name           string `json:"name" bson:"name"`
	ImageSrc       string `json:"imageSrc,omitempty" bson:"image_src,omitempty"`
	PriceCents     int64  `json:"priceCents" bson:"price_cents"`
	Quantity       int64  `json:"quantity" bson:"quantity"`
	LineTotalCents int64  `json:"lineTotalCents" bson:"line_total_cents"`
}

// Order is the durable record of a purchase. TotalCents is the canonical
// total; the major-unit "total" JSON field is derived at render time and
// never stored. StripeSessionID is the join key for webhook reconciliation
// and is unique (sparse) in the order store.
type Order struct {
	ID              string     `json:"id" bson:"_id,omitempty"`
	UserID          string     `json:"userId,omitempty" bson:"user_id,omitempty"`
	Name            string     `json:"name" bson:"name"`
	Email           string     `json:"email" bson:"email"`
	Phone           string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Address         string     `json:"address,omitempty" bson:"address,omitempty"`
	Currency        string     `json:"currency" bson:"currency"`
	Items           []LineItem `json:"items" bson:"items"`
	TotalCents      int64      `json:"totalCents" bson:"total_cents"`
	Status          string     `json:"status" bson:"status"`
	StripeSessionID string     `json:"stripeSessionId,omitempty" bson:"stripe_session_id,omitempty"`
	PaymentIntentID string     `json:"paymentIntentId,omitempty" bson:"payment_intent_id,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updated_at"`
}

// SumLineTotals returns the sum of all line totals in minor units.
func (o *Order) SumLineTotals() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.LineTotalCents
	}
	return sum
}

// MarshalJSON adds the derived major-unit total to the rendered order.
func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		Total float64 `json:"total"`
	}{
		alias: alias(o),
		Total: Money{AmountMinor: o.TotalCents, Currency: o.Currency}.MajorUnits(),
	})
}
