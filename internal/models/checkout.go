package models

import (
	"strconv"
	"strings"
)

// Quantity is a client-supplied item count. Clients have been observed to
// send it as a JSON number, a numeric string, or garbage; anything that
// does not parse as a positive integer normalizes to 1 rather than
// corrupting the order or failing the request.
type Quantity int64

// UnmarshalJSON accepts numbers and numeric strings. Unparseable input
// leaves the quantity at zero; Normalize clamps that to one.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			n = int64(f)
		} else {
			n = 0
		}
	}
	*q = Quantity(n)
	return nil
}

// Normalize returns the quantity clamped to a minimum of 1.
func (q Quantity) Normalize() int64 {
	if q < 1 {
		return 1
	}
	return int64(q)
}

// CartLine references a catalog item and a requested quantity. It carries
// no price field on purpose: unit amounts are always resolved server-side
// from the catalog, so a tampered client price has nowhere to land.
type CartLine struct {
	ProductID string   `json:"productId" validate:"required"`
	Quantity  Quantity `json:"quantity"`
}

// BuyerInfo is the contact metadata attached to a checkout session. Only
// the email participates in the provider flow; the rest rides along as
// opaque metadata for the reconciler to retrieve later.
type BuyerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CheckoutSession is the result of minting a hosted checkout with the
// payment provider. It is ephemeral: only the session id is retained, on
// the order, as the join key for webhook reconciliation.
type CheckoutSession struct {
	SessionID   string     `json:"sessionId"`
	RedirectURL string     `json:"url"`
	Currency    string     `json:"currency"`
	Items       []LineItem `json:"items"`
	TotalCents  int64      `json:"totalCents"`
}

// MarshalJSON encodes the quantity as a plain number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(q), 10)), nil
}
