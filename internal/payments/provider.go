package payments

import (
	"context"
	"errors"
)

// EventCheckoutCompleted is the only event kind that triggers order
// persistence. All other kinds are acknowledged and ignored so the
// pipeline stays forward-compatible with events it does not understand.
const EventCheckoutCompleted = "checkout.session.completed"

// ErrInvalidSignature is returned when a webhook payload fails
// authenticity verification. It is the only webhook failure that the HTTP
// layer reports back to the provider.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// SessionLine is a normalized line item from the provider.
type SessionLine struct {
	Description    string
	Quantity       int64
	UnitAmount     int64 // minor units; 0 when the provider omitted it
	AmountTotal    int64
	AmountSubtotal int64
}

// Session is the provider's view of a hosted checkout, either just minted
// (ID and RedirectURL populated) or retrieved in full for reconciliation.
type Session struct {
	ID              string
	RedirectURL     string
	Currency        string
	AmountTotal     int64
	Paid            bool
	CustomerEmail   string
	CustomerPhone   string
	PaymentIntentID string
	Metadata        map[string]string
	Lines           []SessionLine
}

// Event is a verified webhook delivery.
type Event struct {
	Type      string
	SessionID string
}

// CreateSessionParams describes the hosted checkout to mint.
type CreateSessionParams struct {
	Currency      string
	Lines         []SessionLine
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Provider is the payment provider boundary. The production implementation
// wraps the Stripe SDK; tests substitute a mock.
type Provider interface {
	// CreateSession mints a hosted checkout session and returns its id
	// and redirect URL.
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	// GetSession retrieves the authoritative, fully itemized session.
	GetSession(ctx context.Context, id string) (*Session, error)
	// VerifyEvent checks the signature of a raw webhook payload and
	// returns the decoded event. The payload must be the untransformed
	// request body; any re-serialization upstream breaks verification.
	VerifyEvent(payload []byte, sigHeader string) (*Event, error)
}
