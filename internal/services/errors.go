package services

import "errors"

var (
	// ErrEmptyCart rejects checkout requests with no cart lines.
	ErrEmptyCart = errors.New("cart is empty, nothing to check out")
	// ErrUnsupportedCurrency rejects currencies outside the configured
	// allow-list.
	ErrUnsupportedCurrency = errors.New("currency is not supported")
	// ErrUnknownItem fails the whole checkout when any referenced catalog
	// item does not exist; partial sessions are never created.
	ErrUnknownItem = errors.New("cart references an unknown item")
	// ErrNoPriceAvailable means an item has no usable pricing
	// representation for the requested currency.
	ErrNoPriceAvailable = errors.New("no price available for item")
	// ErrSessionCreationFailed wraps payment provider failures and
	// timeouts while minting a checkout session. Never retried here.
	ErrSessionCreationFailed = errors.New("checkout session creation failed")
	// ErrInvalidStatus rejects unknown order statuses.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition rejects status changes the order state machine
	// does not allow.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrUserExists rejects registration when the username or email is
	// already taken.
	ErrUserExists = errors.New("user already exists")
)
