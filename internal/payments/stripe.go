package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeProvider implements Provider on top of the Stripe SDK.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider creates a provider with its own API client. The
// webhook secret is the shared secret for event signature verification.
func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// CreateSession mints a hosted checkout session in payment mode.
func (p *StripeProvider) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.Lines))
	for _, line := range params.Lines {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(strings.ToLower(params.Currency)),
			UnitAmount: stripe.Int64(line.UnitAmount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(line.Description),
			},
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(line.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("stripe session create: %w", err)
	}

	return &Session{
		ID:          sess.ID,
		RedirectURL: sess.URL,
		Currency:    strings.ToUpper(string(sess.Currency)),
	}, nil
}

// GetSession retrieves the full session with line items expanded.
func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	getParams.AddExpand("line_items")

	sess, err := p.api.CheckoutSessions.Get(id, getParams)
	if err != nil {
		return nil, fmt.Errorf("stripe session retrieve: %w", err)
	}
	return fromStripeSession(sess), nil
}

// VerifyEvent validates the Stripe-Signature header against the shared
// webhook secret and decodes the event envelope.
func (p *StripeProvider) VerifyEvent(payload []byte, sigHeader string) (*Event, error) {
	evt, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	// The envelope carries a summarized session object; only its id is
	// trusted, the full record is re-fetched for reconciliation.
	var object struct {
		ID string `json:"id"`
	}
	if len(evt.Data.Raw) > 0 {
		if err := json.Unmarshal(evt.Data.Raw, &object); err != nil {
			return nil, fmt.Errorf("decode event object: %w", err)
		}
	}

	return &Event{
		Type:      string(evt.Type),
		SessionID: object.ID,
	}, nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            sess.ID,
		RedirectURL:   sess.URL,
		Currency:      strings.ToUpper(string(sess.Currency)),
		AmountTotal:   sess.AmountTotal,
		Paid:          sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		CustomerEmail: sess.CustomerEmail,
		Metadata:      sess.Metadata,
	}
	if sess.CustomerDetails != nil {
		if sess.CustomerDetails.Email != "" {
			out.CustomerEmail = sess.CustomerDetails.Email
		}
		out.CustomerPhone = sess.CustomerDetails.Phone
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.LineItems != nil {
		for _, li := range sess.LineItems.Data {
			line := SessionLine{
				Description:    li.Description,
				Quantity:       li.Quantity,
				AmountTotal:    li.AmountTotal,
				AmountSubtotal: li.AmountSubtotal,
			}
			if li.Price != nil {
				line.UnitAmount = li.Price.UnitAmount
			}
			out.Lines = append(out.Lines, line)
		}
	}
	return out
}
