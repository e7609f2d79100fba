package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// Stripe creates Checkout sessions with its own API client; no global key.
type Stripe struct {
	api         *client.API
	productName string
	successURL  string
	cancelURL   string
}

type StripeOptions struct {
	SecretKey   string
	ProductName string // line item name, "Transcription" when empty
	SuccessURL  string // may contain {CHECKOUT_SESSION_ID}
	CancelURL   string
	Backends    *stripe.Backends // optional, for tests
}

func NewStripe(opts StripeOptions) (*Stripe, error) {
	if opts.SecretKey == "" {
		return nil, errors.New("stripe secret key not set: set AURICLE_STRIPE_SECRET_KEY or add stripe_secret_key to config")
	}
	if opts.SuccessURL == "" || opts.CancelURL == "" {
		return nil, errors.New("stripe checkout needs both a success and a cancel URL")
	}
	name := opts.ProductName
	if name == "" {
		name = "Transcription"
	}

	api := &client.API{}
	api.Init(opts.SecretKey, opts.Backends)
	return &Stripe{
		api:         api,
		productName: name,
		successURL:  opts.SuccessURL,
		cancelURL:   opts.CancelURL,
	}, nil
}

// CreateCheckout opens a one-item card payment for the quoted amount.
func (s *Stripe) CreateCheckout(ctx context.Context, quote transcript.PriceQuote) (*transcript.Checkout, error) {
	cents := quote.Cents()
	if cents <= 0 {
		return nil, &transcript.ValidationError{Field: "price", Reason: "must be positive to check out"}
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(quote.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(s.productName),
					},
					UnitAmount: stripe.Int64(cents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return &transcript.Checkout{SessionID: sess.ID, URL: sess.URL}, nil
}

// IsPaid reports whether the session's payment status is "paid".
func (s *Stripe) IsPaid(ctx context.Context, sessionID string) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return false, fmt.Errorf("stripe: %w", err)
	}
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
