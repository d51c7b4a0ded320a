// Package payments integrates Stripe PaymentIntent hold/capture/cancel
// flows with the ride lifecycle. The whole package is optional: when no
// API key is configured, booking runs without payment holds.
package payments

import (
	"context"
	"os"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// StripeClient is a thin wrapper around stripe-go for PaymentIntent
// hold/capture/cancel flows.
type StripeClient struct{}

// NewStripeClient initializes the stripe client from the
// STRIPE_API_KEY env var, or returns nil when it is unset.
func NewStripeClient() *StripeClient {
	key := os.Getenv("STRIPE_API_KEY")
	if key == "" {
		return nil
	}
	stripe.Key = key
	return &StripeClient{}
}

// Hold creates a PaymentIntent with capture_method=manual to hold
// funds and returns the PaymentIntent ID.
func (s *StripeClient) Hold(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

// Capture finalizes a previously-held PaymentIntent.
func (s *StripeClient) Capture(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Capture(paymentIntentID, nil)
	return err
}

// Cancel releases the hold on a PaymentIntent.
func (s *StripeClient) Cancel(ctx context.Context, paymentIntentID string) error {
	_, err := paymentintent.Cancel(paymentIntentID, nil)
	return err
}
