package stripe

import (
	"errors"
	"fmt"
	"tutorbook/config"

	stripeGo "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	ProviderName = "stripe"

	// MetadataPaymentID is the PaymentIntent metadata key holding our payment id.
	MetadataPaymentID = "payment_id"

	EventPaymentIntentSucceeded = "payment_intent.succeeded"
	EventPaymentIntentFailed    = "payment_intent.payment_failed"
	EventPaymentIntentCanceled  = "payment_intent.canceled"
)

var ErrWebhookNotConfigured = errors.New("stripe webhook secret is not configured")

// Webhook verifies provider callbacks before they are allowed to settle payments.
type Webhook interface {
	Verify(payload []byte, signature string) (stripeGo.Event, error)
}

type webhookImpl struct {
	secret string
}

func New(cfg *config.Config) Webhook {
	return &webhookImpl{
		secret: cfg.External.Stripe.WebhookSecret,
	}
}

func (w *webhookImpl) Verify(payload []byte, signature string) (stripeGo.Event, error) {
	if w.secret == "" {
		return stripeGo.Event{}, ErrWebhookNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, w.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripeGo.Event{}, fmt.Errorf("failed to verify stripe webhook: %w", err)
	}

	return event, nil
}
