package stripe_test

import (
	"testing"
	"time"
	"tutorbook/config"
	"tutorbook/infras/stripe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const payload = `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent","metadata":{"payment_id":"pay-1"}}}}`

func TestWebhook_Verify(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.Stripe.WebhookSecret = "whsec_test"

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})

	event, err := stripe.New(cfg).Verify(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, stripe.EventPaymentIntentSucceeded, string(event.Type))

	_, err = stripe.New(cfg).Verify(signed.Payload, "t=1,v1=bad")
	assert.Error(t, err)
}

func TestWebhook_NotConfigured(t *testing.T) {
	_, err := stripe.New(&config.Config{}).Verify([]byte(payload), "")
	assert.ErrorIs(t, err, stripe.ErrWebhookNotConfigured)
}
