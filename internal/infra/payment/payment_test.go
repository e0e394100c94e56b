//go:build unit

package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"marketplace-checkout/internal/infra/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

const secret = "whsec_test"

func TestSandboxGateway_CreatePaymentIntent(t *testing.T) {
	ctx := context.Background()
	amount := decimal.RequireFromString("150.00")

	t.Run("同じセッションには同じインテント", func(t *testing.T) {
		g := payment.NewSandboxGateway(secret)
		meta := map[string]string{"session_id": uuid.NewString()}

		first, err := g.CreatePaymentIntent(ctx, amount, "MYR", meta)
		require.NoError(t, err)
		again, err := g.CreatePaymentIntent(ctx, amount, "MYR", meta)
		require.NoError(t, err)

		assert.Equal(t, first, again)
		assert.Regexp(t, `^pi_sandbox_[0-9a-f]{32}$`, first.IntentID)
		assert.Equal(t, first.IntentID+"_secret", first.ClientSecret)

		other, err := g.CreatePaymentIntent(ctx, amount, "MYR", map[string]string{"session_id": uuid.NewString()})
		require.NoError(t, err)
		assert.NotEqual(t, first.IntentID, other.IntentID)
	})

	t.Run("版が変われば別インテント", func(t *testing.T) {
		g := payment.NewSandboxGateway(secret)
		sid := uuid.NewString()

		v2, err := g.CreatePaymentIntent(ctx, amount, "MYR", map[string]string{"session_id": sid, "session_version": "2"})
		require.NoError(t, err)
		v3, err := g.CreatePaymentIntent(ctx, decimal.RequireFromString("200.00"), "MYR", map[string]string{"session_id": sid, "session_version": "3"})
		require.NoError(t, err)
		assert.NotEqual(t, v2.IntentID, v3.IntentID)

		issued, ok := g.Intent(v3.IntentID)
		require.True(t, ok)
		assert.True(t, issued.Amount.Equal(decimal.RequireFromString("200.00")))
		assert.Equal(t, "MYR", issued.Currency)
		assert.False(t, issued.Cancelled)
	})

	t.Run("金額0はNG", func(t *testing.T) {
		g := payment.NewSandboxGateway(secret)
		_, err := g.CreatePaymentIntent(ctx, decimal.Zero, "MYR", nil)
		assert.Error(t, err)
	})

	t.Run("障害注入", func(t *testing.T) {
		g := payment.NewSandboxGateway(secret)
		outage := errors.New("processor unavailable")
		g.FailWith(outage)

		_, err := g.CreatePaymentIntent(ctx, amount, "MYR", nil)
		assert.ErrorIs(t, err, outage)

		g.FailWith(nil)
		_, err = g.CreatePaymentIntent(ctx, amount, "MYR", nil)
		assert.NoError(t, err)
	})
}

func TestSandboxGateway_CancelPaymentIntent(t *testing.T) {
	ctx := context.Background()
	amount := decimal.RequireFromString("10.00")

	t.Run("取消後は同じキーでも新しいインテント", func(t *testing.T) {
		g := payment.NewSandboxGateway(secret)
		meta := map[string]string{"session_id": uuid.NewString(), "session_version": "1"}
		first, err := g.CreatePaymentIntent(ctx, amount, "MYR", meta)
		require.NoError(t, err)

		require.NoError(t, g.CancelPaymentIntent(ctx, first.IntentID))
		issued, ok := g.Intent(first.IntentID)
		require.True(t, ok)
		assert.True(t, issued.Cancelled)

		again, err := g.CreatePaymentIntent(ctx, amount, "MYR", meta)
		require.NoError(t, err)
		assert.NotEqual(t, first.IntentID, again.IntentID)
	})

	t.Run("未知のインテントNG", func(t *testing.T) {
		g := payment.NewSandboxGateway(secret)
		assert.Error(t, g.CancelPaymentIntent(ctx, "pi_unknown"))
		_, ok := g.Intent("pi_unknown")
		assert.False(t, ok)
	})
}

func TestSandboxGateway_ParseWebhook(t *testing.T) {
	g := payment.NewSandboxGateway(secret)
	sessionID := uuid.New()

	t.Run("基本成功ケース", func(t *testing.T) {
		body, sig, err := g.SignedSucceeded("evt_1", "pi_1", sessionID, decimal.RequireFromString("97.64"))
		require.NoError(t, err)

		conf, err := g.ParseWebhook(body, sig)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", conf.EventID)
		assert.Equal(t, "pi_1", conf.IntentID)
		assert.Equal(t, sessionID, conf.SessionID)
		assert.True(t, conf.Succeeded)
		assert.True(t, conf.Amount.Equal(decimal.RequireFromString("97.64")))
	})

	t.Run("失敗イベントはSucceeded=false", func(t *testing.T) {
		body, err := json.Marshal(payment.SandboxEvent{ID: "evt_2", Type: "payment_intent.payment_failed", IntentID: "pi_1"})
		require.NoError(t, err)

		conf, err := g.ParseWebhook(body, g.Sign(body))
		require.NoError(t, err)
		assert.False(t, conf.Succeeded)
	})

	t.Run("署名不正NG", func(t *testing.T) {
		body, _, err := g.SignedSucceeded("evt_1", "pi_1", sessionID, decimal.RequireFromString("1"))
		require.NoError(t, err)

		_, err = g.ParseWebhook(body, payment.NewSandboxGateway("other").Sign(body))
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)

		tampered := append([]byte{}, body...)
		tampered[len(tampered)-2] = '9'
		_, err = g.ParseWebhook(tampered, g.Sign(body))
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	})
}

func stripeEvent(t *testing.T, eventType string, object map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":          "evt_stripe_1",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	return raw
}

func TestStripeGateway_ParseWebhook(t *testing.T) {
	g := payment.NewStripeGateway("sk_test_unused", secret)
	sessionID := uuid.New()
	intent := map[string]any{
		"id":       "pi_3Nabc",
		"object":   "payment_intent",
		"amount":   9764,
		"currency": "myr",
		"metadata": map[string]any{"session_id": sessionID.String()},
	}

	sign := func(payload []byte, key string) string {
		return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: key}).Header
	}

	t.Run("成功イベント", func(t *testing.T) {
		payload := stripeEvent(t, "payment_intent.succeeded", intent)

		conf, err := g.ParseWebhook(payload, sign(payload, secret))
		require.NoError(t, err)
		assert.Equal(t, "evt_stripe_1", conf.EventID)
		assert.Equal(t, "pi_3Nabc", conf.IntentID)
		assert.Equal(t, sessionID, conf.SessionID)
		assert.True(t, conf.Succeeded)
		assert.True(t, conf.Amount.Equal(decimal.RequireFromString("97.64")))
	})

	t.Run("失敗イベント", func(t *testing.T) {
		payload := stripeEvent(t, "payment_intent.payment_failed", intent)

		conf, err := g.ParseWebhook(payload, sign(payload, secret))
		require.NoError(t, err)
		assert.False(t, conf.Succeeded)
		assert.Equal(t, "pi_3Nabc", conf.IntentID)
	})

	t.Run("無関係なイベントは中身を読まない", func(t *testing.T) {
		payload := stripeEvent(t, "charge.refunded", map[string]any{"id": "ch_1", "object": "charge"})

		conf, err := g.ParseWebhook(payload, sign(payload, secret))
		require.NoError(t, err)
		assert.Equal(t, "evt_stripe_1", conf.EventID)
		assert.Empty(t, conf.IntentID)
		assert.False(t, conf.Succeeded)
	})

	t.Run("署名不正NG", func(t *testing.T) {
		payload := stripeEvent(t, "payment_intent.succeeded", intent)

		_, err := g.ParseWebhook(payload, sign(payload, "whsec_other"))
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)

		_, err = g.ParseWebhook(payload, "")
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	})
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount string
		units  int64
	}{
		{amount: "97.64", units: 9764},
		{amount: "0.01", units: 1},
		{amount: "10", units: 1000},
		{amount: "1.005", units: 101},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s => %d", tc.amount, tc.units), func(t *testing.T) {
			assert.Equal(t, tc.units, payment.MinorUnits(decimal.RequireFromString(tc.amount)))
		})
	}
	assert.True(t, payment.FromMinorUnits(9764).Equal(decimal.RequireFromString("97.64")))
}
