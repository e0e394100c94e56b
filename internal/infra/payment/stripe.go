package payment

import (
	"context"
	"encoding/json"
	"strings"

	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

const (
	eventIntentSucceeded = "payment_intent.succeeded"
	eventIntentFailed    = "payment_intent.payment_failed"

	metadataSessionID      = "session_id"
	metadataSessionVersion = "session_version"
)

var ErrInvalidSignature = errs.New("webhook signature verification failed")

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

var _ shared.PaymentGateway = (*StripeGateway)(nil)

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (shared.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	if key := intentKey(metadata); key != "" {
		// Retried StartPayment calls for one priced session reuse the same intent.
		params.SetIdempotencyKey("checkout-" + key)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return shared.PaymentIntent{}, errs.Wrap(err, "create stripe payment intent")
	}
	return shared.PaymentIntent{IntentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *StripeGateway) CancelPaymentIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{CancellationReason: stripe.String("abandoned")}
	params.Context = ctx
	if _, err := g.api.PaymentIntents.Cancel(intentID, params); err != nil {
		return errs.Wrapf(err, "cancel stripe payment intent %s", intentID)
	}
	return nil
}

// intentKey identifies one priced version of a session. A repriced session
// gets a fresh key, so the gateway never replays an intent for an old amount.
func intentKey(metadata map[string]string) string {
	sid := metadata[metadataSessionID]
	if sid == "" {
		return ""
	}
	if v := metadata[metadataSessionVersion]; v != "" {
		return sid + "-v" + v
	}
	return sid
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (shared.PaymentConfirmation, error) {
	evt, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return shared.PaymentConfirmation{}, errs.Wrap(ErrInvalidSignature, err.Error())
	}

	conf := shared.PaymentConfirmation{EventID: evt.ID}
	eventType := string(evt.Type)
	if eventType != eventIntentSucceeded && eventType != eventIntentFailed {
		return conf, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return shared.PaymentConfirmation{}, errs.Wrap(err, "decode payment intent")
	}
	conf.IntentID = pi.ID
	conf.Succeeded = eventType == eventIntentSucceeded
	conf.Amount = FromMinorUnits(pi.Amount)
	if sid, ok := pi.Metadata[metadataSessionID]; ok {
		if id, perr := uuid.Parse(sid); perr == nil {
			conf.SessionID = id
		}
	}
	return conf, nil
}

// MinorUnits converts a 2-decimal amount to cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -2)
}
