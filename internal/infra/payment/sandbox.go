package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"

	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SandboxEvent is the callback body accepted by the sandbox gateway.
type SandboxEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	IntentID  string          `json:"intent_id"`
	SessionID uuid.UUID       `json:"session_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// SandboxIntent is what the sandbox remembers about an intent it issued.
type SandboxIntent struct {
	Amount    decimal.Decimal
	Currency  string
	Cancelled bool
}

// SandboxGateway stands in for the card processor in local runs and tests.
// Callbacks are signed with hex(HMAC-SHA256(secret, body)).
type SandboxGateway struct {
	secret []byte

	mu     sync.Mutex
	byKey  map[string]shared.PaymentIntent
	issued map[string]SandboxIntent
	fail   error
}

func NewSandboxGateway(secret string) *SandboxGateway {
	return &SandboxGateway{
		secret: []byte(secret),
		byKey:  make(map[string]shared.PaymentIntent),
		issued: make(map[string]SandboxIntent),
	}
}

var _ shared.PaymentGateway = (*SandboxGateway)(nil)

// FailWith makes the next intent creations fail until reset with nil.
func (g *SandboxGateway) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail = err
}

func (g *SandboxGateway) CreatePaymentIntent(_ context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (shared.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fail != nil {
		return shared.PaymentIntent{}, errs.Wrap(g.fail, "create sandbox payment intent")
	}
	if !amount.IsPositive() {
		return shared.PaymentIntent{}, errs.Newf("amount must be positive, got %s %s", amount.StringFixed(2), currency)
	}
	key := intentKey(metadata)
	if pi, ok := g.byKey[key]; ok && key != "" {
		return pi, nil
	}
	id := "pi_sandbox_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	pi := shared.PaymentIntent{IntentID: id, ClientSecret: id + "_secret"}
	if key != "" {
		g.byKey[key] = pi
	}
	g.issued[id] = SandboxIntent{Amount: amount, Currency: currency}
	return pi, nil
}

func (g *SandboxGateway) CancelPaymentIntent(_ context.Context, intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.issued[intentID]
	if !ok {
		return errs.Newf("unknown sandbox payment intent %s", intentID)
	}
	in.Cancelled = true
	g.issued[intentID] = in
	for key, pi := range g.byKey {
		if pi.IntentID == intentID {
			delete(g.byKey, key)
		}
	}
	return nil
}

// Intent reports an issued intent.
func (g *SandboxGateway) Intent(intentID string) (SandboxIntent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	in, ok := g.issued[intentID]
	return in, ok
}

func (g *SandboxGateway) ParseWebhook(payload []byte, signature string) (shared.PaymentConfirmation, error) {
	if !hmac.Equal([]byte(g.Sign(payload)), []byte(signature)) {
		return shared.PaymentConfirmation{}, ErrInvalidSignature
	}
	var evt SandboxEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return shared.PaymentConfirmation{}, errs.Wrap(err, "decode sandbox event")
	}
	return shared.PaymentConfirmation{
		EventID:   evt.ID,
		IntentID:  evt.IntentID,
		SessionID: evt.SessionID,
		Succeeded: evt.Type == eventIntentSucceeded,
		Amount:    evt.Amount,
	}, nil
}

func (g *SandboxGateway) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedSucceeded builds a signed success callback for an intent.
func (g *SandboxGateway) SignedSucceeded(eventID, intentID string, sessionID uuid.UUID, amount decimal.Decimal) ([]byte, string, error) {
	body, err := json.Marshal(SandboxEvent{
		ID:        eventID,
		Type:      eventIntentSucceeded,
		IntentID:  intentID,
		SessionID: sessionID,
		Amount:    amount,
	})
	if err != nil {
		return nil, "", err
	}
	return body, g.Sign(body), nil
}
