//go:build e2e

package checkout_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"

	"marketplace-checkout/internal/domain/identity"
	resdto "marketplace-checkout/internal/handler/dto/response"
	"marketplace-checkout/tests/common/dbtest"
	"marketplace-checkout/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const racers = 5

// fire releases every request at once and returns the status codes in order.
func (s *CheckoutE2ETestSuite) fire(reqs []*http.Request) []int {
	codes := make([]int, len(reqs))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			rec := nethttptest.NewRecorder()
			s.Router.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}()
	}
	close(start)
	wg.Wait()
	return codes
}

func (s *CheckoutE2ETestSuite) createRequest(listingID uuid.UUID, qty int, token string) *http.Request {
	body, err := json.Marshal(map[string]any{
		"session_type": "cart",
		"items":        []map[string]any{{"listing_id": listingID, "quantity": qty}},
	})
	s.Require().NoError(err)
	req := nethttptest.NewRequest(http.MethodPost, "/api/checkout/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *CheckoutE2ETestSuite) count(query string, args ...any) int {
	var n int
	err := s.DB.QueryRow(context.Background(), query, args...).Scan(&n)
	s.Require().NoError(err)
	return n
}

func tally(codes []int) map[int]int {
	out := map[int]int{}
	for _, c := range codes {
		out[c]++
	}
	return out
}

func (s *CheckoutE2ETestSuite) TestConcurrentCheckout() {
	s.Run("success: five buyers racing for the last unit get one hold", func() {
		seller := dbtest.CreateTestSeller(s.T(), s.DB, "last-unit@example.com", "Last Unit")
		listing := dbtest.CreateTestListing(s.T(), s.DB, seller.SellerID, "Calculator", "40.00", 1)

		reqs := make([]*http.Request, racers)
		for i := range reqs {
			buyerID := dbtest.CreateTestUser(s.T(), s.DB, fmt.Sprintf("racer-%d@example.com", i), "buyer")
			reqs[i] = s.createRequest(listing, 1, s.jwt.GenerateToken(s.T(), buyerID, identity.RoleBuyer))
		}

		codes := tally(s.fire(reqs))
		s.Equal(map[int]int{http.StatusCreated: 1, http.StatusUnprocessableEntity: racers - 1}, codes)
		s.Equal(0, dbtest.ListingStock(s.T(), s.DB, listing))
		s.Equal(1, s.count(`SELECT COUNT(*) FROM stock_reservations WHERE listing_id = $1 AND status = 'held'`, listing))
	})

	s.Run("success: concurrent creates by one buyer leave one active session", func() {
		seller := dbtest.CreateTestSeller(s.T(), s.DB, "same-buyer@example.com", "Same Buyer")
		listing := dbtest.CreateTestListing(s.T(), s.DB, seller.SellerID, "Ruler", "3.00", 5)
		buyerID := dbtest.CreateTestUser(s.T(), s.DB, "eager@example.com", "buyer")
		token := s.jwt.GenerateToken(s.T(), buyerID, identity.RoleBuyer)

		reqs := make([]*http.Request, racers)
		for i := range reqs {
			reqs[i] = s.createRequest(listing, 1, token)
		}

		codes := tally(s.fire(reqs))
		s.GreaterOrEqual(codes[http.StatusCreated], 1)
		s.Equal(racers, codes[http.StatusCreated]+codes[http.StatusConflict], "losers see 409, never 500: %v", codes)

		s.Equal(1, s.count(`SELECT COUNT(*) FROM checkout_sessions WHERE user_id = $1 AND status IN ('pending', 'payment_intent_created')`, buyerID))
		s.Equal(1, s.count(`SELECT COUNT(*) FROM stock_reservations WHERE listing_id = $1 AND status = 'held'`, listing))
		s.Equal(4, dbtest.ListingStock(s.T(), s.DB, listing), "superseded sessions return their holds")
	})

	s.Run("success: concurrent webhook deliveries create the orders once", func() {
		m := s.seed()
		session := s.createSession(m, "card")
		started := s.startPayment(m.buyerToken, session.ID)
		sessionID := uuid.MustParse(session.ID)

		reqs := make([]*http.Request, racers)
		for i := range reqs {
			payload, signature, err := s.Gateway.SignedSucceeded(fmt.Sprintf("evt_race_%d", i), started.IntentID, sessionID, decimal.RequireFromString("68.50"))
			s.Require().NoError(err)
			req := nethttptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Stripe-Signature", signature)
			reqs[i] = req
		}

		s.Equal(map[int]int{http.StatusOK: racers}, tally(s.fire(reqs)))
		s.Equal(2, s.count(`SELECT COUNT(*) FROM orders WHERE session_id = $1`, sessionID))
		s.Equal(2, s.count(`SELECT COUNT(*) FROM orders WHERE session_id = $1 AND payment_status = 'paid'`, sessionID))
		s.Equal(2, s.count(`SELECT COUNT(*) FROM outbox_events WHERE topic = 'order.created' AND payload->>'session_id' = $1`, session.ID))
		s.Equal(3, dbtest.ListingStock(s.T(), s.DB, m.notebook))
	})
}

func (s *CheckoutE2ETestSuite) TestOrphanedPayment() {
	s.Run("success: a capture for a cancelled session is acknowledged and recorded", func() {
		m := s.seed()
		session := s.createSession(m, "card")
		started := s.startPayment(m.buyerToken, session.ID)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/checkout/sessions/"+session.ID+"/cancel", nil, m.buyerToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resdto.CheckoutSessionResponse{})

		payload, signature, err := s.Gateway.SignedSucceeded("evt_orphan_1", started.IntentID, uuid.MustParse(session.ID), decimal.RequireFromString("68.50"))
		s.Require().NoError(err)

		rec = s.postWebhook(payload, signature)
		var hook resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &hook)
		s.True(hook.Orphaned)
		s.Empty(hook.OrderIDs)

		rec = s.postWebhook(payload, signature)
		var again resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &again)
		s.True(again.Duplicate)

		s.Equal(1, s.count(`SELECT COUNT(*) FROM outbox_events WHERE topic = 'payment.orphaned' AND event_key = $1`, started.IntentID))
		s.Equal(0, s.count(`SELECT COUNT(*) FROM orders WHERE session_id = $1`, uuid.MustParse(session.ID)))
		s.Equal(5, dbtest.ListingStock(s.T(), s.DB, m.notebook))
	})
}
