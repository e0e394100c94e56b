//go:build unit

package api_test

import (
	"bytes"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/handler/api"
	resdto "marketplace-checkout/internal/handler/dto/response"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/commands"
	"marketplace-checkout/tests/common/builder"
	"marketplace-checkout/tests/common/httptest"
	commandsmock "marketplace-checkout/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderFactoryCommands
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderFactoryCommands(s.mockCtrl)
	h := api.NewPaymentHandler(s.mockCommands)

	s.router.POST("/payments/webhook", h.Webhook)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

// postWebhook sends the raw payload the way the gateway does, with no bearer token.
func (s *PaymentHandlerTestSuite) postWebhook(payload []byte, signature string) *nethttptest.ResponseRecorder {
	req := nethttptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := nethttptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *PaymentHandlerTestSuite) TestWebhook() {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	signature := "t=1738144800,v1=abc"

	s.Run("success: passes the raw body and signature through", func() {
		orders := []*order.Order{builder.NewOrderBuilder().BuildDomain()}
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), payload, signature).Return(&commands.ConfirmPaymentResult{
			SessionID: uuid.New(),
			Orders:    orders,
		}, nil).Times(1)

		rec := s.postWebhook(payload, signature)

		var body resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Received)
		s.False(body.Duplicate)
		s.Len(body.OrderIDs, 1)
	})

	s.Run("success: acknowledges redelivered events", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), payload, signature).
			Return(&commands.ConfirmPaymentResult{Duplicate: true}, nil).Times(1)

		rec := s.postWebhook(payload, signature)

		var body resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Duplicate)
		s.Empty(body.OrderIDs)
	})

	s.Run("success: acknowledges a capture recorded for refund", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), payload, signature).
			Return(&commands.ConfirmPaymentResult{SessionID: uuid.New(), Orphaned: true, OrphanReason: "session_expired"}, nil).Times(1)

		rec := s.postWebhook(payload, signature)

		var body resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Received)
		s.True(body.Orphaned)
		s.Empty(body.OrderIDs)
	})

	s.Run("error: non-2xx so the gateway retries", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "bad signature", commandsError: errs.NewValidation("signature", "signature mismatch"), expectedStatus: http.StatusBadRequest, expectedMsg: "Invalid request"},
			{name: "unknown session", commandsError: errs.ErrSessionNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Checkout session not found"},
			{name: "session not payable", commandsError: commands.ErrSessionNotPayable, expectedStatus: http.StatusConflict, expectedMsg: "can no longer be changed"},
			{name: "order creation rolled back", commandsError: errs.Wrap(errs.ErrOrderCreation, "buyer snapshot"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Order creation failed"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := s.postWebhook(payload, signature)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
