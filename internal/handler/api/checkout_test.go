//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/handler/api"
	resdto "marketplace-checkout/internal/handler/dto/response"
	"marketplace-checkout/internal/handler/middleware"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/commands"
	"marketplace-checkout/tests/common/builder"
	"marketplace-checkout/tests/common/httptest"
	"marketplace-checkout/tests/common/testutil"
	commandsmock "marketplace-checkout/tests/mock/commands"
	queriesmock "marketplace-checkout/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeAuth stands in for RequireAuth: any bearer token authenticates as actor.
func fakeAuth(actor identity.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		middleware.SetActor(c, actor)
		c.Next()
	}
}

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCheckoutCommands
	mockQueries  *queriesmock.MockCheckoutQueries
	actor        identity.Actor
	session      *checkout.Session
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCheckoutQueries(s.mockCtrl)
	h := api.NewCheckoutHandler(s.mockCommands, s.mockQueries, clock.NewMockClock(builder.FixedNow))

	b := builder.NewSessionBuilder()
	s.actor = b.Owner()
	s.session = b.Build()

	auth := fakeAuth(s.actor)
	s.router.POST("/sessions", auth, h.Create)
	s.router.GET("/sessions/active", auth, h.GetActive)
	s.router.GET("/sessions/:id", auth, h.Get)
	s.router.PATCH("/sessions/:id", auth, h.Update)
	s.router.POST("/sessions/:id/payment", auth, h.StartPayment)
	s.router.POST("/sessions/:id/cancel", auth, h.Cancel)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

type testCaseCheckout struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestCreate() {
	url := "/sessions"
	listingID := uuid.New()
	reqBody := builder.NewCreateSessionRequestBuilder().WithItem(listingID, 2).Build()

	s.Run("success: returns 201 with the priced session", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.actor, commands.CreateSessionInput{
			Type:           checkout.SessionCart,
			Items:          []checkout.RequestedItem{{ListingID: listingID, Quantity: 2}},
			DeliveryMethod: "pickup",
			PaymentMethod:  "card",
		}).Return(s.session, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.CheckoutSessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(s.session.ID().String(), body.ID)
		s.Equal("pending", body.Status)
		s.Equal("100.00", body.Pricing.TotalAmount)
		s.Equal(int64(checkout.DefaultTTL.Seconds()), body.ExpiresInSeconds)
		s.Len(body.SellerGroups, 1)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseCheckout{
			{name: "unknown session type", mutate: testutil.Field("session_type", "wishlist"), expectCode: http.StatusBadRequest},
			{name: "missing field: session_type (required)", mutate: testutil.Field("session_type", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: items (required)", mutate: testutil.Field("items", nil), expectCode: http.StatusBadRequest},
			{name: "empty items", mutate: testutil.Field("items", []any{}), expectCode: http.StatusBadRequest},
			{name: "quantity 0", mutate: testutil.Field("items", []any{map[string]any{"listing_id": listingID, "quantity": 0}}), expectCode: http.StatusBadRequest},
			{name: "quantity over 999", mutate: testutil.Field("items", []any{map[string]any{"listing_id": listingID, "quantity": 1000}}), expectCode: http.StatusBadRequest},
			{name: "address without line1", mutate: testutil.Field("delivery_address", map[string]any{"recipient_name": "Daniel", "phone": "+60198765432"}), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 422 with stock detail when stock runs out", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.NewInsufficientStock(listingID, 2, 1)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Insufficient stock")

		var body struct {
			Detail struct {
				ListingID string `json:"listing_id"`
				Requested int    `json:"requested"`
				Available *int   `json:"available"`
			} `json:"detail"`
		}
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &body))
		s.Equal(listingID.String(), body.Detail.ListingID)
		s.Equal(2, body.Detail.Requested)
		s.Require().NotNil(body.Detail.Available)
		s.Equal(1, *body.Detail.Available)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "item unavailable", commandsError: errs.NewItemUnavailable(listingID, "listing is no longer active"), expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Item unavailable"},
			{name: "domain validation", commandsError: errs.NewValidation("payment_method", "unsupported"), expectedStatus: http.StatusBadRequest, expectedMsg: "Invalid request"},
			{name: "internal error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet / TestGetActive
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestGet() {
	s.Run("success: returns 200", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), s.actor, s.session.ID()).Return(s.session, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+s.session.ID().String(), nil, "bearer-token")

		var body resdto.CheckoutSessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(s.session.ID().String(), body.ID)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: maps query errors", func() {
		testCases := []struct {
			name           string
			queryError     error
			expectedStatus int
		}{
			{name: "not found", queryError: errs.ErrSessionNotFound, expectedStatus: http.StatusNotFound},
			{name: "someone else's session", queryError: &errs.DomainError{Kind: errs.ErrForbidden, Message: "nope"}, expectedStatus: http.StatusForbidden},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.queryError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+uuid.NewString(), nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

func (s *CheckoutHandlerTestSuite) TestGetActive() {
	s.Run("success: returns 200", func() {
		s.mockQueries.EXPECT().GetActive(gomock.Any(), s.actor).Return(s.session, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/active", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 when no session is active", func() {
		s.mockQueries.EXPECT().GetActive(gomock.Any(), s.actor).Return(nil, errs.ErrSessionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/active", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Checkout session not found")
	})
}

// ================================================================================
// TestUpdate
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestUpdate() {
	url := "/sessions/" + s.session.ID().String()

	s.Run("success: passes only the fields that were sent", func() {
		method := "campus"
		s.mockCommands.EXPECT().Update(gomock.Any(), s.actor, s.session.ID(), commands.UpdateSessionInput{
			DeliveryMethod: &method,
		}).Return(s.session, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"delivery_method": "campus"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "expired", commandsError: errs.ErrSessionExpired, expectedStatus: http.StatusGone, expectedMsg: "expired"},
			{name: "not modifiable", commandsError: errs.ErrSessionNotModifiable, expectedStatus: http.StatusConflict, expectedMsg: "can no longer be changed"},
			{name: "concurrent update", commandsError: errs.ErrConflict, expectedStatus: http.StatusConflict, expectedMsg: "retry"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"payment_method": "fpx"}, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 400 on quantity 0", func() {
		body := map[string]any{"items": []any{map[string]any{"listing_id": uuid.NewString(), "quantity": 0}}}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

// ================================================================================
// TestStartPayment / TestCancel
// ================================================================================

func (s *CheckoutHandlerTestSuite) TestStartPayment() {
	url := "/sessions/" + s.session.ID().String() + "/payment"

	s.Run("success: returns the client secret", func() {
		s.mockCommands.EXPECT().StartPayment(gomock.Any(), s.actor, s.session.ID()).Return(&commands.StartPaymentResult{
			Session:      s.session,
			IntentID:     "pi_123",
			ClientSecret: "pi_123_secret",
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.StartPaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("pi_123", body.IntentID)
		s.Equal("pi_123_secret", body.ClientSecret)
		s.Empty(body.Orders)
	})

	s.Run("error: 502 when the gateway fails", func() {
		s.mockCommands.EXPECT().StartPayment(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &errs.DomainError{Kind: errs.ErrPaymentGateway, Field: "payment", Message: "stripe: timeout"}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "Payment provider unavailable")
	})
}

func (s *CheckoutHandlerTestSuite) TestCancel() {
	s.Run("success: returns the cancelled session", func() {
		cancelled := builder.NewSessionBuilder().WithUser(s.actor.UserID).WithStatus(checkout.StatusCancelled, "").Build()
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actor, cancelled.ID()).Return(cancelled, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/sessions/"+cancelled.ID().String()+"/cancel", nil, "bearer-token")

		var body resdto.CheckoutSessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Status)
		s.Zero(body.ExpiresInSeconds)
	})
}
