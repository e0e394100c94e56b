package api

import (
	"net/http"

	reqdto "marketplace-checkout/internal/handler/dto/request"
	resdto "marketplace-checkout/internal/handler/dto/response"
	"marketplace-checkout/internal/handler/httperr"
	"marketplace-checkout/internal/handler/middleware"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/commands"
	"marketplace-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = errs.New("request reached a protected handler without an actor")

type CheckoutHandler struct {
	cmds  commands.CheckoutCommands
	q     queries.CheckoutQueries
	clock clock.Clock
}

func NewCheckoutHandler(cmds commands.CheckoutCommands, q queries.CheckoutQueries, clk clock.Clock) *CheckoutHandler {
	return &CheckoutHandler{cmds: cmds, q: q, clock: clk}
}

// @Summary Create checkout session
// @Description Snapshot the items, reserve stock and price the session. Any active session of the caller is cancelled first.
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCheckoutSessionRequest true "Checkout request"
// @Success 201 {object} resdto.CheckoutSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/checkout/sessions [post]
func (h *CheckoutHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	var req reqdto.CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	s, err := h.cmds.Create(c.Request.Context(), actor, in)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCheckoutSession(s, h.clock.Now()))
}

// @Summary Get active checkout session
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CheckoutSessionResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/checkout/sessions/active [get]
func (h *CheckoutHandler) GetActive(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	s, err := h.q.GetActive(c.Request.Context(), actor)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutSession(s, h.clock.Now()))
}

// @Summary Get checkout session
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.CheckoutSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/checkout/sessions/{id} [get]
func (h *CheckoutHandler) Get(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	s, err := h.q.Get(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutSession(s, h.clock.Now()))
}

// @Summary Update checkout session
// @Description Change delivery, payment method or item quantities. Quantity changes re-reserve stock.
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.UpdateCheckoutSessionRequest true "Changes"
// @Success 200 {object} resdto.CheckoutSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/checkout/sessions/{id} [patch]
func (h *CheckoutHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.UpdateCheckoutSessionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}
	s, err := h.cmds.Update(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutSession(s, h.clock.Now()))
}

// @Summary Start payment
// @Description Create a payment intent for the session total. Cash sessions are settled immediately and return their orders.
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.StartPaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/checkout/sessions/{id}/payment [post]
func (h *CheckoutHandler) StartPayment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	res, err := h.cmds.StartPayment(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStartPayment(res, h.clock.Now()))
}

// @Summary Cancel checkout session
// @Description Cancel the session and return its held stock. Cancelling a closed session is a no-op.
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.CheckoutSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/checkout/sessions/{id}/cancel [post]
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	s, err := h.cmds.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutSession(s, h.clock.Now()))
}
