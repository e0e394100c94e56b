package api

import (
	"io"
	"log/slog"
	"net/http"

	resdto "marketplace-checkout/internal/handler/dto/response"
	"marketplace-checkout/internal/handler/httperr"
	"marketplace-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBytes = 64 << 10
)

type PaymentHandler struct {
	cmds commands.OrderFactoryCommands
}

func NewPaymentHandler(cmds commands.OrderFactoryCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Payment gateway callback
// @Description Signature-verified gateway callback. A succeeded payment turns the session into one order per seller.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Gateway signature"
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable body", nil)
		return
	}
	res, err := h.cmds.ConfirmPayment(c.Request.Context(), payload, c.GetHeader(signatureHeader))
	if err != nil {
		slog.Warn("payment webhook not processed", "client_ip", c.ClientIP(), "error", err.Error())
		// Non-2xx makes the gateway redeliver.
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromConfirmPayment(res))
}
