package httperr

import (
	"errors"
	"net/http"

	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// FieldDetail points at the request field or listing that caused a failure.
type FieldDetail struct {
	Field     string `json:"field,omitempty"`
	ListingID string `json:"listing_id,omitempty"`
	Requested int    `json:"requested,omitempty"`
	Available *int   `json:"available,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithDomainError maps the checkout error taxonomy onto HTTP statuses.
func AbortWithDomainError(c *gin.Context, err error) {
	status, msg := Classify(err)
	var detail any
	if de, ok := errs.AsDomainError(err); ok && status < http.StatusInternalServerError {
		detail = detailOf(de)
	}
	AbortWithError(c, status, err, msg, detail)
}

func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, "Insufficient stock"
	case errors.Is(err, errs.ErrItemUnavailable):
		return http.StatusUnprocessableEntity, "Item unavailable"
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, errs.ErrSessionExpired):
		return http.StatusGone, "Checkout session expired"
	case errors.Is(err, errs.ErrSessionNotModifiable):
		return http.StatusConflict, "Checkout session can no longer be changed"
	case errors.Is(err, errs.ErrInvalidStatusTransition):
		return http.StatusConflict, "Invalid status transition"
	case errors.Is(err, errs.ErrConflict), infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindDuplicateKey):
		return http.StatusConflict, "Concurrent modification, retry the request"
	case errors.Is(err, errs.ErrPaymentGateway):
		return http.StatusBadGateway, "Payment provider unavailable"
	case errors.Is(err, errs.ErrSessionNotFound):
		return http.StatusNotFound, "Checkout session not found"
	case errors.Is(err, errs.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, errs.ErrListingNotFound):
		return http.StatusNotFound, "Listing not found"
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, errs.ErrOrderCreation):
		return http.StatusInternalServerError, "Order creation failed"
	case infra.IsKind(err, infra.KindNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func detailOf(de *errs.DomainError) *FieldDetail {
	d := &FieldDetail{Field: de.Field, Reason: de.Message}
	if de.ListingID != uuid.Nil {
		d.ListingID = de.ListingID.String()
	}
	if errors.Is(de.Kind, errs.ErrInsufficientStock) {
		available := de.Available
		d.Requested = de.Requested
		d.Available = &available
	}
	return d
}
