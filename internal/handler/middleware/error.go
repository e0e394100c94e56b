package middleware

import (
	"log/slog"
	"net/http"

	"marketplace-checkout/internal/handler/httperr"
	"marketplace-checkout/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders errors that handlers attached with c.Error but did
// not write themselves. Public errors carry their response in Meta; any
// other error is classified against the checkout error taxonomy.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		if last.IsType(gin.ErrorTypePublic) {
			if resp, ok := last.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}

		status, msg := httperr.Classify(last.Err)
		if status >= http.StatusInternalServerError {
			slog.Error("unhandled request error",
				"path", c.Request.URL.Path,
				"error", last.Err.Error(),
				"stack", errs.ExtractStackLines(last.Err, 8))
		}
		resp := httperr.Response{Status: status}
		resp.Error.Message = msg
		c.JSON(status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"

				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
