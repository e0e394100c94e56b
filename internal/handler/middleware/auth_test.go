//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/handler/middleware"
	"marketplace-checkout/tests/common/httptest"
	usecasemock "marketplace-checkout/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *usecasemock.MockTokenValidator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator := usecasemock.NewMockTokenValidator(gomock.NewController(t))

	r := gin.New()
	r.GET("/me", middleware.NewAuthMiddleware(validator).RequireAuth(), func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})
	return r, validator
}

func TestRequireAuth(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		r, validator := newAuthRouter(t)
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleSeller}
		validator.EXPECT().ValidateToken("good-token").Return(actor, nil)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "good-token")

		var body struct {
			UserID uuid.UUID     `json:"user_id"`
			Role   identity.Role `json:"role"`
		}
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, actor.UserID, body.UserID)
		assert.Equal(t, identity.RoleSeller, body.Role)
	})

	t.Run("トークンなしNG", func(t *testing.T) {
		r, _ := newAuthRouter(t)
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("無効なトークンNG", func(t *testing.T) {
		r, validator := newAuthRouter(t)
		validator.EXPECT().ValidateToken("expired").Return(identity.Actor{}, errors.New("token is expired"))

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "expired")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestGetActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("未設定ならfalse", func(t *testing.T) {
		c, _ := gin.CreateTestContext(nethttptest.NewRecorder())
		_, ok := middleware.GetActor(c)
		assert.False(t, ok)
	})

	t.Run("SetActorの値を返す", func(t *testing.T) {
		c, _ := gin.CreateTestContext(nethttptest.NewRecorder())
		actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}
		middleware.SetActor(c, actor)

		got, ok := middleware.GetActor(c)
		assert.True(t, ok)
		assert.Equal(t, actor, got)
	})
}
