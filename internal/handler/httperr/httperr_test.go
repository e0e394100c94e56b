//go:build unit

package httperr_test

import (
	"errors"
	"net/http"
	"testing"

	"marketplace-checkout/internal/handler/httperr"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "在庫不足", err: errs.NewInsufficientStock(uuid.New(), 3, 1), status: http.StatusUnprocessableEntity},
		{name: "出品停止", err: errs.NewItemUnavailable(uuid.New(), "inactive"), status: http.StatusUnprocessableEntity},
		{name: "入力不正", err: errs.NewValidation("items", "empty"), status: http.StatusBadRequest},
		{name: "期限切れ", err: errs.ErrSessionExpired, status: http.StatusGone},
		{name: "変更不可", err: errs.ErrSessionNotModifiable, status: http.StatusConflict},
		{name: "不正な遷移", err: errs.NewInvalidTransition("delivered", "pending"), status: http.StatusConflict},
		{name: "競合", err: errs.ErrConflict, status: http.StatusConflict},
		{name: "リポジトリの競合", err: infra.Conflict("version mismatch"), status: http.StatusConflict},
		{name: "一意制約の競合", err: infra.WrapRepoErr("checkout session already exists", nil, infra.KindDuplicateKey), status: http.StatusConflict},
		{name: "決済ゲートウェイ", err: &errs.DomainError{Kind: errs.ErrPaymentGateway, Message: "timeout"}, status: http.StatusBadGateway},
		{name: "セッションなし", err: errs.ErrSessionNotFound, status: http.StatusNotFound},
		{name: "注文なし", err: errs.ErrOrderNotFound, status: http.StatusNotFound},
		{name: "権限なし", err: commands.ErrOrderNotModifiable, status: http.StatusForbidden},
		{name: "注文作成失敗", err: errs.Wrap(errs.ErrOrderCreation, "insert"), status: http.StatusInternalServerError},
		{name: "リポジトリの未検出", err: infra.NotFound("row"), status: http.StatusNotFound},
		{name: "不明なエラー", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := httperr.Classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, msg)
		})
	}
}
