//go:build unit

package identity_test

import (
	"testing"

	"marketplace-checkout/internal/domain/identity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRolePolicy(t *testing.T) {
	policy := identity.NewRolePolicy()
	parties := identity.OrderParties{BuyerID: uuid.New(), SellerUserID: uuid.New()}

	buyer := identity.Actor{UserID: parties.BuyerID, Role: identity.RoleBuyer}
	seller := identity.Actor{UserID: parties.SellerUserID, Role: identity.RoleSeller}
	admin := identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}
	stranger := identity.Actor{UserID: uuid.New(), Role: identity.RoleBuyer}
	otherSeller := identity.Actor{UserID: uuid.New(), Role: identity.RoleSeller}

	t.Run("閲覧権限", func(t *testing.T) {
		cases := []struct {
			name  string
			actor identity.Actor
			want  bool
		}{
			{name: "購入者OK", actor: buyer, want: true},
			{name: "出品者OK", actor: seller, want: true},
			{name: "管理者OK", actor: admin, want: true},
			{name: "他の購入者NG", actor: stranger},
			{name: "他の出品者NG", actor: otherSeller},
			{name: "不明なロールNG", actor: identity.Actor{UserID: parties.BuyerID, Role: "guest"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, policy.CanUserView(tc.actor, parties))
			})
		}
	})

	t.Run("更新権限", func(t *testing.T) {
		cases := []struct {
			name    string
			actor   identity.Actor
			current string
			target  string
			want    bool
		}{
			{name: "出品者は出荷OK", actor: seller, current: "processing", target: "shipped", want: true},
			{name: "管理者は返金OK", actor: admin, current: "completed", target: "refunded", want: true},
			{name: "購入者はpendingをキャンセルOK", actor: buyer, current: "pending", target: "cancelled", want: true},
			{name: "購入者は出荷済みを完了OK", actor: buyer, current: "shipped", target: "completed", want: true},
			{name: "購入者は配達済みを完了OK", actor: buyer, current: "delivered", target: "completed", want: true},
			{name: "購入者は確定後のキャンセルNG", actor: buyer, current: "confirmed", target: "cancelled"},
			{name: "購入者は出荷NG", actor: buyer, current: "processing", target: "shipped"},
			{name: "他の出品者NG", actor: otherSeller, current: "processing", target: "shipped"},
			{name: "第三者のキャンセルNG", actor: stranger, current: "pending", target: "cancelled"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, policy.CanUserModify(tc.actor, parties, tc.current, tc.target))
			})
		}
	})
}

func TestNewRole(t *testing.T) {
	for _, s := range []string{"buyer", "seller", "admin"} {
		r, err := identity.NewRole(s)
		assert.NoError(t, err)
		assert.Equal(t, s, r.String())
	}
	_, err := identity.NewRole("root")
	assert.ErrorIs(t, err, identity.ErrInvalidRole)
	assert.True(t, identity.System.IsAdmin())
}
