package identity

import "github.com/google/uuid"

// OrderParties identifies who owns each side of an order.
type OrderParties struct {
	BuyerID      uuid.UUID
	SellerUserID uuid.UUID
}

// RolePolicy is the default access-control collaborator:
// admins see and change everything and sellers manage their own orders.
// Buyers may cancel a pending order or confirm receipt of a shipped one.
type RolePolicy struct{}

func NewRolePolicy() *RolePolicy {
	return &RolePolicy{}
}

func (RolePolicy) CanUserView(actor Actor, parties OrderParties) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleSeller:
		return actor.UserID == parties.SellerUserID || actor.UserID == parties.BuyerID
	case RoleBuyer:
		return actor.UserID == parties.BuyerID
	default:
		return false
	}
}

func (RolePolicy) CanUserModify(actor Actor, parties OrderParties, current, target string) bool {
	if actor.Role == RoleAdmin {
		return true
	}
	if actor.Role == RoleSeller && actor.UserID == parties.SellerUserID {
		return true
	}
	if actor.UserID != parties.BuyerID {
		return false
	}
	switch target {
	case "cancelled":
		return current == "pending"
	case "completed":
		return current == "shipped" || current == "delivered"
	default:
		return false
	}
}
