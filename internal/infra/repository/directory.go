package repository

import (
	"context"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/infra"
	"marketplace-checkout/internal/infra/db"
	"marketplace-checkout/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	listingsByIDsSQL = `
SELECT id, seller_id, title, price, discount, stock, is_active
FROM listings
WHERE id = ANY($1)`

	sellerProfilesSQL = `
SELECT id, shop_name, personal_fee, campus_fee, pickup_fee, free_delivery_threshold, delivery_methods
FROM sellers
WHERE id = ANY($1) AND is_active`

	buyerSnapshotSQL = `
SELECT id, name, email, phone
FROM users
WHERE id = $1 AND is_active`

	sellerSnapshotSQL = `
SELECT s.id, s.user_id, u.name, u.email, u.phone, s.shop_name
FROM sellers s
JOIN users u ON u.id = s.user_id
WHERE s.id = $1`
)

// Directory reads catalogue and identity rows owned by other services.
type Directory struct {
	db db.DBTX
}

func NewDirectory(db db.DBTX) *Directory {
	return &Directory{db: db}
}

func (d *Directory) ListingsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]inventory.Listing, error) {
	out := make(map[uuid.UUID]inventory.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := d.db.Query(ctx, listingsByIDsSQL, pgconv.UUIDArray(ids))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get listings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l inventory.Listing
		if err := rows.Scan(&l.ID, &l.SellerID, &l.Title, &l.Price, &l.Discount, &l.Stock, &l.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan listing", err)
		}
		out[l.ID] = l
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to get listings", err)
	}
	return out, nil
}

func (d *Directory) SellerProfiles(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]checkout.SellerProfile, error) {
	out := make(map[uuid.UUID]checkout.SellerProfile, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return out, nil
	}
	rows, err := d.db.Query(ctx, sellerProfilesSQL, pgconv.UUIDArray(sellerIDs))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get seller profiles", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p       checkout.SellerProfile
			methods []string
		)
		err := rows.Scan(&p.SellerID, &p.ShopName,
			&p.Delivery.PersonalFee, &p.Delivery.CampusFee, &p.Delivery.PickupFee,
			&p.Delivery.FreeDeliveryThreshold, &methods)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan seller profile", err)
		}
		for _, m := range methods {
			p.Delivery.Methods = append(p.Delivery.Methods, pricing.DeliveryMethod(m))
		}
		out[p.SellerID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to get seller profiles", err)
	}
	return out, nil
}

func (d *Directory) BuyerSnapshot(ctx context.Context, userID uuid.UUID) (identity.BuyerSnapshot, error) {
	var b identity.BuyerSnapshot
	err := d.db.QueryRow(ctx, buyerSnapshotSQL, userID).Scan(&b.UserID, &b.Name, &b.Email, &b.Phone)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return identity.BuyerSnapshot{}, infra.WrapRepoErr("buyer not found", err, infra.KindNotFound)
		}
		return identity.BuyerSnapshot{}, infra.WrapRepoErr("failed to get buyer", err)
	}
	return b, nil
}

func (d *Directory) SellerSnapshot(ctx context.Context, sellerID uuid.UUID) (identity.SellerSnapshot, error) {
	var s identity.SellerSnapshot
	err := d.db.QueryRow(ctx, sellerSnapshotSQL, sellerID).Scan(&s.SellerID, &s.UserID, &s.Name, &s.Email, &s.Phone, &s.ShopName)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return identity.SellerSnapshot{}, infra.WrapRepoErr("seller not found", err, infra.KindNotFound)
		}
		return identity.SellerSnapshot{}, infra.WrapRepoErr("failed to get seller", err)
	}
	return s, nil
}
