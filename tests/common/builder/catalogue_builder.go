//go:build unit || e2e

package builder

import (
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/infra/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixedNow is the reference instant used across unit tests.
var FixedNow = time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC)

func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ------------------------------------------------------------
// Listing
// ------------------------------------------------------------

type ListingBuilder struct {
	ID       uuid.UUID
	SellerID uuid.UUID
	Title    string
	Price    string
	Discount string
	Stock    int
	IsActive bool
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		ID:       uuid.New(),
		SellerID: uuid.New(),
		Title:    "Calculus textbook",
		Price:    "50.00",
		Discount: "0",
		Stock:    10,
		IsActive: true,
	}
}

func (b *ListingBuilder) With(mutate func(*ListingBuilder)) *ListingBuilder {
	mutate(b)
	return b
}

func (b *ListingBuilder) WithSeller(sellerID uuid.UUID) *ListingBuilder {
	b.SellerID = sellerID
	return b
}

func (b *ListingBuilder) WithPrice(price string) *ListingBuilder {
	b.Price = price
	return b
}

func (b *ListingBuilder) WithDiscount(discount string) *ListingBuilder {
	b.Discount = discount
	return b
}

func (b *ListingBuilder) WithStock(stock int) *ListingBuilder {
	b.Stock = stock
	return b
}

func (b *ListingBuilder) AsInactive() *ListingBuilder {
	b.IsActive = false
	return b
}

func (b *ListingBuilder) BuildDomain() inventory.Listing {
	return inventory.Listing{
		ID:       b.ID,
		SellerID: b.SellerID,
		Title:    b.Title,
		Price:    Money(b.Price),
		Discount: Money(b.Discount),
		Stock:    b.Stock,
		IsActive: b.IsActive,
	}
}

func (b *ListingBuilder) Seed(store *memstore.Store) inventory.Listing {
	l := b.BuildDomain()
	store.AddListing(l)
	return l
}

// ------------------------------------------------------------
// Seller
// ------------------------------------------------------------

type SellerBuilder struct {
	SellerID              uuid.UUID
	UserID                uuid.UUID
	ShopName              string
	Name                  string
	Email                 string
	Phone                 string
	PersonalFee           string
	CampusFee             string
	PickupFee             string
	FreeDeliveryThreshold string
	Methods               []pricing.DeliveryMethod
}

func NewSellerBuilder() *SellerBuilder {
	return &SellerBuilder{
		SellerID:              uuid.New(),
		UserID:                uuid.New(),
		ShopName:              "Campus Books",
		Name:                  "Aisyah",
		Email:                 "seller@example.com",
		Phone:                 "+60123456789",
		PersonalFee:           "8.00",
		CampusFee:             "3.00",
		PickupFee:             "0",
		FreeDeliveryThreshold: "0",
	}
}

func (b *SellerBuilder) With(mutate func(*SellerBuilder)) *SellerBuilder {
	mutate(b)
	return b
}

func (b *SellerBuilder) WithShopName(name string) *SellerBuilder {
	b.ShopName = name
	return b
}

func (b *SellerBuilder) WithFees(personal, campus, pickup string) *SellerBuilder {
	b.PersonalFee, b.CampusFee, b.PickupFee = personal, campus, pickup
	return b
}

func (b *SellerBuilder) WithFreeDeliveryThreshold(threshold string) *SellerBuilder {
	b.FreeDeliveryThreshold = threshold
	return b
}

func (b *SellerBuilder) WithMethods(methods ...pricing.DeliveryMethod) *SellerBuilder {
	b.Methods = methods
	return b
}

func (b *SellerBuilder) BuildSettings() pricing.DeliverySettings {
	return pricing.DeliverySettings{
		PersonalFee:           Money(b.PersonalFee),
		CampusFee:             Money(b.CampusFee),
		PickupFee:             Money(b.PickupFee),
		FreeDeliveryThreshold: Money(b.FreeDeliveryThreshold),
		Methods:               b.Methods,
	}
}

func (b *SellerBuilder) BuildProfile() checkout.SellerProfile {
	return checkout.SellerProfile{
		SellerID: b.SellerID,
		ShopName: b.ShopName,
		Delivery: b.BuildSettings(),
	}
}

func (b *SellerBuilder) BuildSnapshot() identity.SellerSnapshot {
	return identity.SellerSnapshot{
		SellerID: b.SellerID,
		UserID:   b.UserID,
		Name:     b.Name,
		Email:    b.Email,
		Phone:    b.Phone,
		ShopName: b.ShopName,
	}
}

func (b *SellerBuilder) Actor() identity.Actor {
	return identity.Actor{UserID: b.UserID, Role: identity.RoleSeller}
}

func (b *SellerBuilder) Seed(store *memstore.Store) checkout.SellerProfile {
	p := b.BuildProfile()
	store.AddSeller(p, b.BuildSnapshot())
	return p
}

// Listing starts a listing builder owned by this seller.
func (b *SellerBuilder) Listing() *ListingBuilder {
	return NewListingBuilder().WithSeller(b.SellerID)
}

// ------------------------------------------------------------
// Buyer
// ------------------------------------------------------------

type BuyerBuilder struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Phone  string
}

func NewBuyerBuilder() *BuyerBuilder {
	return &BuyerBuilder{
		UserID: uuid.New(),
		Name:   "Daniel",
		Email:  "buyer@example.com",
		Phone:  "+60198765432",
	}
}

func (b *BuyerBuilder) With(mutate func(*BuyerBuilder)) *BuyerBuilder {
	mutate(b)
	return b
}

func (b *BuyerBuilder) WithEmail(email string) *BuyerBuilder {
	b.Email = email
	return b
}

func (b *BuyerBuilder) BuildSnapshot() identity.BuyerSnapshot {
	return identity.BuyerSnapshot{UserID: b.UserID, Name: b.Name, Email: b.Email, Phone: b.Phone}
}

func (b *BuyerBuilder) Actor() identity.Actor {
	return identity.Actor{UserID: b.UserID, Role: identity.RoleBuyer}
}

func (b *BuyerBuilder) Seed(store *memstore.Store) identity.Actor {
	store.AddBuyer(b.BuildSnapshot())
	return b.Actor()
}
