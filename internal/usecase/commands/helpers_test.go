//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace-checkout/internal/domain/checkout"
	"marketplace-checkout/internal/domain/identity"
	"marketplace-checkout/internal/domain/inventory"
	"marketplace-checkout/internal/domain/order"
	"marketplace-checkout/internal/domain/pricing"
	"marketplace-checkout/internal/infra/cache"
	"marketplace-checkout/internal/infra/memstore"
	"marketplace-checkout/internal/infra/payment"
	"marketplace-checkout/internal/pkg/clock"
	"marketplace-checkout/internal/usecase/commands"
	"marketplace-checkout/internal/usecase/queries"
	"marketplace-checkout/internal/usecase/shared"
	"marketplace-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_unit"

// env wires the command layer to the in-memory store and sandbox gateway.
type env struct {
	store    *memstore.Store
	clock    *clock.MockClock
	gateway  *payment.SandboxGateway
	stock    *commands.StockManager
	checkout commands.CheckoutCommands
	orders   commands.OrderFactoryCommands
	status   commands.OrderStatusCommands
	cache    *mapStatusCache
	queries  queries.OrderQueries
}

// mapStatusCache is an in-process status cache that remembers invalidations.
type mapStatusCache struct {
	mu          sync.Mutex
	views       map[uuid.UUID]shared.OrderStatusView
	invalidated []uuid.UUID
}

func newMapStatusCache() *mapStatusCache {
	return &mapStatusCache{views: map[uuid.UUID]shared.OrderStatusView{}}
}

func (c *mapStatusCache) Get(_ context.Context, id uuid.UUID) (*shared.OrderStatusView, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[id]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *mapStatusCache) Set(_ context.Context, v shared.OrderStatusView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[v.OrderID] = v
	return nil
}

func (c *mapStatusCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.views, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func (c *mapStatusCache) cached(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.views[id]
	return ok
}

func newEnv(t *testing.T) *env {
	return newEnvWithPolicy(t, pricing.Policy{})
}

func newEnvWithPolicy(t *testing.T, policy pricing.Policy) *env {
	t.Helper()
	return newEnvWithGateway(t, policy, nil)
}

// hookedGateway runs beforeCreate between the checkout reading the session
// and the intent being recorded.
type hookedGateway struct {
	*payment.SandboxGateway
	beforeCreate func()
	created      []string
}

func (g *hookedGateway) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (shared.PaymentIntent, error) {
	if hook := g.beforeCreate; hook != nil {
		g.beforeCreate = nil
		hook()
	}
	pi, err := g.SandboxGateway.CreatePaymentIntent(ctx, amount, currency, metadata)
	if err == nil {
		g.created = append(g.created, pi.IntentID)
	}
	return pi, err
}

// newEnvWithGateway lets a test wrap the sandbox the checkout talks to.
func newEnvWithGateway(t *testing.T, policy pricing.Policy, wrap func(*payment.SandboxGateway) shared.PaymentGateway) *env {
	t.Helper()
	store := memstore.New()
	clk := clock.NewMockClock(builder.FixedNow)
	gateway := payment.NewSandboxGateway(webhookSecret)
	var checkoutGateway shared.PaymentGateway = gateway
	if wrap != nil {
		checkoutGateway = wrap(gateway)
	}
	stock := commands.NewStockManager(clk)
	statusCache := newMapStatusCache()

	orders := commands.NewOrderFactoryCommands(
		store,
		stock,
		order.NewFactory(clk, order.NewRandomNumberGenerator()),
		gateway,
		cache.NewLocalDeduper(time.Hour, clk),
		statusCache,
		clk,
	)
	checkoutCmds := commands.NewCheckoutCommands(
		store,
		stock,
		pricing.NewEngine(policy),
		checkoutGateway,
		orders,
		clk,
		commands.CheckoutSettings{SessionTTL: checkout.DefaultTTL, MaxItems: 20, Currency: "MYR"},
	)
	return &env{
		store:    store,
		clock:    clk,
		gateway:  gateway,
		stock:    stock,
		checkout: checkoutCmds,
		orders:   orders,
		status:   commands.NewOrderStatusCommands(store, identity.NewRolePolicy(), statusCache, clk),
		cache:    statusCache,
		queries:  queries.NewOrderQueries(store, store, identity.NewRolePolicy(), statusCache),
	}
}

// seedListing registers a seller and one listing it sells.
func (e *env) seedListing(seller *builder.SellerBuilder, price string, stock int) inventory.Listing {
	seller.Seed(e.store)
	return seller.Listing().WithPrice(price).WithStock(stock).Seed(e.store)
}

func (e *env) stockOf(t *testing.T, listingID uuid.UUID) int {
	t.Helper()
	l, ok := e.store.Listing(listingID)
	require.True(t, ok)
	return l.Stock
}

func (e *env) session(t *testing.T, id uuid.UUID) *checkout.Session {
	t.Helper()
	var s *checkout.Session
	err := e.store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var ferr error
		s, ferr = tx.Sessions().FindByID(ctx, id)
		return ferr
	})
	require.NoError(t, err)
	return s
}

func (e *env) order(t *testing.T, id uuid.UUID) *order.Order {
	t.Helper()
	var o *order.Order
	err := e.store.WithinReadOnly(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		var ferr error
		o, ferr = tx.Orders().FindByID(ctx, id)
		return ferr
	})
	require.NoError(t, err)
	return o
}

func (e *env) insertOrder(t *testing.T, o *order.Order) {
	t.Helper()
	err := e.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, o)
	})
	require.NoError(t, err)
}

func (e *env) topics() []string {
	var out []string
	for _, evt := range e.store.Events() {
		out = append(out, evt.Topic)
	}
	return out
}

func createInput(items ...checkout.RequestedItem) commands.CreateSessionInput {
	return commands.CreateSessionInput{
		Type:           checkout.SessionCart,
		Items:          items,
		DeliveryMethod: string(pricing.DeliveryPickup),
		PaymentMethod:  string(pricing.PaymentCard),
	}
}

func item(listingID uuid.UUID, qty int) checkout.RequestedItem {
	return checkout.RequestedItem{ListingID: listingID, Quantity: qty}
}

func ptr[T any](v T) *T { return &v }
