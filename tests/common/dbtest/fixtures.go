//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()
	tag, err := db.Exec(ctx, `INSERT INTO users (id, email, name, phone, role, is_active)
		VALUES ($1, $2, $3, '+60100000000', $4, true) ON CONFLICT (email) DO NOTHING`,
		userID, email, strings.Split(email, "@")[0], role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}
	return userID
}

// SellerFixture identifies a seeded seller and its owning user.
type SellerFixture struct {
	SellerID uuid.UUID
	UserID   uuid.UUID
}

// CreateTestSeller seeds a seller account with pickup free and flat personal/campus fees.
func CreateTestSeller(t *testing.T, db DBLike, email, shopName string) SellerFixture {
	t.Helper()

	userID := CreateTestUser(t, db, email, "seller")
	sellerID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx, `INSERT INTO sellers
		(id, user_id, shop_name, personal_fee, campus_fee, pickup_fee, free_delivery_threshold, delivery_methods, is_active)
		VALUES ($1, $2, $3, 8.00, 3.00, 0, 0, '{personal,campus,pickup}', true)`,
		sellerID, userID, shopName)
	require.NoError(t, err)
	return SellerFixture{SellerID: sellerID, UserID: userID}
}

func CreateTestListing(t *testing.T, db DBLike, sellerID uuid.UUID, title, price string, stock int) uuid.UUID {
	t.Helper()

	listingID := uuid.New()
	_, err := db.Exec(context.Background(), `INSERT INTO listings (id, seller_id, title, price, discount, stock, is_active)
		VALUES ($1, $2, $3, $4::text::numeric, 0, $5, true)`,
		listingID, sellerID, title, price, stock)
	require.NoError(t, err)
	return listingID
}

func ListingStock(t *testing.T, db DBLike, listingID uuid.UUID) int {
	t.Helper()

	var stock int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT stock FROM listings WHERE id = $1", listingID).Scan(&stock))
	return stock
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
