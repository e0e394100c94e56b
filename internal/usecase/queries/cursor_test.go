//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"marketplace-checkout/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursor(t *testing.T) {
	t.Run("マイクロ秒精度で復元", func(t *testing.T) {
		at := time.Date(2025, 1, 29, 10, 0, 0, 123456789, time.UTC)
		id := uuid.New()

		gotAt, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))
		require.NoError(t, err)
		assert.Equal(t, at.Truncate(time.Microsecond), gotAt)
		assert.Equal(t, id, gotID)
	})

	raw := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	cases := []struct {
		name   string
		cursor string
	}{
		{name: "base64でないNG", cursor: "not base64!"},
		{name: "バージョンなしNG", cursor: raw("1738144800000000-" + uuid.NewString())},
		{name: "未知のバージョンNG", cursor: raw("v2:1738144800000000-" + uuid.NewString())},
		{name: "区切りなしNG", cursor: raw("v1:1738144800000000")},
		{name: "時刻が数値でないNG", cursor: raw("v1:yesterday-" + uuid.NewString())},
		{name: "IDが不正NG", cursor: raw("v1:1738144800000000-42")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(tc.cursor)
			assert.ErrorIs(t, err, queries.ErrInvalidCursor)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-3))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}
