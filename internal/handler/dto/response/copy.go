package response

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// Money leaves the API as a 2-decimal string and ids as canonical strings.
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: decimal.Decimal{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				d, ok := src.(decimal.Decimal)
				if !ok {
					return nil, fmt.Errorf("expected decimal.Decimal, got %T", src)
				}
				return d.StringFixed(2), nil
			},
		},
		{
			SrcType: uuid.UUID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				id, ok := src.(uuid.UUID)
				if !ok {
					return nil, fmt.Errorf("expected uuid.UUID, got %T", src)
				}
				return id.String(), nil
			},
		},
	},
}

// mustCopy panics on a mapping bug; the recovery middleware turns it into a 500.
func mustCopy(to, from any) {
	if err := copier.CopyWithOption(to, from, copyOption); err != nil {
		panic(fmt.Sprintf("response mapping: %v", err))
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
