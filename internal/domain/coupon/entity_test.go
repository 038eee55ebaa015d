//go:build unit

package coupon_test

import (
	"testing"

	"edustore/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoupon(t *testing.T, pct int32) *coupon.Coupon {
	t.Helper()
	c, err := coupon.NewCoupon(uuid.New(), "LAUNCH15", uuid.New(), pct, 0, nil)
	require.NoError(t, err)
	return c
}

func TestDiscountAmountCents(t *testing.T) {
	cases := []struct {
		name      string
		basePrice int64
		pct       int32
		want      int64
	}{
		{name: "even percentage", basePrice: 2000, pct: 15, want: 300},
		{name: "floors fractional result", basePrice: 999, pct: 33, want: 329},
		{name: "full discount", basePrice: 1500, pct: 100, want: 1500},
		{name: "one percent of small price floors to zero", basePrice: 99, pct: 1, want: 0},
		{name: "zero base price", basePrice: 0, pct: 50, want: 0},
		{name: "negative base price yields zero", basePrice: -100, pct: 50, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCoupon(t, tc.pct)
			assert.Equal(t, tc.want, c.DiscountAmountCents(tc.basePrice))
		})
	}
}

func TestNewCoupon(t *testing.T) {
	t.Run("rejects zero percentage", func(t *testing.T) {
		_, err := coupon.NewCoupon(uuid.New(), "X", uuid.New(), 0, 0, nil)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountPercent)
	})

	t.Run("rejects percentage above 100", func(t *testing.T) {
		_, err := coupon.NewCoupon(uuid.New(), "X", uuid.New(), 101, 0, nil)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountPercent)
	})
}

func TestValidateUsage(t *testing.T) {
	limit := int32(2)

	t.Run("under the limit", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.New(), "CAP2", uuid.New(), 10, 1, &limit)
		require.NoError(t, err)
		assert.NoError(t, c.ValidateUsage())
	})

	t.Run("at the limit", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.New(), "CAP2", uuid.New(), 10, 2, &limit)
		require.NoError(t, err)
		assert.ErrorIs(t, c.ValidateUsage(), coupon.ErrUsageLimitReached)
	})

	t.Run("no limit configured", func(t *testing.T) {
		c, err := coupon.NewCoupon(uuid.New(), "OPEN", uuid.New(), 10, 9999, nil)
		require.NoError(t, err)
		assert.NoError(t, c.ValidateUsage())
	})
}
