package repository

import (
	"context"

	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

const incrementUsageQuery = `
UPDATE coupons
SET usage_count = usage_count + 1
WHERE id = $1
`

func (r *CouponRepository) IncrementUsage(ctx context.Context, dbtx db.DBTX, couponID uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, incrementUsageQuery, couponID); err != nil {
		return infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	return nil
}

const createRedemptionQuery = `
INSERT INTO coupon_redemptions (id, coupon_id, user_id, purchase_id, discount_cents, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (purchase_id) DO NOTHING
`

// CreateRedemption records at most one redemption per commercial record; the
// unique purchase_id constraint is the ledger's idempotency guard.
func (r *CouponRepository) CreateRedemption(ctx context.Context, dbtx db.DBTX, red shared.Redemption) error {
	tag, err := dbtx.Exec(ctx, createRedemptionQuery,
		uuid.New(),
		red.CouponID,
		red.UserID,
		red.PurchaseID,
		red.DiscountCents,
	)
	if err != nil {
		return wrapWriteErr("failed to create coupon redemption", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("redemption already recorded for purchase", nil, infra.KindDuplicateKey)
	}
	return nil
}
