package readstore

import (
	"context"

	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponReadStore struct{}

func NewCouponReadStore() *CouponReadStore {
	return &CouponReadStore{}
}

const findCouponByCodeForCourseQuery = `
SELECT id, code, course_id, discount_pct, usage_count, usage_limit
FROM coupons
WHERE code = $1 AND course_id = $2
`

// FindByCodeForCourse resolves a coupon only within the course it was issued
// for; a valid code presented against the wrong course is a miss.
func (r *CouponReadStore) FindByCodeForCourse(ctx context.Context, dbtx db.DBTX, code string, courseID uuid.UUID) (*shared.CouponSnapshot, error) {
	var (
		snap  shared.CouponSnapshot
		limit pgtype.Int4
	)
	err := dbtx.QueryRow(ctx, findCouponByCodeForCourseQuery, code, courseID).Scan(
		&snap.ID, &snap.Code, &snap.CourseID, &snap.DiscountPct, &snap.UsageCount, &limit,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found for course", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	snap.UsageLimit = pgconv.Int32PtrFromPgtype(limit)
	return &snap, nil
}

const hasRedemptionForPurchaseQuery = `
SELECT EXISTS (
    SELECT 1 FROM coupon_redemptions
    WHERE purchase_id = $1
)
`

func (r *CouponReadStore) HasRedemptionForPurchase(ctx context.Context, dbtx db.DBTX, purchaseID uuid.UUID) (bool, error) {
	var exists bool
	if err := dbtx.QueryRow(ctx, hasRedemptionForPurchaseQuery, purchaseID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check coupon redemption", err)
	}
	return exists, nil
}
