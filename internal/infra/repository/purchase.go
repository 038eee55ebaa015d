package repository

import (
	"context"
	"time"

	"edustore/internal/domain/purchase"
	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
)

type PurchaseRepository struct{}

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{}
}

const markPaidQuery = `
UPDATE purchases
SET paid = TRUE,
    gateway_payment_id = $2,
    paid_at = $3
WHERE gateway_order_id = $1
  AND NOT paid
`

// MarkPaid flips every unpaid row sharing the gateway order id. The NOT paid
// guard makes a replayed callback a zero-row no-op and never overwrites the
// first callback's payment id or timestamp.
func (r *PurchaseRepository) MarkPaid(ctx context.Context, dbtx db.DBTX, orderID, paymentID string, paidAt time.Time) (int64, error) {
	tag, err := dbtx.Exec(ctx, markPaidQuery, orderID, paymentID, paidAt)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark purchase paid", err)
	}
	return tag.RowsAffected(), nil
}

const createMockGrantQuery = `
INSERT INTO purchases (
    id, user_id, mock_test_id, gateway_order_id, paid,
    amount_paid_cents, original_price_cents, source_bundle_id, paid_at, created_at
) VALUES ($1, $2, $3, $4, TRUE, 0, 0, $5, $6, $6)
ON CONFLICT (user_id, mock_test_id) WHERE paid DO NOTHING
`

// CreateMockGrant inserts a zero-amount paid row. The partial unique index on
// (user_id, mock_test_id) backstops concurrent fan-outs; losing the race
// surfaces as DUPLICATE_KEY rather than a second grant.
func (r *PurchaseRepository) CreateMockGrant(ctx context.Context, dbtx db.DBTX, grant *purchase.Purchase) error {
	tag, err := dbtx.Exec(ctx, createMockGrantQuery,
		grant.ID(),
		grant.UserID(),
		pgconv.UUIDPtrToPgtype(grant.MockTestID()),
		grant.GatewayOrderID(),
		pgconv.UUIDPtrToPgtype(grant.SourceBundleID()),
		grant.CreatedAt(),
	)
	if err != nil {
		return wrapWriteErr("failed to create mock grant", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("mock grant already exists", nil, infra.KindDuplicateKey)
	}
	return nil
}
