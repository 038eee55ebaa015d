package readstore

import (
	"context"

	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
	"edustore/internal/usecase/queries"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PurchaseReadStore struct{}

func NewPurchaseReadStore() *PurchaseReadStore {
	return &PurchaseReadStore{}
}

const findPurchaseByOrderIDQuery = `
SELECT id, user_id, course_id, mock_test_id, mock_bundle_id,
       gateway_order_id, gateway_payment_id, paid,
       amount_paid_cents, original_price_cents, paid_at, created_at
FROM purchases
WHERE gateway_order_id = $1
`

func (r *PurchaseReadStore) FindByGatewayOrderID(ctx context.Context, dbtx db.DBTX, orderID string) (*shared.PurchaseSnapshot, error) {
	var (
		snap         shared.PurchaseSnapshot
		courseID     pgtype.UUID
		mockTestID   pgtype.UUID
		mockBundleID pgtype.UUID
		paymentID    pgtype.Text
		amountPaid   pgtype.Int8
		paidAt       pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, findPurchaseByOrderIDQuery, orderID).Scan(
		&snap.ID, &snap.UserID, &courseID, &mockTestID, &mockBundleID,
		&snap.GatewayOrderID, &paymentID, &snap.Paid,
		&amountPaid, &snap.OriginalPriceCents, &paidAt, &snap.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("purchase not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase by order ID", err)
	}

	snap.CourseID = pgconv.UUIDPtrFromPgtype(courseID)
	snap.MockTestID = pgconv.UUIDPtrFromPgtype(mockTestID)
	snap.MockBundleID = pgconv.UUIDPtrFromPgtype(mockBundleID)
	snap.GatewayPaymentID = pgconv.StringPtrFromPgtype(paymentID)
	snap.AmountPaidCents = pgconv.Int64PtrFromPgtype(amountPaid)
	snap.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	return &snap, nil
}

const hasMockGrantQuery = `
SELECT EXISTS (
    SELECT 1 FROM purchases
    WHERE user_id = $1
      AND mock_test_id = $2
      AND (NOT $3::boolean OR paid)
)
`

// HasMockGrant reports whether the buyer already holds the mock test.
// paidOnly narrows the check to settled rows, which is what bundle expansion
// wants; a course inclusion honors even an unpaid direct purchase attempt.
func (r *PurchaseReadStore) HasMockGrant(ctx context.Context, dbtx db.DBTX, userID, mockTestID uuid.UUID, paidOnly bool) (bool, error) {
	var exists bool
	if err := dbtx.QueryRow(ctx, hasMockGrantQuery, userID, mockTestID, paidOnly).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check mock grant", err)
	}
	return exists, nil
}

const findPurchaseViewQuery = `
SELECT p.id, p.user_id, p.gateway_order_id, p.gateway_payment_id,
       CASE
           WHEN p.course_id IS NOT NULL THEN 'course'
           WHEN p.mock_test_id IS NOT NULL THEN 'mock_test'
           ELSE 'mock_bundle'
       END AS target_kind,
       COALESCE(c.title, mt.title, mb.title, '') AS target_title,
       p.paid, p.amount_paid_cents, p.original_price_cents, p.paid_at, p.created_at
FROM purchases p
LEFT JOIN courses c ON c.id = p.course_id
LEFT JOIN mock_tests mt ON mt.id = p.mock_test_id
LEFT JOIN mock_bundles mb ON mb.id = p.mock_bundle_id
WHERE p.gateway_order_id = $1
`

func (r *PurchaseReadStore) FindViewByOrderID(ctx context.Context, dbtx db.DBTX, orderID string) (*queries.PurchaseView, error) {
	var (
		view       queries.PurchaseView
		paymentID  pgtype.Text
		amountPaid pgtype.Int8
		paidAt     pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, findPurchaseViewQuery, orderID).Scan(
		&view.ID, &view.UserID, &view.GatewayOrderID, &paymentID,
		&view.TargetKind, &view.TargetTitle,
		&view.Paid, &amountPaid, &view.OriginalPriceCents, &paidAt, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("purchase not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase view", err)
	}

	view.GatewayPaymentID = pgconv.StringPtrFromPgtype(paymentID)
	view.AmountPaidCents = pgconv.Int64PtrFromPgtype(amountPaid)
	view.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	return &view, nil
}
