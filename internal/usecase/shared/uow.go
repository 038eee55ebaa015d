package shared

import (
	"context"
	"time"

	"edustore/internal/domain/enrollment"
	"edustore/internal/domain/purchase"
	"edustore/internal/domain/session"
	"edustore/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Purchases() PurchaseRepository
	Enrollments() EnrollmentRepository
	BundleGrants() BundleGrantRepository
	SessionSeats() SessionSeatRepository
	Coupons() CouponRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the lookups the verification flow performs between writes.
// Each existence check is the idempotency guard for the matching insert.
type CommandReads interface {
	PurchaseByGatewayOrderID(ctx context.Context, orderID string) (*PurchaseSnapshot, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*CourseSnapshot, error)
	CouponByCodeForCourse(ctx context.Context, code string, courseID uuid.UUID) (*CouponSnapshot, error)
	BundleByID(ctx context.Context, id uuid.UUID) (*BundleSnapshot, error)
	EnrollmentByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*EnrollmentSnapshot, error)
	HasMockGrant(ctx context.Context, userID, mockTestID uuid.UUID, paidOnly bool) (bool, error)
	HasBundleGrant(ctx context.Context, userID, bundleID uuid.UUID) (bool, error)
	HasSuccessSeat(ctx context.Context, userID, sessionID uuid.UUID) (bool, error)
	ContactByUserID(ctx context.Context, userID uuid.UUID) (*ContactSnapshot, error)
	SessionByID(ctx context.Context, id uuid.UUID) (*SessionSnapshot, error)
	HasRedemptionForPurchase(ctx context.Context, purchaseID uuid.UUID) (bool, error)
}

type PurchaseRepository interface {
	// MarkPaid settles every unpaid row sharing the gateway order id; a repeat
	// call touches zero rows.
	MarkPaid(ctx context.Context, dbtx db.DBTX, orderID, paymentID string, paidAt time.Time) (int64, error)
	CreateMockGrant(ctx context.Context, dbtx db.DBTX, grant *purchase.Purchase) error
}

type EnrollmentRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, e *enrollment.Enrollment) error
}

type BundleGrantRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, userID, bundleID uuid.UUID, grantedAt time.Time) error
}

type SessionSeatRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, seat *session.Seat) error
}

type CouponRepository interface {
	IncrementUsage(ctx context.Context, dbtx db.DBTX, couponID uuid.UUID) error
	CreateRedemption(ctx context.Context, dbtx db.DBTX, r Redemption) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}
