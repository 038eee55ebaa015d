package shared

import (
	"time"

	"edustore/internal/domain/course"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)

type PurchaseSnapshot struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	CourseID           *uuid.UUID
	MockTestID         *uuid.UUID
	MockBundleID       *uuid.UUID
	GatewayOrderID     string
	GatewayPaymentID   *string
	Paid               bool
	AmountPaidCents    *int64
	OriginalPriceCents int64
	PaidAt             *time.Time
	CreatedAt          time.Time
}

type CourseSnapshot struct {
	ID             uuid.UUID
	Title          string
	DurationMonths int32
	ListPriceCents int64
	SalePriceCents int64
	Inclusions     []course.Inclusion
}

type CouponSnapshot struct {
	ID          uuid.UUID
	Code        string
	CourseID    uuid.UUID
	DiscountPct int32
	UsageCount  int32
	UsageLimit  *int32
}

type BundleSnapshot struct {
	ID            uuid.UUID
	Title         string
	MemberMockIDs []uuid.UUID
}

type EnrollmentSnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CourseID  uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

type ContactSnapshot struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone *string
}

type SessionSnapshot struct {
	ID         uuid.UUID
	Title      string
	PriceCents int64
}

type Redemption struct {
	CouponID      uuid.UUID
	UserID        uuid.UUID
	PurchaseID    uuid.UUID
	DiscountCents int64
}
