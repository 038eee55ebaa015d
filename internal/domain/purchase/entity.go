package purchase

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoTarget       = errors.New("purchase must reference exactly one catalog item")
	ErrMultipleTarget = errors.New("purchase references more than one catalog item")
)

// TargetKind identifies which catalog item a commercial record is for.
type TargetKind string

const (
	TargetCourse     TargetKind = "course"
	TargetMockTest   TargetKind = "mock_test"
	TargetMockBundle TargetKind = "mock_bundle"
)

// Purchase is the commercial record of one buyer buying one catalog item.
// Rows with a mock test target double as mock-test grants; inclusion-sourced
// grants carry zero amounts and an audit tag.
type Purchase struct {
	id                 uuid.UUID
	userID             uuid.UUID
	courseID           *uuid.UUID
	mockTestID         *uuid.UUID
	mockBundleID       *uuid.UUID
	gatewayOrderID     string
	gatewayPaymentID   *string
	paid               bool
	amountPaidCents    *int64
	originalPriceCents int64
	sourceBundleID     *uuid.UUID
	paidAt             *time.Time
	createdAt          time.Time
}

func Reconstruct(
	id, userID uuid.UUID,
	courseID, mockTestID, mockBundleID *uuid.UUID,
	gatewayOrderID string,
	gatewayPaymentID *string,
	paid bool,
	amountPaidCents *int64,
	originalPriceCents int64,
	sourceBundleID *uuid.UUID,
	paidAt *time.Time,
	createdAt time.Time,
) (*Purchase, error) {
	p := &Purchase{
		id:                 id,
		userID:             userID,
		courseID:           courseID,
		mockTestID:         mockTestID,
		mockBundleID:       mockBundleID,
		gatewayOrderID:     gatewayOrderID,
		gatewayPaymentID:   gatewayPaymentID,
		paid:               paid,
		amountPaidCents:    amountPaidCents,
		originalPriceCents: originalPriceCents,
		sourceBundleID:     sourceBundleID,
		paidAt:             paidAt,
		createdAt:          createdAt,
	}
	if _, err := p.TargetKind(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewMockGrant builds the zero-amount grant row created when a purchased
// course (or bundle) includes a mock test. The synthetic order id ties the
// grant back to the originating purchase and inclusion for audit.
func NewMockGrant(userID, mockTestID uuid.UUID, syntheticOrderID string, sourceBundleID *uuid.UUID, now time.Time) *Purchase {
	zero := int64(0)
	return &Purchase{
		id:                 uuid.New(),
		userID:             userID,
		mockTestID:         &mockTestID,
		gatewayOrderID:     syntheticOrderID,
		paid:               true,
		amountPaidCents:    &zero,
		originalPriceCents: 0,
		sourceBundleID:     sourceBundleID,
		paidAt:             &now,
		createdAt:          now,
	}
}

// SyntheticOrderID derives the audit tag stored in the gateway-order-id field
// of an inclusion-sourced grant. Keyed by the granted mock test so every row
// minted under one purchase carries a distinct tag; the gateway order id
// column is unique across all purchase rows.
func SyntheticOrderID(purchaseID, mockTestID uuid.UUID) string {
	return fmt.Sprintf("inclusion_%s_%s", purchaseID, mockTestID)
}

// TargetKind validates the exactly-one-target invariant.
func (p *Purchase) TargetKind() (TargetKind, error) {
	var kind TargetKind
	n := 0
	if p.courseID != nil {
		kind = TargetCourse
		n++
	}
	if p.mockTestID != nil {
		kind = TargetMockTest
		n++
	}
	if p.mockBundleID != nil {
		kind = TargetMockBundle
		n++
	}

	switch {
	case n == 0:
		return "", ErrNoTarget
	case n > 1:
		return "", ErrMultipleTarget
	}
	return kind, nil
}

func (p *Purchase) ID() uuid.UUID              { return p.id }
func (p *Purchase) UserID() uuid.UUID          { return p.userID }
func (p *Purchase) CourseID() *uuid.UUID       { return p.courseID }
func (p *Purchase) MockTestID() *uuid.UUID     { return p.mockTestID }
func (p *Purchase) MockBundleID() *uuid.UUID   { return p.mockBundleID }
func (p *Purchase) GatewayOrderID() string     { return p.gatewayOrderID }
func (p *Purchase) GatewayPaymentID() *string  { return p.gatewayPaymentID }
func (p *Purchase) Paid() bool                 { return p.paid }
func (p *Purchase) AmountPaidCents() *int64    { return p.amountPaidCents }
func (p *Purchase) OriginalPriceCents() int64  { return p.originalPriceCents }
func (p *Purchase) SourceBundleID() *uuid.UUID { return p.sourceBundleID }
func (p *Purchase) PaidAt() *time.Time         { return p.paidAt }
func (p *Purchase) CreatedAt() time.Time       { return p.createdAt }
