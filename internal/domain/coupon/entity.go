package coupon

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidDiscountPercent = errors.New("discount percentage must be between 0 and 100")
	ErrUsageLimitReached      = errors.New("coupon usage limit reached")
)

// Coupon is a course-scoped percentage discount code.
type Coupon struct {
	id          uuid.UUID
	code        string
	courseID    uuid.UUID
	discountPct int32
	usageCount  int32
	usageLimit  *int32
}

func NewCoupon(
	id uuid.UUID,
	code string,
	courseID uuid.UUID,
	discountPct int32,
	usageCount int32,
	usageLimit *int32,
) (*Coupon, error) {
	if discountPct <= 0 || discountPct > 100 {
		return nil, ErrInvalidDiscountPercent
	}

	return &Coupon{
		id:          id,
		code:        code,
		courseID:    courseID,
		discountPct: discountPct,
		usageCount:  usageCount,
		usageLimit:  usageLimit,
	}, nil
}

// DiscountAmountCents is floor(basePrice * pct / 100). Integer division floors
// for non-negative operands, matching the checkout-side rounding.
func (c *Coupon) DiscountAmountCents(basePriceCents int64) int64 {
	if basePriceCents <= 0 {
		return 0
	}
	return basePriceCents * int64(c.discountPct) / 100
}

func (c *Coupon) ValidateUsage() error {
	if c.usageLimit != nil && c.usageCount >= *c.usageLimit {
		return ErrUsageLimitReached
	}
	return nil
}

func (c *Coupon) ID() uuid.UUID      { return c.id }
func (c *Coupon) Code() string       { return c.code }
func (c *Coupon) CourseID() uuid.UUID { return c.courseID }
func (c *Coupon) DiscountPct() int32 { return c.discountPct }
func (c *Coupon) UsageCount() int32  { return c.usageCount }
func (c *Coupon) UsageLimit() *int32 { return c.usageLimit }
