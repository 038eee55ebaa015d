package queries

import (
	"time"

	"github.com/google/uuid"
)

type AuthorizedUserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     *string    `json:"phone"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

type EnrollmentView struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uuid.UUID `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	ExpiresAt   time.Time `json:"expires_at"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type PurchaseView struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	GatewayOrderID     string     `json:"gateway_order_id"`
	GatewayPaymentID   *string    `json:"gateway_payment_id"`
	TargetKind         string     `json:"target_kind"`
	TargetTitle        string     `json:"target_title"`
	Paid               bool       `json:"paid"`
	AmountPaidCents    *int64     `json:"amount_paid_cents"`
	OriginalPriceCents int64      `json:"original_price_cents"`
	PaidAt             *time.Time `json:"paid_at"`
	CreatedAt          time.Time  `json:"created_at"`
}
