package commands

import (
	"context"
)

// PurchaseNotification is the template data handed to the transactional
// mailer. Amounts are major currency units; the expiry is already formatted
// for humans.
type PurchaseNotification struct {
	Recipient     string  `json:"recipient"`
	TemplateKind  string  `json:"template_kind"`
	BuyerName     string  `json:"buyer_name"`
	CourseTitle   string  `json:"course_title"`
	AmountPaid    float64 `json:"amount_paid"`
	AccessExpires string  `json:"access_expires"`
}

const TemplateCoursePurchase = "course_purchase"

// NotificationSender is the opaque "send transactional email" collaborator.
// Sends are best-effort; callers log and swallow every error.
type NotificationSender interface {
	Send(ctx context.Context, n PurchaseNotification) error
}
