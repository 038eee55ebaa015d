package commands

import (
	"context"
	"log/slog"
	"time"

	"edustore/internal/domain/coupon"
	"edustore/internal/domain/course"
	"edustore/internal/domain/enrollment"
	"edustore/internal/infra"
	"edustore/internal/pkg/clock"
	"edustore/internal/pkg/config"
	"edustore/internal/pkg/errs"
	"edustore/internal/pkg/signature"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBadSignature            = errs.New("payment signature mismatch")
	ErrPurchaseNotFound        = errs.New("no purchase for gateway order")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type VerifyPurchaseRequest struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
	CouponCode       *string
}

type VerifyPurchaseResult struct {
	PurchaseID   uuid.UUID
	EnrollmentID *uuid.UUID
	Replayed     bool // the commercial record was already settled
	Report       *FanOutReport
}

type PurchaseCommands interface {
	VerifyPurchase(ctx context.Context, req VerifyPurchaseRequest) (*VerifyPurchaseResult, error)
}

type purchaseCommandsImpl struct {
	uow           shared.UnitOfWork
	sender        NotificationSender
	gatewaySecret string
	clock         clock.Clock
}

func NewPurchaseCommands(
	uow shared.UnitOfWork,
	sender NotificationSender,
	cfg config.GatewayConfig,
	clk clock.Clock,
) PurchaseCommands {
	return &purchaseCommandsImpl{
		uow:           uow,
		sender:        sender,
		gatewaySecret: cfg.KeySecret,
		clock:         clk,
	}
}

// VerifyPurchase settles a gateway-confirmed payment and fans it out into
// entitlements. Every step after the signature check is idempotent, so
// duplicate gateway callbacks converge on the same final state.
func (p *purchaseCommandsImpl) VerifyPurchase(ctx context.Context, req VerifyPurchaseRequest) (*VerifyPurchaseResult, error) {
	if !signature.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.Signature, p.gatewaySecret) {
		return nil, ErrBadSignature
	}

	snap, err := p.uow.CommandReads().PurchaseByGatewayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &VerifyPurchaseResult{
		PurchaseID: snap.ID,
		Replayed:   snap.Paid,
	}
	now := p.clock.Now()

	// Tx 1: settle the commercial record; coupon redemption rides the same
	// transaction so the counter and the paid flag move together.
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, txErr := tx.Purchases().MarkPaid(ctx, tx.DB(), req.GatewayOrderID, req.GatewayPaymentID, now); txErr != nil {
			return txErr
		}
		if req.CouponCode != nil && snap.CourseID != nil {
			return p.redeemCoupon(ctx, tx, *req.CouponCode, *snap.CourseID, snap)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	switch {
	case snap.CourseID != nil:
		return p.fulfillCourse(ctx, snap, result, now)
	case snap.MockBundleID != nil:
		return p.fulfillBundle(ctx, snap, result, now)
	default:
		// A mock-test purchase is fulfilled by its own row turning paid.
		return result, nil
	}
}

func (p *purchaseCommandsImpl) fulfillCourse(
	ctx context.Context,
	snap *shared.PurchaseSnapshot,
	result *VerifyPurchaseResult,
	now time.Time,
) (*VerifyPurchaseResult, error) {
	courseSnap, err := p.uow.CommandReads().CourseByID(ctx, *snap.CourseID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	enrolled, err := p.ensureEnrollment(ctx, snap.UserID, courseSnap, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	result.EnrollmentID = &enrolled.ID

	result.Report = p.processInclusions(ctx, snap, courseSnap, now)

	p.notifyPurchase(ctx, snap, courseSnap.Title, enrolled.ExpiresAt)

	return result, nil
}

// fulfillBundle expands a directly purchased mock bundle. Expansion shares
// the inclusion engine's bundle path and its best-effort semantics.
func (p *purchaseCommandsImpl) fulfillBundle(
	ctx context.Context,
	snap *shared.PurchaseSnapshot,
	result *VerifyPurchaseResult,
	now time.Time,
) (*VerifyPurchaseResult, error) {
	report := &FanOutReport{}
	bundleID := *snap.MockBundleID

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res := InclusionResult{Kind: course.InclusionMockBundle, TargetID: bundleID}
		outcome, reason, txErr := p.grantBundle(ctx, tx, snap, bundleID, now)
		if txErr != nil {
			return txErr
		}
		res.Outcome, res.Reason = outcome, reason
		report.add(res)
		return nil
	})
	if err != nil {
		slog.Error("bundle expansion failed; purchase remains settled",
			"order_id", snap.GatewayOrderID,
			"bundle_id", bundleID,
			"error", err.Error())
		report = &FanOutReport{Results: []InclusionResult{{
			Kind:     course.InclusionMockBundle,
			TargetID: bundleID,
			Outcome:  OutcomeFailed,
			Reason:   "bundle expansion transaction failed",
		}}}
	}

	result.Report = report
	return result, nil
}

// ensureEnrollment grants course access at most once per (buyer, course).
// The unique (user_id, course_id) constraint backstops concurrent callbacks.
func (p *purchaseCommandsImpl) ensureEnrollment(
	ctx context.Context,
	userID uuid.UUID,
	courseSnap *shared.CourseSnapshot,
	now time.Time,
) (*shared.EnrollmentSnapshot, error) {
	var out *shared.EnrollmentSnapshot

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, readErr := tx.Reads().EnrollmentByUserAndCourse(ctx, userID, courseSnap.ID)
		if readErr == nil {
			out = existing
			return nil
		}
		if !infra.IsKind(readErr, infra.KindNotFound) {
			return readErr
		}

		e, newErr := enrollment.NewEnrollment(userID, courseSnap.ID, courseSnap.DurationMonths, now)
		if newErr != nil {
			return newErr
		}

		if createErr := tx.Enrollments().Create(ctx, tx.DB(), e); createErr != nil {
			// Lost a concurrent race; the existing row wins.
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				existing, rerr := tx.Reads().EnrollmentByUserAndCourse(ctx, userID, courseSnap.ID)
				if rerr != nil {
					return rerr
				}
				out = existing
				return nil
			}
			return createErr
		}

		out = &shared.EnrollmentSnapshot{
			ID:        e.ID(),
			UserID:    e.UserID(),
			CourseID:  e.CourseID(),
			ExpiresAt: e.ExpiresAt(),
			CreatedAt: e.CreatedAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// redeemCoupon records one redemption per commercial record. Unknown codes
// and exhausted coupons are swallowed; only storage failures propagate and
// roll back the settlement transaction they share.
func (p *purchaseCommandsImpl) redeemCoupon(
	ctx context.Context,
	tx shared.Tx,
	code string,
	courseID uuid.UUID,
	snap *shared.PurchaseSnapshot,
) error {
	cpSnap, err := tx.Reads().CouponByCodeForCourse(ctx, code, courseID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			slog.Info("coupon code not found for course; skipping redemption",
				"code", code, "course_id", courseID)
			return nil
		}
		return err
	}

	already, err := tx.Reads().HasRedemptionForPurchase(ctx, snap.ID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	cp, err := coupon.NewCoupon(cpSnap.ID, cpSnap.Code, cpSnap.CourseID, cpSnap.DiscountPct, cpSnap.UsageCount, cpSnap.UsageLimit)
	if err != nil {
		slog.Warn("invalid coupon row; skipping redemption", "coupon_id", cpSnap.ID, "error", err.Error())
		return nil
	}
	if usageErr := cp.ValidateUsage(); usageErr != nil {
		slog.Info("coupon at usage cap; purchase proceeds without redemption", "coupon_id", cpSnap.ID)
		return nil
	}

	courseSnap, err := tx.Reads().CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	basePrice := courseSnap.ListPriceCents
	if courseSnap.SalePriceCents > basePrice {
		basePrice = courseSnap.SalePriceCents
	}

	redemption := shared.Redemption{
		CouponID:      cp.ID(),
		UserID:        snap.UserID,
		PurchaseID:    snap.ID,
		DiscountCents: cp.DiscountAmountCents(basePrice),
	}
	if err := tx.Coupons().CreateRedemption(ctx, tx.DB(), redemption); err != nil {
		// concurrent replay already recorded it
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil
		}
		return err
	}

	return tx.Coupons().IncrementUsage(ctx, tx.DB(), cp.ID())
}

func (p *purchaseCommandsImpl) notifyPurchase(
	ctx context.Context,
	snap *shared.PurchaseSnapshot,
	courseTitle string,
	expiresAt time.Time,
) {
	contact, err := p.uow.CommandReads().ContactByUserID(ctx, snap.UserID)
	if err != nil {
		slog.Warn("skipping purchase notification; buyer contact unavailable",
			"order_id", snap.GatewayOrderID, "error", err.Error())
		return
	}

	amountCents := snap.OriginalPriceCents
	if snap.AmountPaidCents != nil {
		amountCents = *snap.AmountPaidCents
	}

	n := PurchaseNotification{
		Recipient:     contact.Email,
		TemplateKind:  TemplateCoursePurchase,
		BuyerName:     contact.Name,
		CourseTitle:   courseTitle,
		AmountPaid:    float64(amountCents) / 100,
		AccessExpires: expiresAt.Format("02 Jan 2006"),
	}

	if err := p.sender.Send(ctx, n); err != nil {
		// Entitlements are already durable; a lost mail is an operator concern.
		slog.Warn("purchase notification failed",
			"order_id", snap.GatewayOrderID, "error", err.Error())
	}
}
