package commands

import (
	"context"
	"log/slog"
	"time"

	"edustore/internal/domain/course"
	"edustore/internal/domain/purchase"
	"edustore/internal/domain/session"
	"edustore/internal/infra"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

// processInclusions walks the course's declared inclusions inside one
// transaction. A data problem on one inclusion (missing bundle, missing
// contact) is recorded and the walk continues; a storage failure rolls the
// whole pass back, and a later replay of the callback redoes it from scratch.
func (p *purchaseCommandsImpl) processInclusions(
	ctx context.Context,
	snap *shared.PurchaseSnapshot,
	courseSnap *shared.CourseSnapshot,
	now time.Time,
) *FanOutReport {
	report := &FanOutReport{}
	if len(courseSnap.Inclusions) == 0 {
		return report
	}

	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, inc := range courseSnap.Inclusions {
			res := InclusionResult{
				InclusionID: inc.ID(),
				Kind:        inc.Kind(),
				TargetID:    inc.TargetID(),
			}

			outcome, reason, incErr := p.processOne(ctx, tx, snap, inc, now)
			if incErr != nil {
				return incErr
			}
			res.Outcome, res.Reason = outcome, reason
			report.add(res)
		}
		return nil
	})
	if err != nil {
		slog.Error("inclusion fan-out failed; purchase remains settled",
			"order_id", snap.GatewayOrderID,
			"course_id", courseSnap.ID,
			"error", err.Error())
		// Nothing committed; report every inclusion as failed for this pass.
		report = &FanOutReport{}
		for _, inc := range courseSnap.Inclusions {
			report.add(InclusionResult{
				InclusionID: inc.ID(),
				Kind:        inc.Kind(),
				TargetID:    inc.TargetID(),
				Outcome:     OutcomeFailed,
				Reason:      "fan-out transaction failed",
			})
		}
	}

	for _, f := range report.Failures() {
		slog.Warn("inclusion grant failed",
			"order_id", snap.GatewayOrderID,
			"inclusion_id", f.InclusionID,
			"kind", f.Kind.String(),
			"target_id", f.TargetID,
			"reason", f.Reason)
	}

	return report
}

func (p *purchaseCommandsImpl) processOne(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.PurchaseSnapshot,
	inc course.Inclusion,
	now time.Time,
) (InclusionOutcome, string, error) {
	switch inc.Kind() {
	case course.InclusionMockTest:
		return p.grantMockTest(ctx, tx, snap, inc.TargetID(), nil, now)
	case course.InclusionMockBundle:
		return p.grantBundle(ctx, tx, snap, inc.TargetID(), now)
	case course.InclusionSession:
		return p.grantSessionSeat(ctx, tx, snap, inc.TargetID(), now)
	default:
		return OutcomeFailed, "unknown inclusion kind", nil
	}
}

// grantMockTest inserts a zero-amount paid grant row unless the buyer already
// holds the mock test. sourceBundleID tags grants minted by bundle expansion.
// The grant's audit tag is derived from the mock-test id so every row minted
// under one purchase keeps a distinct gateway order id.
func (p *purchaseCommandsImpl) grantMockTest(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.PurchaseSnapshot,
	mockTestID uuid.UUID,
	sourceBundleID *uuid.UUID,
	now time.Time,
) (InclusionOutcome, string, error) {
	paidOnly := sourceBundleID != nil
	owned, err := tx.Reads().HasMockGrant(ctx, snap.UserID, mockTestID, paidOnly)
	if err != nil {
		return "", "", err
	}
	if owned {
		return OutcomeAlreadyExisted, "", nil
	}

	grant := purchase.NewMockGrant(
		snap.UserID,
		mockTestID,
		purchase.SyntheticOrderID(snap.ID, mockTestID),
		sourceBundleID,
		now,
	)
	if err := tx.Purchases().CreateMockGrant(ctx, tx.DB(), grant); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return OutcomeAlreadyExisted, "", nil
		}
		return "", "", err
	}
	return OutcomeGranted, "", nil
}

// grantBundle records a bundle grant and mints individual mock grants for
// every member the buyer does not already hold, so a buyer owning M of N
// members gains exactly N-M new grants.
func (p *purchaseCommandsImpl) grantBundle(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.PurchaseSnapshot,
	bundleID uuid.UUID,
	now time.Time,
) (InclusionOutcome, string, error) {
	held, err := tx.Reads().HasBundleGrant(ctx, snap.UserID, bundleID)
	if err != nil {
		return "", "", err
	}

	bundle, err := tx.Reads().BundleByID(ctx, bundleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return OutcomeFailed, "bundle not found", nil
		}
		return "", "", err
	}

	// Member expansion reruns even when the bundle grant exists, so a pass
	// interrupted mid-expansion converges on the next callback.
	for _, memberID := range bundle.MemberMockIDs {
		if _, _, err := p.grantMockTest(ctx, tx, snap, memberID, &bundleID, now); err != nil {
			return "", "", err
		}
	}

	if held {
		return OutcomeAlreadyExisted, "", nil
	}
	if err := tx.BundleGrants().Create(ctx, tx.DB(), snap.UserID, bundleID, now); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return OutcomeAlreadyExisted, "", nil
		}
		return "", "", err
	}
	return OutcomeGranted, "", nil
}

// grantSessionSeat books a zero-amount SUCCESS seat with the buyer's contact
// details denormalized onto the row.
func (p *purchaseCommandsImpl) grantSessionSeat(
	ctx context.Context,
	tx shared.Tx,
	snap *shared.PurchaseSnapshot,
	sessionID uuid.UUID,
	now time.Time,
) (InclusionOutcome, string, error) {
	booked, err := tx.Reads().HasSuccessSeat(ctx, snap.UserID, sessionID)
	if err != nil {
		return "", "", err
	}
	if booked {
		return OutcomeAlreadyExisted, "", nil
	}

	contact, err := tx.Reads().ContactByUserID(ctx, snap.UserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return OutcomeFailed, "buyer contact not found", nil
		}
		return "", "", err
	}

	if _, err := tx.Reads().SessionByID(ctx, sessionID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return OutcomeFailed, "session not found", nil
		}
		return "", "", err
	}

	seat, err := session.NewIncludedSeat(snap.UserID, sessionID, contact.Name, contact.Email, contact.Phone, now)
	if err != nil {
		return OutcomeFailed, err.Error(), nil
	}

	if err := tx.SessionSeats().Create(ctx, tx.DB(), seat); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return OutcomeAlreadyExisted, "", nil
		}
		return "", "", err
	}
	return OutcomeGranted, "", nil
}
