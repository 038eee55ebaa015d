//go:build unit

package commands

import (
	"context"
	"time"

	"edustore/internal/domain/enrollment"
	"edustore/internal/domain/purchase"
	"edustore/internal/domain/session"
	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the persistence layer. State
// mutations mirror the SQL idempotency guards: conflict-style inserts report
// DUPLICATE_KEY instead of inserting twice.
type fakeStore struct {
	purchases   map[string]*shared.PurchaseSnapshot // by gateway order id
	courses     map[uuid.UUID]*shared.CourseSnapshot
	coupons     map[string]*shared.CouponSnapshot // by code
	bundles     map[uuid.UUID]*shared.BundleSnapshot
	contacts    map[uuid.UUID]*shared.ContactSnapshot
	sessions    map[uuid.UUID]*shared.SessionSnapshot
	enrollments map[string]*shared.EnrollmentSnapshot // userID|courseID

	mockGrants    map[string]bool                 // userID|mockTestID -> paid
	grantOrderIDs map[string]bool                 // gateway order ids minted for grant rows
	bundleGrants  map[string]bool                 // userID|bundleID
	seats         map[string]bool                 // userID|sessionID
	redemptions   map[uuid.UUID]shared.Redemption // by purchase id

	markPaidCalls   int
	usageIncrements map[uuid.UUID]int
	grantRows       []*purchase.Purchase

	contactLookupErr error
	withinErr        error
	withinErrOnCall  int // 1-based call index to fail; 0 fails every call
	withinCalls      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		purchases:       map[string]*shared.PurchaseSnapshot{},
		courses:         map[uuid.UUID]*shared.CourseSnapshot{},
		coupons:         map[string]*shared.CouponSnapshot{},
		bundles:         map[uuid.UUID]*shared.BundleSnapshot{},
		contacts:        map[uuid.UUID]*shared.ContactSnapshot{},
		sessions:        map[uuid.UUID]*shared.SessionSnapshot{},
		enrollments:     map[string]*shared.EnrollmentSnapshot{},
		mockGrants:      map[string]bool{},
		grantOrderIDs:   map[string]bool{},
		bundleGrants:    map[string]bool{},
		seats:           map[string]bool{},
		redemptions:     map[uuid.UUID]shared.Redemption{},
		usageIncrements: map[uuid.UUID]int{},
	}
}

func pairKey(a, b uuid.UUID) string {
	return a.String() + "|" + b.String()
}

// --- shared.UnitOfWork ---

func (s *fakeStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.withinCalls++
	if s.withinErr != nil && (s.withinErrOnCall == 0 || s.withinErrOnCall == s.withinCalls) {
		return s.withinErr
	}
	return fn(ctx, &fakeTx{s: s})
}

func (s *fakeStore) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (s *fakeStore) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (s *fakeStore) CommandReads() shared.CommandReads {
	return &fakeReads{s: s}
}

// --- shared.Tx ---

type fakeTx struct {
	s *fakeStore
}

func (t *fakeTx) Purchases() shared.PurchaseRepository     { return &fakePurchaseRepo{s: t.s} }
func (t *fakeTx) Enrollments() shared.EnrollmentRepository { return &fakeEnrollmentRepo{s: t.s} }
func (t *fakeTx) BundleGrants() shared.BundleGrantRepository {
	return &fakeBundleGrantRepo{s: t.s}
}
func (t *fakeTx) SessionSeats() shared.SessionSeatRepository {
	return &fakeSessionSeatRepo{s: t.s}
}
func (t *fakeTx) Coupons() shared.CouponRepository { return &fakeCouponRepo{s: t.s} }
func (t *fakeTx) Users() shared.UserRepository     { return &fakeUserRepo{} }
func (t *fakeTx) Reads() shared.CommandReads       { return &fakeReads{s: t.s} }
func (t *fakeTx) DB() db.DBTX                      { return nil }

// --- shared.CommandReads ---

type fakeReads struct {
	s *fakeStore
}

func (r *fakeReads) PurchaseByGatewayOrderID(_ context.Context, orderID string) (*shared.PurchaseSnapshot, error) {
	snap, ok := r.s.purchases[orderID]
	if !ok {
		return nil, infra.WrapRepoErr("purchase not found", nil, infra.KindNotFound)
	}
	cp := *snap
	return &cp, nil
}

func (r *fakeReads) CourseByID(_ context.Context, id uuid.UUID) (*shared.CourseSnapshot, error) {
	snap, ok := r.s.courses[id]
	if !ok {
		return nil, infra.WrapRepoErr("course not found", nil, infra.KindNotFound)
	}
	return snap, nil
}

func (r *fakeReads) CouponByCodeForCourse(_ context.Context, code string, courseID uuid.UUID) (*shared.CouponSnapshot, error) {
	snap, ok := r.s.coupons[code]
	if !ok || snap.CourseID != courseID {
		return nil, infra.WrapRepoErr("coupon not found for course", nil, infra.KindNotFound)
	}
	return snap, nil
}

func (r *fakeReads) BundleByID(_ context.Context, id uuid.UUID) (*shared.BundleSnapshot, error) {
	snap, ok := r.s.bundles[id]
	if !ok {
		return nil, infra.WrapRepoErr("bundle not found", nil, infra.KindNotFound)
	}
	return snap, nil
}

func (r *fakeReads) EnrollmentByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) (*shared.EnrollmentSnapshot, error) {
	snap, ok := r.s.enrollments[pairKey(userID, courseID)]
	if !ok {
		return nil, infra.WrapRepoErr("enrollment not found", nil, infra.KindNotFound)
	}
	return snap, nil
}

func (r *fakeReads) HasMockGrant(_ context.Context, userID, mockTestID uuid.UUID, paidOnly bool) (bool, error) {
	paid, ok := r.s.mockGrants[pairKey(userID, mockTestID)]
	if !ok {
		return false, nil
	}
	if paidOnly {
		return paid, nil
	}
	return true, nil
}

func (r *fakeReads) HasBundleGrant(_ context.Context, userID, bundleID uuid.UUID) (bool, error) {
	return r.s.bundleGrants[pairKey(userID, bundleID)], nil
}

func (r *fakeReads) HasSuccessSeat(_ context.Context, userID, sessionID uuid.UUID) (bool, error) {
	return r.s.seats[pairKey(userID, sessionID)], nil
}

func (r *fakeReads) ContactByUserID(_ context.Context, userID uuid.UUID) (*shared.ContactSnapshot, error) {
	if r.s.contactLookupErr != nil {
		return nil, r.s.contactLookupErr
	}
	snap, ok := r.s.contacts[userID]
	if !ok {
		return nil, infra.WrapRepoErr("buyer contact not found", nil, infra.KindNotFound)
	}
	return snap, nil
}

func (r *fakeReads) SessionByID(_ context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	snap, ok := r.s.sessions[id]
	if !ok {
		return nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	return snap, nil
}

func (r *fakeReads) HasRedemptionForPurchase(_ context.Context, purchaseID uuid.UUID) (bool, error) {
	_, ok := r.s.redemptions[purchaseID]
	return ok, nil
}

// --- write repositories ---

type fakePurchaseRepo struct {
	s *fakeStore
}

func (r *fakePurchaseRepo) MarkPaid(_ context.Context, _ db.DBTX, orderID, paymentID string, paidAt time.Time) (int64, error) {
	r.s.markPaidCalls++
	snap, ok := r.s.purchases[orderID]
	if !ok || snap.Paid {
		return 0, nil
	}
	snap.Paid = true
	snap.GatewayPaymentID = &paymentID
	snap.PaidAt = &paidAt
	return 1, nil
}

func (r *fakePurchaseRepo) CreateMockGrant(_ context.Context, _ db.DBTX, grant *purchase.Purchase) error {
	key := pairKey(grant.UserID(), *grant.MockTestID())
	if paid := r.s.mockGrants[key]; paid {
		return infra.WrapRepoErr("mock grant already exists", nil, infra.KindDuplicateKey)
	}
	// gateway_order_id is unique across all purchase rows; a collision there is
	// not handled by the (user_id, mock_test_id) arbiter and aborts the statement.
	orderID := grant.GatewayOrderID()
	if _, taken := r.s.purchases[orderID]; taken || r.s.grantOrderIDs[orderID] {
		return infra.WrapRepoErr("gateway order id already exists", nil, infra.KindDBFailure)
	}
	r.s.grantOrderIDs[orderID] = true
	r.s.mockGrants[key] = true
	r.s.grantRows = append(r.s.grantRows, grant)
	return nil
}

type fakeEnrollmentRepo struct {
	s *fakeStore
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, _ db.DBTX, e *enrollment.Enrollment) error {
	key := pairKey(e.UserID(), e.CourseID())
	if _, ok := r.s.enrollments[key]; ok {
		return infra.WrapRepoErr("enrollment already exists", nil, infra.KindDuplicateKey)
	}
	r.s.enrollments[key] = &shared.EnrollmentSnapshot{
		ID:        e.ID(),
		UserID:    e.UserID(),
		CourseID:  e.CourseID(),
		ExpiresAt: e.ExpiresAt(),
		CreatedAt: e.CreatedAt(),
	}
	return nil
}

type fakeBundleGrantRepo struct {
	s *fakeStore
}

func (r *fakeBundleGrantRepo) Create(_ context.Context, _ db.DBTX, userID, bundleID uuid.UUID, _ time.Time) error {
	key := pairKey(userID, bundleID)
	if r.s.bundleGrants[key] {
		return infra.WrapRepoErr("bundle grant already exists", nil, infra.KindDuplicateKey)
	}
	r.s.bundleGrants[key] = true
	return nil
}

type fakeSessionSeatRepo struct {
	s *fakeStore
}

func (r *fakeSessionSeatRepo) Create(_ context.Context, _ db.DBTX, seat *session.Seat) error {
	key := pairKey(seat.UserID(), seat.SessionID())
	if r.s.seats[key] {
		return infra.WrapRepoErr("session seat already exists", nil, infra.KindDuplicateKey)
	}
	r.s.seats[key] = true
	return nil
}

type fakeCouponRepo struct {
	s *fakeStore
}

func (r *fakeCouponRepo) IncrementUsage(_ context.Context, _ db.DBTX, couponID uuid.UUID) error {
	r.s.usageIncrements[couponID]++
	return nil
}

func (r *fakeCouponRepo) CreateRedemption(_ context.Context, _ db.DBTX, red shared.Redemption) error {
	if _, ok := r.s.redemptions[red.PurchaseID]; ok {
		return infra.WrapRepoErr("redemption already recorded for purchase", nil, infra.KindDuplicateKey)
	}
	r.s.redemptions[red.PurchaseID] = red
	return nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

// recordingSender captures every notification handed to it.
type recordingSender struct {
	sent    []PurchaseNotification
	sendErr error
}

func (s *recordingSender) Send(_ context.Context, n PurchaseNotification) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, n)
	return nil
}
