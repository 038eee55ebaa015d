package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"edustore/internal/infra/db"
	"edustore/internal/infra/readstore"
	"edustore/internal/infra/repository"
	"edustore/internal/pkg/errs"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	purchaseRepo    shared.PurchaseRepository
	enrollmentRepo  shared.EnrollmentRepository
	bundleGrantRepo shared.BundleGrantRepository
	sessionSeatRepo shared.SessionSeatRepository
	couponRepo      shared.CouponRepository
	userRepo        shared.UserRepository
	commandReads    shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Purchases() shared.PurchaseRepository {
	if t.purchaseRepo == nil {
		t.purchaseRepo = repository.NewPurchaseRepository()
	}
	return t.purchaseRepo
}

func (t *pgTx) Enrollments() shared.EnrollmentRepository {
	if t.enrollmentRepo == nil {
		t.enrollmentRepo = repository.NewEnrollmentRepository()
	}
	return t.enrollmentRepo
}

func (t *pgTx) BundleGrants() shared.BundleGrantRepository {
	if t.bundleGrantRepo == nil {
		t.bundleGrantRepo = repository.NewBundleGrantRepository()
	}
	return t.bundleGrantRepo
}

func (t *pgTx) SessionSeats() shared.SessionSeatRepository {
	if t.sessionSeatRepo == nil {
		t.sessionSeatRepo = repository.NewSessionSeatRepository()
	}
	return t.sessionSeatRepo
}

func (t *pgTx) Coupons() shared.CouponRepository {
	if t.couponRepo == nil {
		t.couponRepo = repository.NewCouponRepository()
	}
	return t.couponRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

// commandReads serves the lookups the verification flow performs between
// writes, against whichever DBTX scope it was created with.
type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	purchaseStore   *readstore.PurchaseReadStore
	courseStore     *readstore.CourseReadStore
	couponStore     *readstore.CouponReadStore
	bundleStore     *readstore.BundleReadStore
	enrollmentStore *readstore.EnrollmentReadStore
	sessionStore    *readstore.SessionReadStore
	userStore       *readstore.UserReadStore
}

func (r *commandReads) purchases() *readstore.PurchaseReadStore {
	if r.purchaseStore == nil {
		r.purchaseStore = readstore.NewPurchaseReadStore()
	}
	return r.purchaseStore
}

func (r *commandReads) courses() *readstore.CourseReadStore {
	if r.courseStore == nil {
		r.courseStore = readstore.NewCourseReadStore()
	}
	return r.courseStore
}

func (r *commandReads) coupons() *readstore.CouponReadStore {
	if r.couponStore == nil {
		r.couponStore = readstore.NewCouponReadStore()
	}
	return r.couponStore
}

func (r *commandReads) bundles() *readstore.BundleReadStore {
	if r.bundleStore == nil {
		r.bundleStore = readstore.NewBundleReadStore()
	}
	return r.bundleStore
}

func (r *commandReads) enrollments() *readstore.EnrollmentReadStore {
	if r.enrollmentStore == nil {
		r.enrollmentStore = readstore.NewEnrollmentReadStore()
	}
	return r.enrollmentStore
}

func (r *commandReads) sessions() *readstore.SessionReadStore {
	if r.sessionStore == nil {
		r.sessionStore = readstore.NewSessionReadStore()
	}
	return r.sessionStore
}

func (r *commandReads) users() *readstore.UserReadStore {
	if r.userStore == nil {
		r.userStore = readstore.NewUserReadStore()
	}
	return r.userStore
}

func (r *commandReads) PurchaseByGatewayOrderID(ctx context.Context, orderID string) (*shared.PurchaseSnapshot, error) {
	return r.purchases().FindByGatewayOrderID(ctx, r.dbtx, orderID)
}

func (r *commandReads) CourseByID(ctx context.Context, id uuid.UUID) (*shared.CourseSnapshot, error) {
	return r.courses().FindByID(ctx, r.dbtx, id)
}

func (r *commandReads) CouponByCodeForCourse(ctx context.Context, code string, courseID uuid.UUID) (*shared.CouponSnapshot, error) {
	return r.coupons().FindByCodeForCourse(ctx, r.dbtx, code, courseID)
}

func (r *commandReads) BundleByID(ctx context.Context, id uuid.UUID) (*shared.BundleSnapshot, error) {
	return r.bundles().FindByID(ctx, r.dbtx, id)
}

func (r *commandReads) EnrollmentByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*shared.EnrollmentSnapshot, error) {
	return r.enrollments().FindByUserAndCourse(ctx, r.dbtx, userID, courseID)
}

func (r *commandReads) HasMockGrant(ctx context.Context, userID, mockTestID uuid.UUID, paidOnly bool) (bool, error) {
	return r.purchases().HasMockGrant(ctx, r.dbtx, userID, mockTestID, paidOnly)
}

func (r *commandReads) HasBundleGrant(ctx context.Context, userID, bundleID uuid.UUID) (bool, error) {
	return r.bundles().HasGrant(ctx, r.dbtx, userID, bundleID)
}

func (r *commandReads) HasSuccessSeat(ctx context.Context, userID, sessionID uuid.UUID) (bool, error) {
	return r.sessions().HasSuccessSeat(ctx, r.dbtx, userID, sessionID)
}

func (r *commandReads) ContactByUserID(ctx context.Context, userID uuid.UUID) (*shared.ContactSnapshot, error) {
	return r.users().FindContactByUserID(ctx, r.dbtx, userID)
}

func (r *commandReads) SessionByID(ctx context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	return r.sessions().FindByID(ctx, r.dbtx, id)
}

func (r *commandReads) HasRedemptionForPurchase(ctx context.Context, purchaseID uuid.UUID) (bool, error) {
	return r.coupons().HasRedemptionForPurchase(ctx, r.dbtx, purchaseID)
}
