package readstore

import (
	"context"

	"edustore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool-bound wrappers for the query side, where callers never manage a
// transaction scope.

type PooledUserReadStore struct {
	pool  *pgxpool.Pool
	store *UserReadStore
}

func NewPooledUserReadStore(pool *pgxpool.Pool) queries.UserReadStore {
	return &PooledUserReadStore{pool: pool, store: NewUserReadStore()}
}

func (s *PooledUserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	return s.store.FindByID(ctx, s.pool, id)
}

func (s *PooledUserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	return s.store.FindByEmail(ctx, s.pool, email)
}

type PooledEnrollmentReadStore struct {
	pool  *pgxpool.Pool
	store *EnrollmentReadStore
}

func NewPooledEnrollmentReadStore(pool *pgxpool.Pool) queries.EnrollmentReadStore {
	return &PooledEnrollmentReadStore{pool: pool, store: NewEnrollmentReadStore()}
}

func (s *PooledEnrollmentReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]queries.EnrollmentView, error) {
	return s.store.ListByUser(ctx, s.pool, userID)
}

type PooledPurchaseReadStore struct {
	pool  *pgxpool.Pool
	store *PurchaseReadStore
}

func NewPooledPurchaseReadStore(pool *pgxpool.Pool) queries.PurchaseReadStore {
	return &PooledPurchaseReadStore{pool: pool, store: NewPurchaseReadStore()}
}

func (s *PooledPurchaseReadStore) FindByOrderID(ctx context.Context, orderID string) (*queries.PurchaseView, error) {
	return s.store.FindViewByOrderID(ctx, s.pool, orderID)
}
