package queries

import (
	"context"

	"edustore/internal/pkg/clock"

	"github.com/google/uuid"
)

type EnrollmentQueries interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]EnrollmentView, error)
}

type EnrollmentReadStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]EnrollmentView, error)
}

type enrollmentQueriesImpl struct {
	readStore EnrollmentReadStore
	clock     clock.Clock
}

func NewEnrollmentQueries(readStore EnrollmentReadStore, clk clock.Clock) EnrollmentQueries {
	return &enrollmentQueriesImpl{
		readStore: readStore,
		clock:     clk,
	}
}

func (q *enrollmentQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]EnrollmentView, error) {
	views, err := q.readStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	for i := range views {
		views[i].Active = now.Before(views[i].ExpiresAt)
	}
	return views, nil
}
