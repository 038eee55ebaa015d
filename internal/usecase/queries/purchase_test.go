//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"edustore/internal/domain/user"
	"edustore/internal/infra"
	"edustore/internal/pkg/clock"
	"edustore/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPurchaseReadStore struct {
	views map[string]*queries.PurchaseView
}

func (s *stubPurchaseReadStore) FindByOrderID(_ context.Context, orderID string) (*queries.PurchaseView, error) {
	view, ok := s.views[orderID]
	if !ok {
		return nil, infra.WrapRepoErr("purchase not found", nil, infra.KindNotFound)
	}
	cp := *view
	return &cp, nil
}

func TestPurchaseQueriesGetByOrderID(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	view := &queries.PurchaseView{
		ID:                 uuid.New(),
		UserID:             ownerID,
		GatewayOrderID:     "order_1",
		TargetKind:         "course",
		TargetTitle:        "Quant Aptitude Masterclass",
		Paid:               true,
		OriginalPriceCents: 500000,
		CreatedAt:          time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	q := queries.NewPurchaseQueries(&stubPurchaseReadStore{
		views: map[string]*queries.PurchaseView{"order_1": view},
	})

	t.Run("owner reads own purchase", func(t *testing.T) {
		got, err := q.GetByOrderID(context.Background(), "order_1", ownerID, user.RoleStudent)
		require.NoError(t, err)
		if diff := cmp.Diff(view, got); diff != "" {
			t.Errorf("view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("staff reads any purchase", func(t *testing.T) {
		got, err := q.GetByOrderID(context.Background(), "order_1", otherID, user.RoleStaff)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("non-owner student is denied", func(t *testing.T) {
		_, err := q.GetByOrderID(context.Background(), "order_1", otherID, user.RoleStudent)
		assert.ErrorIs(t, err, queries.ErrPurchaseAccess)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := q.GetByOrderID(context.Background(), "order_missing", ownerID, user.RoleAdmin)
		assert.ErrorIs(t, err, queries.ErrPurchaseNotFound)
	})
}

type stubEnrollmentReadStore struct {
	views []queries.EnrollmentView
}

func (s *stubEnrollmentReadStore) ListByUser(_ context.Context, _ uuid.UUID) ([]queries.EnrollmentView, error) {
	out := make([]queries.EnrollmentView, len(s.views))
	copy(out, s.views)
	return out, nil
}

func TestEnrollmentQueriesListForUser(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &stubEnrollmentReadStore{views: []queries.EnrollmentView{
		{ID: uuid.New(), CourseTitle: "Live course", ExpiresAt: now.Add(24 * time.Hour)},
		{ID: uuid.New(), CourseTitle: "Lapsed course", ExpiresAt: now.Add(-24 * time.Hour)},
	}}
	q := queries.NewEnrollmentQueries(store, clock.NewMockClock(now))

	views, err := q.ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.True(t, views[0].Active)
	assert.False(t, views[1].Active)
}
