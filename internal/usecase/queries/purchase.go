package queries

import (
	"context"

	"edustore/internal/domain/user"
	"edustore/internal/infra"
	"edustore/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPurchaseNotFound = errs.New("purchase not found")
	ErrPurchaseAccess   = errs.New("purchase access denied")
)

type PurchaseQueries interface {
	GetByOrderID(ctx context.Context, orderID string, requesterID uuid.UUID, role user.Role) (*PurchaseView, error)
}

type PurchaseReadStore interface {
	FindByOrderID(ctx context.Context, orderID string) (*PurchaseView, error)
}

type purchaseQueriesImpl struct {
	readStore PurchaseReadStore
}

func NewPurchaseQueries(readStore PurchaseReadStore) PurchaseQueries {
	return &purchaseQueriesImpl{
		readStore: readStore,
	}
}

// GetByOrderID returns a purchase to its owner; staff and admin can read any.
func (q *purchaseQueriesImpl) GetByOrderID(ctx context.Context, orderID string, requesterID uuid.UUID, role user.Role) (*PurchaseView, error) {
	view, err := q.readStore.FindByOrderID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}

	if view.UserID != requesterID && role == user.RoleStudent {
		return nil, ErrPurchaseAccess
	}

	return view, nil
}
