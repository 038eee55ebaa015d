package repository

import (
	"context"
	"time"

	"edustore/internal/infra"
	"edustore/internal/infra/db"

	"github.com/google/uuid"
)

type BundleGrantRepository struct{}

func NewBundleGrantRepository() *BundleGrantRepository {
	return &BundleGrantRepository{}
}

const createBundleGrantQuery = `
INSERT INTO bundle_grants (id, user_id, bundle_id, granted_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, bundle_id) DO NOTHING
`

func (r *BundleGrantRepository) Create(ctx context.Context, dbtx db.DBTX, userID, bundleID uuid.UUID, grantedAt time.Time) error {
	tag, err := dbtx.Exec(ctx, createBundleGrantQuery, uuid.New(), userID, bundleID, grantedAt)
	if err != nil {
		return wrapWriteErr("failed to create bundle grant", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("bundle grant already exists", nil, infra.KindDuplicateKey)
	}
	return nil
}
