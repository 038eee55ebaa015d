package readstore

import (
	"context"

	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

type BundleReadStore struct{}

func NewBundleReadStore() *BundleReadStore {
	return &BundleReadStore{}
}

const findBundleByIDQuery = `
SELECT id, title
FROM mock_bundles
WHERE id = $1
`

const listBundleMembersQuery = `
SELECT mock_test_id
FROM mock_bundle_members
WHERE bundle_id = $1
ORDER BY mock_test_id
`

func (r *BundleReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.BundleSnapshot, error) {
	var snap shared.BundleSnapshot
	err := dbtx.QueryRow(ctx, findBundleByIDQuery, id).Scan(&snap.ID, &snap.Title)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("bundle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find bundle by ID", err)
	}

	rows, err := dbtx.Query(ctx, listBundleMembersQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bundle members", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID uuid.UUID
		if err := rows.Scan(&memberID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan bundle member", err)
		}
		snap.MemberMockIDs = append(snap.MemberMockIDs, memberID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bundle members", err)
	}

	return &snap, nil
}

const hasBundleGrantQuery = `
SELECT EXISTS (
    SELECT 1 FROM bundle_grants
    WHERE user_id = $1 AND bundle_id = $2
)
`

func (r *BundleReadStore) HasGrant(ctx context.Context, dbtx db.DBTX, userID, bundleID uuid.UUID) (bool, error) {
	var exists bool
	if err := dbtx.QueryRow(ctx, hasBundleGrantQuery, userID, bundleID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check bundle grant", err)
	}
	return exists, nil
}
