package readstore

import (
	"context"

	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

type SessionReadStore struct{}

func NewSessionReadStore() *SessionReadStore {
	return &SessionReadStore{}
}

const findSessionByIDQuery = `
SELECT id, title, price_cents
FROM guidance_sessions
WHERE id = $1
`

func (r *SessionReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.SessionSnapshot, error) {
	var snap shared.SessionSnapshot
	err := dbtx.QueryRow(ctx, findSessionByIDQuery, id).Scan(&snap.ID, &snap.Title, &snap.PriceCents)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session by ID", err)
	}
	return &snap, nil
}

const hasSuccessSeatQuery = `
SELECT EXISTS (
    SELECT 1 FROM session_seats
    WHERE user_id = $1 AND session_id = $2 AND status = 'SUCCESS'
)
`

// HasSuccessSeat ignores PENDING rows; an abandoned paid-seat attempt must
// not block the included grant.
func (r *SessionReadStore) HasSuccessSeat(ctx context.Context, dbtx db.DBTX, userID, sessionID uuid.UUID) (bool, error) {
	var exists bool
	if err := dbtx.QueryRow(ctx, hasSuccessSeatQuery, userID, sessionID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check session seat", err)
	}
	return exists, nil
}
