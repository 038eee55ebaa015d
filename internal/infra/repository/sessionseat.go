package repository

import (
	"context"

	"edustore/internal/domain/session"
	"edustore/internal/infra"
	"edustore/internal/infra/db"
)

type SessionSeatRepository struct{}

func NewSessionSeatRepository() *SessionSeatRepository {
	return &SessionSeatRepository{}
}

const createSeatQuery = `
INSERT INTO session_seats (
    id, user_id, session_id, name, email, phone,
    status, amount_paid_cents, enrolled_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, session_id) WHERE status = 'SUCCESS' DO NOTHING
`

func (r *SessionSeatRepository) Create(ctx context.Context, dbtx db.DBTX, seat *session.Seat) error {
	tag, err := dbtx.Exec(ctx, createSeatQuery,
		seat.ID(),
		seat.UserID(),
		seat.SessionID(),
		seat.Name(),
		seat.Email(),
		seat.Phone(),
		string(seat.Status()),
		seat.AmountPaidCents(),
		seat.EnrolledAt(),
	)
	if err != nil {
		return wrapWriteErr("failed to create session seat", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session seat already exists", nil, infra.KindDuplicateKey)
	}
	return nil
}
