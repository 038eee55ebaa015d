package readstore

import (
	"context"

	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
	"edustore/internal/usecase/queries"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserReadStore struct{}

func NewUserReadStore() *UserReadStore {
	return &UserReadStore{}
}

const findUserByIDQuery = `
SELECT id, email, name, phone, role, is_active, last_login, created_at
FROM users
WHERE id = $1
`

func (r *UserReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var (
		view      queries.AuthorizedUserView
		phone     pgtype.Text
		lastLogin pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, findUserByIDQuery, id).Scan(
		&view.ID, &view.Email, &view.Name, &phone, &view.Role,
		&view.IsActive, &lastLogin, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	view.Phone = pgconv.StringPtrFromPgtype(phone)
	view.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &view, nil
}

const findUserByEmailQuery = `
SELECT id, email, name, phone, role, is_active, last_login, created_at, password_hash
FROM users
WHERE email = $1
`

func (r *UserReadStore) FindByEmail(ctx context.Context, dbtx db.DBTX, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		view      queries.AuthorizedUserView
		phone     pgtype.Text
		lastLogin pgtype.Timestamptz
		hash      string
	)
	err := dbtx.QueryRow(ctx, findUserByEmailQuery, email).Scan(
		&view.ID, &view.Email, &view.Name, &phone, &view.Role,
		&view.IsActive, &lastLogin, &view.CreatedAt, &hash,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	view.Phone = pgconv.StringPtrFromPgtype(phone)
	view.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &view, hash, nil
}

const findContactByUserIDQuery = `
SELECT id, name, email, phone
FROM users
WHERE id = $1
`

// FindContactByUserID returns the fields denormalized onto session seats and
// used to address purchase notifications.
func (r *UserReadStore) FindContactByUserID(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (*shared.ContactSnapshot, error) {
	var (
		snap  shared.ContactSnapshot
		phone pgtype.Text
	)
	err := dbtx.QueryRow(ctx, findContactByUserIDQuery, userID).Scan(
		&snap.ID, &snap.Name, &snap.Email, &phone,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("buyer contact not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find buyer contact", err)
	}

	snap.Phone = pgconv.StringPtrFromPgtype(phone)
	return &snap, nil
}
