package readstore

import (
	"context"

	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
	"edustore/internal/usecase/queries"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

type EnrollmentReadStore struct{}

func NewEnrollmentReadStore() *EnrollmentReadStore {
	return &EnrollmentReadStore{}
}

const findEnrollmentQuery = `
SELECT id, user_id, course_id, expires_at, created_at
FROM enrollments
WHERE user_id = $1 AND course_id = $2
`

func (r *EnrollmentReadStore) FindByUserAndCourse(ctx context.Context, dbtx db.DBTX, userID, courseID uuid.UUID) (*shared.EnrollmentSnapshot, error) {
	var snap shared.EnrollmentSnapshot
	err := dbtx.QueryRow(ctx, findEnrollmentQuery, userID, courseID).Scan(
		&snap.ID, &snap.UserID, &snap.CourseID, &snap.ExpiresAt, &snap.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("enrollment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find enrollment", err)
	}
	return &snap, nil
}

const listEnrollmentsByUserQuery = `
SELECT e.id, e.course_id, c.title, e.expires_at, e.created_at
FROM enrollments e
JOIN courses c ON c.id = e.course_id
WHERE e.user_id = $1
ORDER BY e.created_at DESC
`

func (r *EnrollmentReadStore) ListByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) ([]queries.EnrollmentView, error) {
	rows, err := dbtx.Query(ctx, listEnrollmentsByUserQuery, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list enrollments", err)
	}
	defer rows.Close()

	var views []queries.EnrollmentView
	for rows.Next() {
		var v queries.EnrollmentView
		if err := rows.Scan(&v.ID, &v.CourseID, &v.CourseTitle, &v.ExpiresAt, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan enrollment", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read enrollments", err)
	}

	return views, nil
}
