package repository

import (
	"context"

	"edustore/internal/domain/enrollment"
	"edustore/internal/infra"
	"edustore/internal/infra/db"
)

type EnrollmentRepository struct{}

func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{}
}

const createEnrollmentQuery = `
INSERT INTO enrollments (id, user_id, course_id, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, course_id) DO NOTHING
`

func (r *EnrollmentRepository) Create(ctx context.Context, dbtx db.DBTX, e *enrollment.Enrollment) error {
	tag, err := dbtx.Exec(ctx, createEnrollmentQuery,
		e.ID(),
		e.UserID(),
		e.CourseID(),
		e.ExpiresAt(),
		e.CreatedAt(),
	)
	if err != nil {
		return wrapWriteErr("failed to create enrollment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("enrollment already exists", nil, infra.KindDuplicateKey)
	}
	return nil
}
