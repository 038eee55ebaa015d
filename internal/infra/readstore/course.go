package readstore

import (
	"context"

	"edustore/internal/domain/course"
	"edustore/internal/infra"
	"edustore/internal/infra/db"
	"edustore/internal/pkg/pgconv"
	"edustore/internal/usecase/shared"

	"github.com/google/uuid"
)

type CourseReadStore struct{}

func NewCourseReadStore() *CourseReadStore {
	return &CourseReadStore{}
}

const findCourseByIDQuery = `
SELECT id, title, duration_months, list_price_cents, sale_price_cents
FROM courses
WHERE id = $1
`

const listInclusionsQuery = `
SELECT id, kind, target_id
FROM course_inclusions
WHERE course_id = $1
ORDER BY created_at
`

// FindByID loads the course together with its declared inclusions. A row
// carrying an unknown inclusion kind is rejected here rather than handed to
// the fan-out as untyped data.
func (r *CourseReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.CourseSnapshot, error) {
	var snap shared.CourseSnapshot
	err := dbtx.QueryRow(ctx, findCourseByIDQuery, id).Scan(
		&snap.ID, &snap.Title, &snap.DurationMonths,
		&snap.ListPriceCents, &snap.SalePriceCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("course not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find course by ID", err)
	}

	rows, err := dbtx.Query(ctx, listInclusionsQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list course inclusions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			incID    uuid.UUID
			kind     string
			targetID uuid.UUID
		)
		if err := rows.Scan(&incID, &kind, &targetID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan course inclusion", err)
		}
		inc, err := course.NewInclusion(incID, kind, targetID)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid course inclusion row", err)
		}
		snap.Inclusions = append(snap.Inclusions, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read course inclusions", err)
	}

	return &snap, nil
}
