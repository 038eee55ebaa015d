package enrollment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidDuration = errors.New("enrollment duration must be positive")

// DaysPerMonth is the fixed approximation used for access expiry. Carried
// over from the checkout behavior; calendar-accurate month arithmetic is
// deliberately not used.
const DaysPerMonth = 30

type Enrollment struct {
	id        uuid.UUID
	userID    uuid.UUID
	courseID  uuid.UUID
	expiresAt time.Time
	createdAt time.Time
}

// NewEnrollment grants course access for durationMonths * 30 days from now.
func NewEnrollment(userID, courseID uuid.UUID, durationMonths int32, now time.Time) (*Enrollment, error) {
	if durationMonths <= 0 {
		return nil, ErrInvalidDuration
	}

	return &Enrollment{
		id:        uuid.New(),
		userID:    userID,
		courseID:  courseID,
		expiresAt: now.Add(time.Duration(durationMonths) * DaysPerMonth * 24 * time.Hour),
		createdAt: now,
	}, nil
}

func Reconstruct(id, userID, courseID uuid.UUID, expiresAt, createdAt time.Time) *Enrollment {
	return &Enrollment{
		id:        id,
		userID:    userID,
		courseID:  courseID,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

func (e *Enrollment) IsActiveAt(t time.Time) bool {
	return t.Before(e.expiresAt)
}

func (e *Enrollment) ID() uuid.UUID        { return e.id }
func (e *Enrollment) UserID() uuid.UUID    { return e.userID }
func (e *Enrollment) CourseID() uuid.UUID  { return e.courseID }
func (e *Enrollment) ExpiresAt() time.Time { return e.expiresAt }
func (e *Enrollment) CreatedAt() time.Time { return e.createdAt }
