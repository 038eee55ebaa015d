package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrMissingContact = errors.New("buyer contact details are required for a session seat")

type SeatStatus string

const (
	SeatPending SeatStatus = "PENDING"
	SeatSuccess SeatStatus = "SUCCESS"
)

// PhoneFallback is stored when the buyer has no phone on file; session hosts
// expect a non-empty contact column.
const PhoneFallback = "N/A"

// Seat is a guidance-session enrollment with the buyer's contact details
// denormalized at grant time.
type Seat struct {
	id              uuid.UUID
	userID          uuid.UUID
	sessionID       uuid.UUID
	name            string
	email           string
	phone           string
	status          SeatStatus
	amountPaidCents int64
	enrolledAt      time.Time
}

// NewIncludedSeat builds the zero-amount SUCCESS seat granted by a course
// inclusion. Name and email must be on file; phone falls back to a sentinel.
func NewIncludedSeat(userID, sessionID uuid.UUID, name, email string, phone *string, now time.Time) (*Seat, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrMissingContact
	}

	p := PhoneFallback
	if phone != nil && strings.TrimSpace(*phone) != "" {
		p = strings.TrimSpace(*phone)
	}

	return &Seat{
		id:              uuid.New(),
		userID:          userID,
		sessionID:       sessionID,
		name:            name,
		email:           email,
		phone:           p,
		status:          SeatSuccess,
		amountPaidCents: 0,
		enrolledAt:      now,
	}, nil
}

func (s *Seat) ID() uuid.UUID          { return s.id }
func (s *Seat) UserID() uuid.UUID      { return s.userID }
func (s *Seat) SessionID() uuid.UUID   { return s.sessionID }
func (s *Seat) Name() string           { return s.name }
func (s *Seat) Email() string          { return s.email }
func (s *Seat) Phone() string          { return s.phone }
func (s *Seat) Status() SeatStatus     { return s.status }
func (s *Seat) AmountPaidCents() int64 { return s.amountPaidCents }
func (s *Seat) EnrolledAt() time.Time  { return s.enrolledAt }
