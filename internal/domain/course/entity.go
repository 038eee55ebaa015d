package course

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("course duration must be positive")
	ErrNegativePrice   = errors.New("course price cannot be negative")
)

type Course struct {
	id             uuid.UUID
	title          string
	durationMonths int32
	listPriceCents int64
	salePriceCents int64
	inclusions     []Inclusion
}

func NewCourse(
	id uuid.UUID,
	title string,
	durationMonths int32,
	listPriceCents, salePriceCents int64,
	inclusions []Inclusion,
) (*Course, error) {
	if durationMonths <= 0 {
		return nil, ErrInvalidDuration
	}
	if listPriceCents < 0 || salePriceCents < 0 {
		return nil, ErrNegativePrice
	}

	return &Course{
		id:             id,
		title:          title,
		durationMonths: durationMonths,
		listPriceCents: listPriceCents,
		salePriceCents: salePriceCents,
		inclusions:     inclusions,
	}, nil
}

// BasePriceCents is the price coupons discount against. The catalog has been
// observed with list and sale price stored in either order, so take the higher.
func (c *Course) BasePriceCents() int64 {
	if c.salePriceCents > c.listPriceCents {
		return c.salePriceCents
	}
	return c.listPriceCents
}

func (c *Course) ID() uuid.UUID           { return c.id }
func (c *Course) Title() string           { return c.title }
func (c *Course) DurationMonths() int32   { return c.durationMonths }
func (c *Course) ListPriceCents() int64   { return c.listPriceCents }
func (c *Course) SalePriceCents() int64   { return c.salePriceCents }
func (c *Course) Inclusions() []Inclusion { return c.inclusions }
