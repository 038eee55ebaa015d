package course

import (
	"errors"

	"github.com/google/uuid"
)

var ErrUnknownInclusionKind = errors.New("unknown inclusion kind")

// InclusionKind is a closed set; rows carrying any other value are rejected at
// the read boundary instead of flowing into the fan-out as untyped data.
type InclusionKind string

const (
	InclusionMockTest   InclusionKind = "MOCK_TEST"
	InclusionMockBundle InclusionKind = "MOCK_BUNDLE"
	InclusionSession    InclusionKind = "SESSION"
)

func (k InclusionKind) String() string {
	return string(k)
}

func (k InclusionKind) IsValid() bool {
	switch k {
	case InclusionMockTest, InclusionMockBundle, InclusionSession:
		return true
	default:
		return false
	}
}

func NewInclusionKind(s string) (InclusionKind, error) {
	kind := InclusionKind(s)
	if !kind.IsValid() {
		return "", ErrUnknownInclusionKind
	}
	return kind, nil
}

// Inclusion is a catalog-declared bundling: buying the course also grants the
// target product at no extra charge.
type Inclusion struct {
	id       uuid.UUID
	kind     InclusionKind
	targetID uuid.UUID
}

func NewInclusion(id uuid.UUID, kind string, targetID uuid.UUID) (Inclusion, error) {
	k, err := NewInclusionKind(kind)
	if err != nil {
		return Inclusion{}, err
	}
	return Inclusion{id: id, kind: k, targetID: targetID}, nil
}

func (i Inclusion) ID() uuid.UUID       { return i.id }
func (i Inclusion) Kind() InclusionKind { return i.kind }
func (i Inclusion) TargetID() uuid.UUID { return i.targetID }
