package commands

import (
	"edustore/internal/domain/course"

	"github.com/google/uuid"
)

type InclusionOutcome string

const (
	OutcomeGranted        InclusionOutcome = "granted"
	OutcomeAlreadyExisted InclusionOutcome = "already_existed"
	OutcomeFailed         InclusionOutcome = "failed"
)

type InclusionResult struct {
	InclusionID uuid.UUID
	Kind        course.InclusionKind
	TargetID    uuid.UUID
	Outcome     InclusionOutcome
	Reason      string // set when Outcome is failed
}

// FanOutReport accumulates the per-inclusion outcomes of one fulfillment
// pass. Failures are an operator concern, not a purchase failure.
type FanOutReport struct {
	Results []InclusionResult
}

func (r *FanOutReport) add(res InclusionResult) {
	r.Results = append(r.Results, res)
}

func (r *FanOutReport) Granted() int {
	return r.count(OutcomeGranted)
}

func (r *FanOutReport) AlreadyExisted() int {
	return r.count(OutcomeAlreadyExisted)
}

func (r *FanOutReport) Failed() int {
	return r.count(OutcomeFailed)
}

func (r *FanOutReport) Failures() []InclusionResult {
	var out []InclusionResult
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			out = append(out, res)
		}
	}
	return out
}

func (r *FanOutReport) count(o InclusionOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
