package response

import (
	"edustore/internal/usecase/commands"
	"edustore/internal/usecase/queries"

	"github.com/google/uuid"
)

type VerifyPurchaseResponse struct {
	PurchaseID   uuid.UUID         `json:"purchase_id"`
	EnrollmentID *uuid.UUID        `json:"enrollment_id,omitempty"`
	Replayed     bool              `json:"replayed"`
	Inclusions   []InclusionResult `json:"inclusions,omitempty"`
}

type InclusionResult struct {
	InclusionID uuid.UUID `json:"inclusion_id,omitempty"`
	Kind        string    `json:"kind"`
	TargetID    uuid.UUID `json:"target_id"`
	Outcome     string    `json:"outcome"`
	Reason      string    `json:"reason,omitempty"`
}

func FromVerifyResult(r *commands.VerifyPurchaseResult) VerifyPurchaseResponse {
	resp := VerifyPurchaseResponse{
		PurchaseID:   r.PurchaseID,
		EnrollmentID: r.EnrollmentID,
		Replayed:     r.Replayed,
	}
	if r.Report != nil {
		for _, res := range r.Report.Results {
			resp.Inclusions = append(resp.Inclusions, InclusionResult{
				InclusionID: res.InclusionID,
				Kind:        res.Kind.String(),
				TargetID:    res.TargetID,
				Outcome:     string(res.Outcome),
				Reason:      res.Reason,
			})
		}
	}
	return resp
}

type PurchaseResponse struct {
	queries.PurchaseView
}

func FromPurchaseView(v *queries.PurchaseView) PurchaseResponse {
	return PurchaseResponse{PurchaseView: *v}
}
