package response

import "edustore/internal/usecase/queries"

type EnrollmentListResponse struct {
	Enrollments []queries.EnrollmentView `json:"enrollments"`
}

func FromEnrollmentViews(views []queries.EnrollmentView) EnrollmentListResponse {
	if views == nil {
		views = []queries.EnrollmentView{}
	}
	return EnrollmentListResponse{Enrollments: views}
}
