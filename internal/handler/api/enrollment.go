package api

import (
	"net/http"

	resdto "edustore/internal/handler/dto/response"
	"edustore/internal/handler/middleware"
	"edustore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	enrollmentQueries queries.EnrollmentQueries
}

func NewEnrollmentHandler(enrollmentQueries queries.EnrollmentQueries) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentQueries: enrollmentQueries,
	}
}

func (h *EnrollmentHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.enrollmentQueries.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromEnrollmentViews(views))
}
