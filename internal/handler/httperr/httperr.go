// Package httperr defines the JSON error envelope shared by resource
// handlers and the error-rendering middleware.
package httperr

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int       `json:"-"`
	Error  errorBody `json:"error"`
	Detail any       `json:"detail,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

// AbortWithError writes the public envelope and records the underlying err
// on the gin context so the error middleware can log it.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("httperr: AbortWithError called with nil error")
	}

	resp := Response{
		Status: status,
		Error:  errorBody{Message: msg},
		Detail: detail,
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
