// Package response implements the uniform {success, data, message} envelope
// every endpoint answers with.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tipfinity/pkg/errors"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Success: false, Message: msg})
}

// FromError maps a typed error to its HTTP status and writes the envelope.
func FromError(c *gin.Context, err error) {
	c.JSON(statusOf(err), Envelope{Success: false, Message: err.Error()})
}

func statusOf(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeAlreadyExists, apperrors.CodeVerificationFailed:
		return http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.CodeFailedPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
