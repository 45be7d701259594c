package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/ledger-service/internal/service"
	"github.com/eaglebank/ledger-service/internal/validation"
)

const internalErrorCode = "INTERNAL_ERROR"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// RespondWithServiceError renders a service error with the fixed status of its
// code. Anything else is logged and hidden behind a generic 500.
func RespondWithServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	se, ok := service.AsError(err)
	if !ok {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		RespondWithError(c, http.StatusInternalServerError, internalErrorCode, "Internal server error")
		return
	}

	slog.WarnContext(c.Request.Context(), "request rejected", "code", se.Code, "message", se.Message)
	c.AbortWithStatusJSON(se.Code.HTTPStatus(), ErrorResponse{
		Code:    string(se.Code),
		Message: se.Message,
		Details: se.Details,
	})
}

func RespondWithValidationError(c *gin.Context, fieldErrs []validation.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    string(service.InvalidParameters),
		Message: "Invalid request data",
		Details: fieldErrs,
	})
}

func RespondWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
