package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/ledgerlinelabs/ledgerline/internal/client/domain"
	invoicedomain "github.com/ledgerlinelabs/ledgerline/internal/invoice/domain"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	settingsdomain "github.com/ledgerlinelabs/ledgerline/internal/settings/domain"
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Message }

func invalidRequestError() *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request body"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: code, Field: field, Message: message}
}

// AbortWithError translates domain errors into HTTP responses. Unknown
// errors surface as 500 without leaking their message.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case isNotFoundError(err):
		status = http.StatusNotFound
	case isValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, invoicedomain.ErrDuplicateNumber):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		}})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    "request_failed",
		"message": err.Error(),
	}})
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, clientdomain.ErrClientNotFound),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, recurringdomain.ErrScheduleNotFound),
		errors.Is(err, settingsdomain.ErrSettingNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrInvalidClient),
		errors.Is(err, invoicedomain.ErrInvalidItems),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceNumber),
		errors.Is(err, invoicedomain.ErrClientEmailMissing),
		errors.Is(err, recurringdomain.ErrInvalidFrequency),
		errors.Is(err, recurringdomain.ErrInvalidInterval),
		errors.Is(err, recurringdomain.ErrInvalidClient),
		errors.Is(err, recurringdomain.ErrInvalidItems),
		errors.Is(err, recurringdomain.ErrInvalidStartDate),
		errors.Is(err, settingsdomain.ErrInvalidKey):
		return true
	default:
		return false
	}
}
