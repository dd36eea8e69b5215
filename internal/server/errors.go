package server

import (
	"errors"
	"net/http"

	"github.com/baovietz98/smart-rental-capstone-sub000/internal/billingmonth"
	contractdomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/contract/domain"
	invoicedomain "github.com/baovietz98/smart-rental-capstone-sub000/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

// APIError carries the HTTP status for a known failure.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrNotFound        = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrTooManyRequests = &APIError{Status: http.StatusTooManyRequests, Code: "too_many_requests", Message: "too many requests"}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "request body is invalid"}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// statusOf maps domain sentinel errors onto HTTP statuses. Unknown errors are
// internal.
func statusOf(err error) int {
	switch {
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, contractdomain.ErrContractNotFound):
		return http.StatusNotFound
	case errors.Is(err, invoicedomain.ErrInvoiceExists),
		errors.Is(err, invoicedomain.ErrInvoiceNotDraft),
		errors.Is(err, invoicedomain.ErrInvoiceNotPublished),
		errors.Is(err, invoicedomain.ErrInvoiceNotPayable),
		errors.Is(err, invoicedomain.ErrInvoiceNotCancellable),
		errors.Is(err, invoicedomain.ErrInvoiceNotRemovable),
		errors.Is(err, invoicedomain.ErrConflictingUpdate):
		return http.StatusConflict
	case errors.Is(err, invoicedomain.ErrReadingsNotClosed):
		return http.StatusPreconditionFailed
	case errors.Is(err, invoicedomain.ErrInvalidLineItem),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrInvalidStartDay),
		errors.Is(err, contractdomain.ErrContractInactive),
		errors.Is(err, billingmonth.ErrInvalidMonth):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := statusOf(err)
	body := gin.H{"error": gin.H{"code": err.Error()}}
	if status == http.StatusInternalServerError {
		body = gin.H{"error": gin.H{"code": "internal_error"}}
	}
	c.AbortWithStatusJSON(status, body)
}
