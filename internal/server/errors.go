package server

import (
	"errors"
	"net/http"
	"strings"

	historydomain "github.com/Syaif05/superapp-admin-web/internal/history/domain"
	linkdomain "github.com/Syaif05/superapp-admin-web/internal/link/domain"
	orderdomain "github.com/Syaif05/superapp-admin-web/internal/order/domain"
	productdomain "github.com/Syaif05/superapp-admin-web/internal/product/domain"
	stockdomain "github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal_error")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, orderdomain.ErrProductNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "product_not_found",
			Message: "product not found",
		}
	case errors.Is(err, orderdomain.ErrOutOfStock), errors.Is(err, stockdomain.ErrOutOfStock):
		return http.StatusNotFound, errorPayload{
			Type:    "out_of_stock",
			Message: "no stock available for this product",
		}
	case errors.Is(err, orderdomain.ErrStockUnavailable), errors.Is(err, stockdomain.ErrStockUnavailable):
		return http.StatusNotFound, errorPayload{
			Type:    "stock_unavailable",
			Message: "the selected stock row is not available",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, productdomain.ErrCodeExists),
		errors.Is(err, linkdomain.ErrCategoryNotEmpty),
		errors.Is(err, stockdomain.ErrStockSold):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orderdomain.ErrInvalidPayload):
		return true
	case errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidCode),
		errors.Is(err, productdomain.ErrInvalidType),
		errors.Is(err, productdomain.ErrInvalidConfig),
		errors.Is(err, productdomain.ErrInvalidID):
		return true
	case errors.Is(err, stockdomain.ErrInvalidID),
		errors.Is(err, stockdomain.ErrInvalidProductID),
		errors.Is(err, stockdomain.ErrInvalidData):
		return true
	case errors.Is(err, linkdomain.ErrInvalidName),
		errors.Is(err, linkdomain.ErrInvalidURL),
		errors.Is(err, linkdomain.ErrInvalidID),
		errors.Is(err, linkdomain.ErrInvalidCategoryID):
		return true
	case errors.Is(err, historydomain.ErrInvalidEntry),
		errors.Is(err, historydomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, stockdomain.ErrNotFound),
		errors.Is(err, linkdomain.ErrNotFound),
		errors.Is(err, historydomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) || errors.Is(err, orderdomain.ErrInvalidPayload) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

// classifyErrorForLog feeds the request logger a stable type and code
// without leaking internals into the access log.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
