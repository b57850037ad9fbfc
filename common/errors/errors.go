package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a wrapped copy against its predeclared base.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of base carrying err as its cause. The predeclared
// vars below stay untouched so they remain safe to compare against.
func Wrap(base *Error, err error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Err:     err,
	}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Checkout and payment error types
var (
	ErrCartNotFound        = New(http.StatusNotFound, "Cart not found", nil)
	ErrCartEmpty           = New(http.StatusBadRequest, "Cart is empty", nil)
	ErrInsufficientStock   = New(http.StatusConflict, "Insufficient stock", nil)
	ErrOrderNotFound       = New(http.StatusNotFound, "Order not found", nil)
	ErrPaymentFailed       = New(http.StatusBadRequest, "Payment failed", nil)
	ErrProviderUnavailable = New(http.StatusServiceUnavailable, "Payment provider unavailable", nil)
	ErrInvalidSignature    = New(http.StatusBadRequest, "Invalid payment signature", nil)
)

// Respond writes err as a JSON response. Unclassified errors collapse to a
// generic 500 so internal details never leak to the caller.
func Respond(c *gin.Context, err error) {
	if appErr, ok := err.(*Error); ok {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternalServer.Message})
}
