package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application failure
type ErrorCode string

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code onto a response status
func (e *AppError) HTTPStatus() int {
	return StatusOf(e.Code)
}

const (
	ErrInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrNotFound             ErrorCode = "NOT_FOUND"
	ErrSlotUnavailable      ErrorCode = "SLOT_UNAVAILABLE"
	ErrServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	ErrInsufficientCapacity ErrorCode = "INSUFFICIENT_CAPACITY"
	ErrCapacityExceeded     ErrorCode = "CAPACITY_EXCEEDED"
	ErrForbidden            ErrorCode = "FORBIDDEN"
	ErrAlreadyCancelled     ErrorCode = "ALREADY_CANCELLED"
	ErrPastBooking          ErrorCode = "PAST_BOOKING"
	ErrInternal             ErrorCode = "INTERNAL"
)

// StatusOf returns the HTTP status for a code. Unknown codes are 500.
func StatusOf(code ErrorCode) int {
	switch code {
	case ErrInvalidInput, ErrSlotUnavailable, ErrServiceUnavailable,
		ErrCapacityExceeded, ErrAlreadyCancelled, ErrPastBooking:
		return http.StatusBadRequest
	case ErrInsufficientCapacity:
		return http.StatusConflict
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// As extracts the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of err, or ErrInternal when err is not an AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// Error constructors
func InvalidInput(message string, err error) *AppError {
	return &AppError{Code: ErrInvalidInput, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func SlotUnavailable(message string) *AppError {
	return &AppError{Code: ErrSlotUnavailable, Message: message}
}

func ServiceUnavailable(message string) *AppError {
	return &AppError{Code: ErrServiceUnavailable, Message: message}
}

func InsufficientCapacity(remaining int) *AppError {
	return &AppError{
		Code:    ErrInsufficientCapacity,
		Message: fmt.Sprintf("only %d spot(s) available", remaining),
	}
}

func CapacityExceeded(max int) *AppError {
	return &AppError{
		Code:    ErrCapacityExceeded,
		Message: fmt.Sprintf("maximum %d participants for this service", max),
	}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: ErrForbidden, Message: message}
}

func AlreadyCancelled() *AppError {
	return &AppError{Code: ErrAlreadyCancelled, Message: "booking is already cancelled"}
}

func PastBooking() *AppError {
	return &AppError{Code: ErrPastBooking, Message: "cannot cancel a booking whose time slot has already started"}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}
