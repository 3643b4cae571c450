package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrSlotUnavailable, http.StatusBadRequest},
		{ErrServiceUnavailable, http.StatusBadRequest},
		{ErrCapacityExceeded, http.StatusBadRequest},
		{ErrAlreadyCancelled, http.StatusBadRequest},
		{ErrPastBooking, http.StatusBadRequest},
		{ErrInsufficientCapacity, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, StatusOf(tt.code))
		})
	}
}

func TestCodeOf_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create booking: %w", InsufficientCapacity(2))

	assert.Equal(t, ErrInsufficientCapacity, CodeOf(wrapped))
	assert.True(t, Is(wrapped, ErrInsufficientCapacity))
	assert.False(t, Is(wrapped, ErrNotFound))
}

func TestCodeOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, ErrInternal, CodeOf(stderrors.New("boom")))
	assert.False(t, Is(nil, ErrInternal))
}

func TestInsufficientCapacity_ReportsRemaining(t *testing.T) {
	err := InsufficientCapacity(3)
	assert.Equal(t, "only 3 spot(s) available", err.Error())
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", err.Message)
}
