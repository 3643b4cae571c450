package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientSpots is returned by Decrement when the slot cannot absorb the amount
	ErrInsufficientSpots = errors.New("insufficient spots")
	// ErrSlotNotBookable is returned by Decrement when the slot has been closed for booking
	ErrSlotNotBookable = errors.New("slot not bookable")
	// ErrCapacityOverflow is returned by Increment when the result would pass total capacity
	ErrCapacityOverflow = errors.New("available spots would exceed total capacity")
)

// All repository interfaces in one file
type (
	ServiceRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		ListActive(ctx context.Context) ([]*model.Service, error)
	}

	TimeSlotRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error)
		ListAvailable(ctx context.Context, filter model.SlotFilter) ([]*model.TimeSlot, error)
		// ListCapacityDrift returns slots whose available_spots disagrees with
		// total_capacity minus the participants of confirmed bookings.
		ListCapacityDrift(ctx context.Context) ([]*model.CapacityDrift, error)
	}

	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.BookingDetails, error)
		ListByEmail(ctx context.Context, email string) ([]*model.BookingDetails, error)
		// MarkCancelled flips a CONFIRMED booking to CANCELLED and reports
		// whether this call performed the transition.
		MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
	}

	// CapacityLedger owns available_spots. Both operations are single
	// conditional statements so they are safe under concurrent callers.
	CapacityLedger interface {
		// Decrement takes amount spots and returns what is left. On
		// ErrInsufficientSpots the returned count is the current remainder.
		Decrement(ctx context.Context, slotID uuid.UUID, amount int) (int, error)
		// Increment returns amount spots, bounded by total capacity.
		Increment(ctx context.Context, slotID uuid.UUID, amount int) (int, error)
	}

	// Tx exposes the repositories bound to one database transaction
	Tx interface {
		Bookings() BookingRepository
		Ledger() CapacityLedger
	}

	// Transactor runs fn in a transaction, committing when fn returns nil
	Transactor interface {
		WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	}
)
