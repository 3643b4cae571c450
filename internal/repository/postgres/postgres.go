package postgres

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/booking-api/internal/repository"
)

// Repositories take sqlx.ExtContext so the same code runs on the pool
// and inside a transaction.

type serviceRepository struct {
	db sqlx.ExtContext
}

type timeSlotRepository struct {
	db sqlx.ExtContext
}

type bookingRepository struct {
	db sqlx.ExtContext
}

type capacityLedger struct {
	db sqlx.ExtContext
}

func NewServiceRepository(db sqlx.ExtContext) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewTimeSlotRepository(db sqlx.ExtContext) repository.TimeSlotRepository {
	return &timeSlotRepository{db: db}
}

func NewBookingRepository(db sqlx.ExtContext) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func NewCapacityLedger(db sqlx.ExtContext) repository.CapacityLedger {
	return &capacityLedger{db: db}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

const foreignKeyViolation = "23503"

// missingReference maps a foreign key violation to ErrNotFound, which is
// what a referenced row deleted under a concurrent write looks like.
func missingReference(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return repository.ErrNotFound
	}
	return err
}
