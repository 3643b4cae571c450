package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
)

func TestWithinTx_CommitsDecrementAndInsertTogether(t *testing.T) {
	db, mock := newMockDB(t)
	tr := NewTransactor(db)
	slotID, serviceID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(decrementSQL).
		WithArgs(slotID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tr.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Ledger().Decrement(ctx, slotID, 2); err != nil {
			return err
		}
		return tx.Bookings().Create(ctx, &model.Booking{
			GuestEmail:       "guest@ranch.ca",
			TimeSlotID:       slotID,
			ServiceID:        serviceID,
			ParticipantCount: 2,
			TotalPriceCents:  9000,
			Status:           model.BookingStatusConfirmed,
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tr := NewTransactor(db)
	slotID := uuid.New()
	insertErr := errors.New("pq: insert failed")

	mock.ExpectBegin()
	mock.ExpectQuery(decrementSQL).
		WithArgs(slotID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).WillReturnError(insertErr)
	mock.ExpectRollback()

	err := tr.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Ledger().Decrement(ctx, slotID, 1); err != nil {
			return err
		}
		return tx.Bookings().Create(ctx, &model.Booking{TimeSlotID: slotID, ParticipantCount: 1})
	})

	assert.ErrorIs(t, err, insertErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	tr := NewTransactor(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tr.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
