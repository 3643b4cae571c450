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

	"github.com/jwalitptl/booking-api/internal/repository"
)

var (
	decrementSQL = regexp.QuoteMeta("UPDATE time_slots SET available_spots = available_spots - $2")
	incrementSQL = regexp.QuoteMeta("UPDATE time_slots SET available_spots = available_spots + $2")
	spotsSQL     = regexp.QuoteMeta("SELECT available_spots, is_bookable FROM time_slots WHERE id = $1")
)

func TestLedgerDecrement_Success(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)
	slotID := uuid.New()

	mock.ExpectQuery(decrementSQL).
		WithArgs(slotID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}).AddRow(3))

	remaining, err := ledger.Decrement(context.Background(), slotID, 2)

	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerDecrement_InsufficientReportsRemaining(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)
	slotID := uuid.New()

	mock.ExpectQuery(decrementSQL).
		WithArgs(slotID, 5).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}))
	mock.ExpectQuery(spotsSQL).
		WithArgs(slotID).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots", "is_bookable"}).AddRow(1, true))

	remaining, err := ledger.Decrement(context.Background(), slotID, 5)

	assert.ErrorIs(t, err, repository.ErrInsufficientSpots)
	assert.Equal(t, 1, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerDecrement_ClosedSlot(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)
	slotID := uuid.New()

	mock.ExpectQuery(decrementSQL).
		WithArgs(slotID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}))
	mock.ExpectQuery(spotsSQL).
		WithArgs(slotID).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots", "is_bookable"}).AddRow(4, false))

	_, err := ledger.Decrement(context.Background(), slotID, 1)

	assert.ErrorIs(t, err, repository.ErrSlotNotBookable)
}

func TestLedgerDecrement_MissingSlot(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)
	slotID := uuid.New()

	mock.ExpectQuery(decrementSQL).
		WithArgs(slotID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}))
	mock.ExpectQuery(spotsSQL).
		WithArgs(slotID).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots", "is_bookable"}))

	_, err := ledger.Decrement(context.Background(), slotID, 1)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLedgerDecrement_RejectsNonPositiveAmount(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)

	_, err := ledger.Decrement(context.Background(), uuid.New(), 0)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerDecrement_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)
	slotID := uuid.New()
	dbErr := errors.New("pq: deadlock detected")

	mock.ExpectQuery(decrementSQL).WithArgs(slotID, 1).WillReturnError(dbErr)

	_, err := ledger.Decrement(context.Background(), slotID, 1)

	assert.ErrorIs(t, err, dbErr)
}

func TestLedgerIncrement_Success(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)
	slotID := uuid.New()

	mock.ExpectQuery(incrementSQL).
		WithArgs(slotID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}).AddRow(5))

	remaining, err := ledger.Increment(context.Background(), slotID, 2)

	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestLedgerIncrement_BoundedByTotalCapacity(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewCapacityLedger(db)
	slotID := uuid.New()

	mock.ExpectQuery(incrementSQL).
		WithArgs(slotID, 3).
		WillReturnRows(sqlmock.NewRows([]string{"available_spots"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM time_slots WHERE id = $1)")).
		WithArgs(slotID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := ledger.Increment(context.Background(), slotID, 3)

	assert.ErrorIs(t, err, repository.ErrCapacityOverflow)
	assert.NoError(t, mock.ExpectationsWereMet())
}
