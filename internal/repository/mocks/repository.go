// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// ServiceRepository is a mock of repository.ServiceRepository
type ServiceRepository struct {
	mock.Mock
}

func NewServiceRepository(t testingT) *ServiceRepository {
	m := &ServiceRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ServiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	args := m.Called(ctx, id)
	svc, _ := args.Get(0).(*model.Service)
	return svc, args.Error(1)
}

func (m *ServiceRepository) ListActive(ctx context.Context) ([]*model.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]*model.Service)
	return services, args.Error(1)
}

// TimeSlotRepository is a mock of repository.TimeSlotRepository
type TimeSlotRepository struct {
	mock.Mock
}

func NewTimeSlotRepository(t testingT) *TimeSlotRepository {
	m := &TimeSlotRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TimeSlotRepository) Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	args := m.Called(ctx, id)
	slot, _ := args.Get(0).(*model.TimeSlot)
	return slot, args.Error(1)
}

func (m *TimeSlotRepository) ListAvailable(ctx context.Context, filter model.SlotFilter) ([]*model.TimeSlot, error) {
	args := m.Called(ctx, filter)
	slots, _ := args.Get(0).([]*model.TimeSlot)
	return slots, args.Error(1)
}

func (m *TimeSlotRepository) ListCapacityDrift(ctx context.Context) ([]*model.CapacityDrift, error) {
	args := m.Called(ctx)
	drift, _ := args.Get(0).([]*model.CapacityDrift)
	return drift, args.Error(1)
}

// BookingRepository is a mock of repository.BookingRepository
type BookingRepository struct {
	mock.Mock
}

func NewBookingRepository(t testingT) *BookingRepository {
	m := &BookingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *BookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.BookingDetails, error) {
	args := m.Called(ctx, id)
	details, _ := args.Get(0).(*model.BookingDetails)
	return details, args.Error(1)
}

func (m *BookingRepository) ListByEmail(ctx context.Context, email string) ([]*model.BookingDetails, error) {
	args := m.Called(ctx, email)
	bookings, _ := args.Get(0).([]*model.BookingDetails)
	return bookings, args.Error(1)
}

func (m *BookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// CapacityLedger is a mock of repository.CapacityLedger
type CapacityLedger struct {
	mock.Mock
}

func NewCapacityLedger(t testingT) *CapacityLedger {
	m := &CapacityLedger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CapacityLedger) Decrement(ctx context.Context, slotID uuid.UUID, amount int) (int, error) {
	args := m.Called(ctx, slotID, amount)
	return args.Int(0), args.Error(1)
}

func (m *CapacityLedger) Increment(ctx context.Context, slotID uuid.UUID, amount int) (int, error) {
	args := m.Called(ctx, slotID, amount)
	return args.Int(0), args.Error(1)
}

// Transactor runs fn directly against the given Tx with no real transaction.
// Err, when set, is returned instead of calling fn.
type Transactor struct {
	Tx    repository.Tx
	Err   error
	Calls int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	t.Calls++
	if t.Err != nil {
		return t.Err
	}
	return fn(ctx, t.Tx)
}

// Tx bundles mock repositories as a repository.Tx
type Tx struct {
	BookingRepo repository.BookingRepository
	LedgerRepo  repository.CapacityLedger
}

func (t *Tx) Bookings() repository.BookingRepository { return t.BookingRepo }
func (t *Tx) Ledger() repository.CapacityLedger      { return t.LedgerRepo }
