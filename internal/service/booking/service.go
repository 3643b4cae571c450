package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/metrics"
	"github.com/jwalitptl/booking-api/pkg/validator"
)

// Invalidator drops cached availability after capacity changes
type Invalidator interface {
	Invalidate(ctx context.Context, serviceID uuid.UUID)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, uuid.UUID) {}

// Service creates and cancels bookings. Capacity checks done here are
// advisory; the ledger re-checks atomically inside the transaction.
type Service struct {
	services repository.ServiceRepository
	slots    repository.TimeSlotRepository
	bookings repository.BookingRepository
	tx       repository.Transactor
	validate *validator.Validator
	cache    Invalidator
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithCache(c Invalidator) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	services repository.ServiceRepository,
	slots repository.TimeSlotRepository,
	bookings repository.BookingRepository,
	tx repository.Transactor,
	opts ...Option,
) *Service {
	s := &Service{
		services: services,
		slots:    slots,
		bookings: bookings,
		tx:       tx,
		validate: validator.New(),
		cache:    noopInvalidator{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking reserves participantCount spots on a slot and records the
// booking in one transaction.
func (s *Service) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
	start := time.Now()
	conf, err := s.createBooking(ctx, req)
	if err != nil {
		s.reject("create", err)
		return nil, err
	}
	s.metrics.ObserveTransaction("create", start)
	s.metrics.BookingCreated(conf.Booking.ParticipantCount)
	s.cache.Invalidate(ctx, conf.Service.ID)

	s.log.Info().
		Str("booking_id", conf.Booking.ID.String()).
		Str("slot_id", conf.Slot.ID.String()).
		Str("service_id", conf.Service.ID.String()).
		Int("participants", conf.Booking.ParticipantCount).
		Msg("booking created")
	return conf, nil
}

func (s *Service) createBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("request body is required", nil)
	}
	if err := s.validate.Email(req.GuestEmail); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), nil)
	}
	slotID, err := s.validate.ID("timeSlotId", req.TimeSlotID)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), nil)
	}
	serviceID, err := s.validate.ID("serviceId", req.ServiceID)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), nil)
	}
	if req.ParticipantCount < 1 {
		return nil, apperrors.InvalidInput("participantCount must be at least 1", nil)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), nil)
	}

	slot, err := s.slots.Get(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.SlotUnavailable("time slot is not available")
		}
		return nil, apperrors.Internal(err)
	}
	if !slot.IsBookable || !slot.StartTime.After(s.now()) {
		return nil, apperrors.SlotUnavailable("time slot is not available")
	}
	if slot.AvailableSpots < req.ParticipantCount {
		return nil, apperrors.InsufficientCapacity(slot.AvailableSpots)
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ServiceUnavailable("service is not available")
		}
		return nil, apperrors.Internal(err)
	}
	if !svc.IsActive {
		return nil, apperrors.ServiceUnavailable("service is not available")
	}
	if req.ParticipantCount > svc.MaxParticipants {
		return nil, apperrors.CapacityExceeded(svc.MaxParticipants)
	}
	if slot.ServiceID != svc.ID {
		return nil, apperrors.InvalidInput("time slot does not belong to this service", nil)
	}

	booking := &model.Booking{
		Base:             model.Base{ID: uuid.New()},
		GuestEmail:       validator.NormalizeEmail(req.GuestEmail),
		GuestName:        optional(req.GuestName),
		GuestPhone:       optional(req.GuestPhone),
		TimeSlotID:       slot.ID,
		ServiceID:        svc.ID,
		ParticipantCount: req.ParticipantCount,
		TotalPriceCents:  svc.PriceCents * int64(req.ParticipantCount),
		SpecialRequests:  optional(req.SpecialRequests),
		Status:           model.BookingStatusConfirmed,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		remaining, err := tx.Ledger().Decrement(ctx, slot.ID, booking.ParticipantCount)
		if err != nil {
			s.metrics.Ledger("decrement", "rejected")
			return decrementError(err, remaining)
		}
		s.metrics.Ledger("decrement", "ok")
		if err := tx.Bookings().Create(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.SlotUnavailable("time slot is not available")
			}
			return err
		}
		return nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.Internal(fmt.Errorf("create booking: %w", err))
	}

	return &model.BookingConfirmation{
		Booking: booking,
		Service: svc.Summary(),
		Slot:    slot.Summary(),
	}, nil
}

func decrementError(err error, remaining int) error {
	switch {
	case errors.Is(err, repository.ErrInsufficientSpots):
		return apperrors.InsufficientCapacity(remaining)
	case errors.Is(err, repository.ErrSlotNotBookable), errors.Is(err, repository.ErrNotFound):
		return apperrors.SlotUnavailable("time slot is not available")
	default:
		return err
	}
}

// CancelBooking cancels a confirmed future booking owned by email and
// returns its spots to the slot in one transaction.
func (s *Service) CancelBooking(ctx context.Context, bookingID, email string) (*model.CancellationResult, error) {
	start := time.Now()
	res, participants, err := s.cancelBooking(ctx, bookingID, email)
	if err != nil {
		s.reject("cancel", err)
		return nil, err
	}
	s.metrics.ObserveTransaction("cancel", start)
	s.metrics.BookingCancelled(participants)

	s.log.Info().
		Str("booking_id", res.BookingID.String()).
		Int("participants", participants).
		Msg("booking cancelled")
	return res, nil
}

func (s *Service) cancelBooking(ctx context.Context, bookingID, email string) (*model.CancellationResult, int, error) {
	if err := s.validate.Email(email); err != nil {
		return nil, 0, apperrors.InvalidInput(err.Error(), nil)
	}
	// a malformed id names no booking
	id, err := s.validate.ID("bookingId", bookingID)
	if err != nil {
		return nil, 0, apperrors.NotFound("booking", nil)
	}

	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, apperrors.NotFound("booking", nil)
		}
		return nil, 0, apperrors.Internal(err)
	}
	if validator.NormalizeEmail(b.GuestEmail) != validator.NormalizeEmail(email) {
		return nil, 0, apperrors.Forbidden("email does not match this booking")
	}
	if b.Status == model.BookingStatusCancelled {
		return nil, 0, apperrors.AlreadyCancelled()
	}
	if !b.SlotStartTime.After(s.now()) {
		return nil, 0, apperrors.PastBooking()
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		changed, err := tx.Bookings().MarkCancelled(ctx, b.ID)
		if err != nil {
			return err
		}
		if !changed {
			return apperrors.AlreadyCancelled()
		}
		if _, err := tx.Ledger().Increment(ctx, b.TimeSlotID, b.ParticipantCount); err != nil {
			s.metrics.Ledger("increment", "rejected")
			if errors.Is(err, repository.ErrCapacityOverflow) {
				s.log.Error().
					Str("booking_id", b.ID.String()).
					Str("slot_id", b.TimeSlotID.String()).
					Msg("cancellation would push slot past total capacity")
			}
			return err
		}
		s.metrics.Ledger("increment", "ok")
		return nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, 0, err
		}
		return nil, 0, apperrors.Internal(fmt.Errorf("cancel booking: %w", err))
	}

	s.cache.Invalidate(ctx, b.ServiceID)

	return &model.CancellationResult{
		BookingID:   b.ID,
		Status:      model.BookingStatusCancelled,
		RefundCents: b.TotalPriceCents,
		ServiceName: b.ServiceName,
		SlotStart:   b.SlotStartTime,
	}, b.ParticipantCount, nil
}

// ListByEmail returns a guest's bookings, newest first
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*model.BookingDetails, error) {
	if err := s.validate.Email(email); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), nil)
	}
	bookings, err := s.bookings.ListByEmail(ctx, validator.NormalizeEmail(email))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return bookings, nil
}

func (s *Service) reject(operation string, err error) {
	code := apperrors.CodeOf(err)
	s.metrics.Rejected(operation, string(code))
	if code == apperrors.ErrInternal {
		s.log.Error().Err(err).Str("operation", operation).Msg("booking operation failed")
		return
	}
	s.log.Debug().Err(err).Str("operation", operation).Msg("booking request rejected")
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
