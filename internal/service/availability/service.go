package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

// Cache is the read-through store for availability projections. An empty
// key means the cache is unavailable for this read.
type Cache interface {
	ServiceKey(ctx context.Context, serviceID uuid.UUID, from time.Time, days int) string
	CalendarKey(ctx context.Context, year int, month time.Month) string
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
}

type nopCache struct{}

func (nopCache) ServiceKey(context.Context, uuid.UUID, time.Time, int) string { return "" }
func (nopCache) CalendarKey(context.Context, int, time.Month) string          { return "" }
func (nopCache) Get(context.Context, string, interface{}) bool                { return false }
func (nopCache) Set(context.Context, string, interface{})                     {}

// Service projects bookable capacity per day. Reads are not transactional
// with bookings.
type Service struct {
	services repository.ServiceRepository
	slots    repository.TimeSlotRepository
	cache    Cache
	loc      *time.Location
	maxDays  int
	log      zerolog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMaxDays bounds the day window of a service availability query
func WithMaxDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxDays = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(services repository.ServiceRepository, slots repository.TimeSlotRepository, opts ...Option) *Service {
	s := &Service{
		services: services,
		slots:    slots,
		cache:    nopCache{},
		loc:      time.UTC,
		maxDays:  31,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MaxDays() int {
	return s.maxDays
}

func (s *Service) midnight(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// GetServiceAvailability lists bookable slots of an active service over
// [startDate, startDate+days), grouped by local date. Days with no slot
// are left out. A nil startDate means today.
func (s *Service) GetServiceAvailability(ctx context.Context, serviceID uuid.UUID, startDate *time.Time, days int) (*model.ServiceAvailability, error) {
	if days < 1 || days > s.maxDays {
		return nil, apperrors.InvalidInput(fmt.Sprintf("days must be between 1 and %d", s.maxDays), nil)
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service", nil)
		}
		return nil, apperrors.Internal(err)
	}
	if !svc.IsActive {
		return nil, apperrors.NotFound("service", nil)
	}

	day := s.now()
	if startDate != nil {
		day = *startDate
	}
	from := s.midnight(day)

	key := s.cache.ServiceKey(ctx, serviceID, from, days)
	var cached model.ServiceAvailability
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	to := from.AddDate(0, 0, days)
	slots, err := s.slots.ListAvailable(ctx, model.SlotFilter{
		ServiceID: serviceID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	out := &model.ServiceAvailability{
		Service:    svc.Summary(),
		From:       from,
		To:         to,
		Days:       days,
		Dates:      []model.DayAvailability{},
		TotalSlots: len(slots),
	}

	// slots arrive ordered by start time, so equal dates are adjacent
	for _, slot := range slots {
		date := s.midnight(slot.StartTime)
		n := len(out.Dates)
		if n == 0 || !out.Dates[n-1].Date.Equal(date) {
			out.Dates = append(out.Dates, model.DayAvailability{Date: date})
			n++
		}
		out.Dates[n-1].Slots = append(out.Dates[n-1].Slots, model.SlotAvailability{
			ID:              slot.ID,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			DurationMinutes: svc.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			IsAvailable:     slot.AvailableSpots > 0,
		})
	}

	s.cache.Set(ctx, key, out)
	return out, nil
}

// GetMonthlyCalendar counts bookable slots per day and per active service
// for a whole month. Every day of the month is present.
func (s *Service) GetMonthlyCalendar(ctx context.Context, year, month int) (*model.MonthlyCalendar, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.InvalidInput("month must be between 1 and 12", nil)
	}
	if year < 1 || year > 9999 {
		return nil, apperrors.InvalidInput("year is out of range", nil)
	}
	m := time.Month(month)

	key := s.cache.CalendarKey(ctx, year, m)
	var cached model.MonthlyCalendar
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	first := time.Date(year, m, 1, 0, 0, 0, 0, s.loc)
	next := first.AddDate(0, 1, 0)

	slots, err := s.slots.ListAvailable(ctx, model.SlotFilter{From: first, To: next})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// counts[serviceID][day of month]
	counts := make(map[uuid.UUID]map[int]int, len(services))
	for _, slot := range slots {
		day := slot.StartTime.In(s.loc).Day()
		if counts[slot.ServiceID] == nil {
			counts[slot.ServiceID] = map[int]int{}
		}
		counts[slot.ServiceID][day]++
	}

	cal := &model.MonthlyCalendar{
		Year:     year,
		Month:    m,
		Services: make([]model.ServiceRef, 0, len(services)),
	}
	for _, svc := range services {
		cal.Services = append(cal.Services, model.ServiceRef{ID: svc.ID, Name: svc.Name})
	}

	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		entry := model.CalendarDay{
			Date:     d,
			Services: make([]model.ServiceDayCount, 0, len(services)),
		}
		available := false
		for _, svc := range services {
			n := counts[svc.ID][d.Day()]
			entry.Services = append(entry.Services, model.ServiceDayCount{
				ServiceID:       svc.ID,
				Name:            svc.Name,
				Slots:           n,
				HasAvailability: n > 0,
			})
			available = available || n > 0
		}
		if available {
			cal.Summary.DaysWithAvailability++
		}
		cal.Days = append(cal.Days, entry)
	}
	cal.Summary.TotalServices = len(services)
	cal.Summary.TotalDays = len(cal.Days)

	s.cache.Set(ctx, key, cal)
	return cal, nil
}
