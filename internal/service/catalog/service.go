package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

const activeKey = "services:active"

type Config struct {
	CacheTTL        time.Duration
	CleanupInterval time.Duration
	UpcomingSlots   int
}

// Service answers catalog reads. Service rows are cached in process;
// upcoming slots are always read live since bookings move them.
type Service struct {
	services repository.ServiceRepository
	slots    repository.TimeSlotRepository
	cache    *cache.Cache
	upcoming int
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(services repository.ServiceRepository, slots repository.TimeSlotRepository, cfg Config, m *metrics.Metrics) *Service {
	if cfg.UpcomingSlots <= 0 {
		cfg.UpcomingSlots = 10
	}
	return &Service{
		services: services,
		slots:    slots,
		cache:    cache.New(cfg.CacheTTL, cfg.CleanupInterval),
		upcoming: cfg.UpcomingSlots,
		metrics:  m,
		now:      time.Now,
	}
}

// ListActiveServices returns active services ordered by name
func (s *Service) ListActiveServices(ctx context.Context) ([]*model.Service, error) {
	if v, ok := s.cache.Get(activeKey); ok {
		s.metrics.Cache("catalog", "hit")
		return v.([]*model.Service), nil
	}
	s.metrics.Cache("catalog", "miss")

	services, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.cache.Set(activeKey, services, cache.DefaultExpiration)
	return services, nil
}

// GetService returns an active service with its next bookable slots
func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.ServiceDetail, error) {
	svc, err := s.service(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperrors.NotFound("service", nil)
	}

	slots, err := s.slots.ListAvailable(ctx, model.SlotFilter{
		ServiceID:     id,
		From:          s.now(),
		FromExclusive: true,
		Limit:         s.upcoming,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.ServiceDetail{Service: svc, UpcomingSlots: slots}, nil
}

func (s *Service) service(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	key := "service:" + id.String()
	if v, ok := s.cache.Get(key); ok {
		s.metrics.Cache("catalog", "hit")
		return v.(*model.Service), nil
	}
	s.metrics.Cache("catalog", "miss")

	svc, err := s.services.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service", nil)
		}
		return nil, apperrors.Internal(err)
	}
	s.cache.Set(key, svc, cache.DefaultExpiration)
	return svc, nil
}

// Flush drops every cached catalog entry
func (s *Service) Flush() {
	s.cache.Flush()
}
