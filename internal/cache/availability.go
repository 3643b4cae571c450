package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/booking-api/pkg/circuitbreaker"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

const (
	calendarGenKey = "availability:gen:calendar"
	keyPrefix      = "availability"
)

// AvailabilityCache stores availability projections in Redis.
//
// Entries are keyed by a generation counter: a booking or cancellation
// bumps the counters of the affected service and of the calendar, so
// later reads build a new key and miss. Values written under an old
// generation are never read again and expire with their TTL.
//
// Every Redis failure is treated as a miss. The breaker stops calling
// Redis after repeated failures so reads fall through to the database.
type AvailabilityCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration, m *metrics.Metrics, log zerolog.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "redis-availability",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		metrics: m,
		log:     log.With().Str("component", "availability_cache").Logger(),
	}
}

func serviceGenKey(serviceID uuid.UUID) string {
	return fmt.Sprintf("%s:gen:service:%s", keyPrefix, serviceID)
}

// ServiceKey resolves the current key for a service availability window.
// It returns "" when the generation cannot be read.
func (c *AvailabilityCache) ServiceKey(ctx context.Context, serviceID uuid.UUID, from time.Time, days int) string {
	gen, ok := c.generation(ctx, serviceGenKey(serviceID))
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:service:%s:%d:%s:%d", keyPrefix, serviceID, gen, from.Format(time.DateOnly), days)
}

// CalendarKey resolves the current key for a monthly calendar
func (c *AvailabilityCache) CalendarKey(ctx context.Context, year int, month time.Month) string {
	gen, ok := c.generation(ctx, calendarGenKey)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:calendar:%d:%04d-%02d", keyPrefix, gen, year, int(month))
}

func (c *AvailabilityCache) generation(ctx context.Context, key string) (int64, bool) {
	var gen int64
	err := c.breaker.Execute(func() error {
		v, err := c.client.Get(ctx, key).Int64()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		gen = v
		return err
	})
	if err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("generation lookup failed")
		return 0, false
	}
	return gen, true
}

// Get decodes the entry at key into dest and reports whether it was found
func (c *AvailabilityCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if key == "" {
		return false
	}

	var raw []byte
	err := c.breaker.Execute(func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		raw = b
		return err
	})
	if err != nil || raw == nil {
		c.metrics.Cache("availability", "miss")
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		c.metrics.Cache("availability", "miss")
		return false
	}
	c.metrics.Cache("availability", "hit")
	return true
}

// Set stores value at key for the configured TTL
func (c *AvailabilityCache) Set(ctx context.Context, key string, value interface{}) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, key, raw, c.ttl).Err()
	})
	if err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate retires the cached availability of serviceID and every calendar
func (c *AvailabilityCache) Invalidate(ctx context.Context, serviceID uuid.UUID) {
	err := c.breaker.Execute(func() error {
		if err := c.client.Incr(ctx, serviceGenKey(serviceID)).Err(); err != nil {
			return err
		}
		return c.client.Incr(ctx, calendarGenKey).Err()
	})
	if err != nil {
		c.log.Warn().Err(err).Str("service_id", serviceID.String()).Msg("cache invalidation failed")
	}
}

// Nop is a disabled cache
type Nop struct{}

func (Nop) ServiceKey(context.Context, uuid.UUID, time.Time, int) string { return "" }
func (Nop) CalendarKey(context.Context, int, time.Month) string          { return "" }
func (Nop) Get(context.Context, string, interface{}) bool                { return false }
func (Nop) Set(context.Context, string, interface{})                     {}
func (Nop) Invalidate(context.Context, uuid.UUID)                        {}
