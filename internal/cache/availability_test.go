package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/pkg/logger"
)

func TestServiceKey_UsesGeneration(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute, nil, logger.Nop())
	serviceID := uuid.New()
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectGet("availability:gen:service:" + serviceID.String()).SetVal("4")

	key := c.ServiceKey(context.Background(), serviceID, from, 7)

	assert.Equal(t, "availability:service:"+serviceID.String()+":4:2026-07-01:7", key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarKey_MissingGenerationIsZero(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute, nil, logger.Nop())

	mock.ExpectGet(calendarGenKey).RedisNil()

	assert.Equal(t, "availability:calendar:0:2026-02", c.CalendarKey(context.Background(), 2026, time.February))
}

func TestGetSet_RoundTrip(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute, nil, logger.Nop())
	want := &model.MonthlyCalendar{Year: 2026, Month: time.June, Summary: model.CalendarSummary{TotalDays: 30}}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectSet("k", raw, time.Minute).SetVal("OK")
	mock.ExpectGet("k").SetVal(string(raw))

	c.Set(context.Background(), "k", want)
	var got model.MonthlyCalendar
	require.True(t, c.Get(context.Background(), "k", &got))

	assert.Equal(t, 30, got.Summary.TotalDays)
	assert.Equal(t, time.June, got.Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_MissAndError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute, nil, logger.Nop())

	mock.ExpectGet("absent").RedisNil()
	mock.ExpectGet("broken").SetErr(errors.New("connection refused"))

	var v model.MonthlyCalendar
	assert.False(t, c.Get(context.Background(), "absent", &v))
	assert.False(t, c.Get(context.Background(), "broken", &v))
	assert.False(t, c.Get(context.Background(), "", &v))
}

func TestInvalidate_BumpsServiceAndCalendar(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute, nil, logger.Nop())
	serviceID := uuid.New()

	mock.ExpectIncr("availability:gen:service:" + serviceID.String()).SetVal(5)
	mock.ExpectIncr(calendarGenKey).SetVal(12)

	c.Invalidate(context.Background(), serviceID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
