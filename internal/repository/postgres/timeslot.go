package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/booking-api/internal/model"
)

const timeSlotColumns = `
	ts.id, ts.service_id, ts.start_time, ts.end_time, ts.total_capacity,
	ts.available_spots, ts.is_bookable, ts.created_at, ts.updated_at`

func (r *timeSlotRepository) Get(ctx context.Context, id uuid.UUID) (*model.TimeSlot, error) {
	query := `SELECT` + timeSlotColumns + `
		FROM time_slots ts
		WHERE ts.id = $1
	`
	var slot model.TimeSlot
	if err := sqlx.GetContext(ctx, r.db, &slot, query, id); err != nil {
		return nil, fmt.Errorf("failed to get time slot: %w", notFound(err))
	}
	return &slot, nil
}

// ListAvailable returns bookable slots with spots left, ordered by start time
func (r *timeSlotRepository) ListAvailable(ctx context.Context, filter model.SlotFilter) ([]*model.TimeSlot, error) {
	var (
		conds = []string{"ts.is_bookable = true", "ts.available_spots > 0", "s.is_active = true"}
		args  []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ServiceID != uuid.Nil {
		conds = append(conds, "ts.service_id = "+arg(filter.ServiceID))
	}
	if !filter.From.IsZero() {
		op := ">="
		if filter.FromExclusive {
			op = ">"
		}
		conds = append(conds, "ts.start_time "+op+" "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "ts.start_time < "+arg(filter.To))
	}

	query := `SELECT` + timeSlotColumns + `
		FROM time_slots ts
		JOIN services s ON s.id = ts.service_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY ts.start_time ASC, ts.id ASC`

	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	var slots []*model.TimeSlot
	if err := sqlx.SelectContext(ctx, r.db, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list time slots: %w", err)
	}
	return slots, nil
}

func (r *timeSlotRepository) ListCapacityDrift(ctx context.Context) ([]*model.CapacityDrift, error) {
	query := `
		SELECT time_slot_id, total_capacity, available_spots, expected_spots
		FROM time_slot_capacity_drift
		ORDER BY time_slot_id
	`
	var drift []*model.CapacityDrift
	if err := sqlx.SelectContext(ctx, r.db, &drift, query); err != nil {
		return nil, fmt.Errorf("failed to check capacity drift: %w", err)
	}
	return drift, nil
}
