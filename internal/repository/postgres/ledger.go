package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/repository"
)

// Decrement takes amount spots in one conditional UPDATE. The spot check
// and the write happen in the same statement, so two transactions that
// both saw enough spots cannot both succeed when only one fits.
func (l *capacityLedger) Decrement(ctx context.Context, slotID uuid.UUID, amount int) (int, error) {
	if amount < 1 {
		return 0, fmt.Errorf("decrement amount must be positive, got %d", amount)
	}

	query := `
		UPDATE time_slots
		SET available_spots = available_spots - $2, updated_at = NOW()
		WHERE id = $1 AND is_bookable = true AND available_spots >= $2
		RETURNING available_spots
	`
	var remaining int
	err := l.db.QueryRowxContext(ctx, query, slotID, amount).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to decrement available spots: %w", err)
	}

	return l.explainMiss(ctx, slotID)
}

// explainMiss reports why a conditional decrement touched no row
func (l *capacityLedger) explainMiss(ctx context.Context, slotID uuid.UUID) (int, error) {
	query := `SELECT available_spots, is_bookable FROM time_slots WHERE id = $1`

	var (
		spots    int
		bookable bool
	)
	err := l.db.QueryRowxContext(ctx, query, slotID).Scan(&spots, &bookable)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, repository.ErrNotFound
	case err != nil:
		return 0, fmt.Errorf("failed to read available spots: %w", err)
	case !bookable:
		return spots, repository.ErrSlotNotBookable
	default:
		return spots, repository.ErrInsufficientSpots
	}
}

// Increment returns amount spots without letting the slot pass its total capacity
func (l *capacityLedger) Increment(ctx context.Context, slotID uuid.UUID, amount int) (int, error) {
	if amount < 1 {
		return 0, fmt.Errorf("increment amount must be positive, got %d", amount)
	}

	query := `
		UPDATE time_slots
		SET available_spots = available_spots + $2, updated_at = NOW()
		WHERE id = $1 AND available_spots + $2 <= total_capacity
		RETURNING available_spots
	`
	var remaining int
	err := l.db.QueryRowxContext(ctx, query, slotID, amount).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to increment available spots: %w", err)
	}

	var exists bool
	if err := l.db.QueryRowxContext(ctx, `SELECT EXISTS(SELECT 1 FROM time_slots WHERE id = $1)`, slotID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check time slot: %w", err)
	}
	if !exists {
		return 0, repository.ErrNotFound
	}
	return 0, repository.ErrCapacityOverflow
}
