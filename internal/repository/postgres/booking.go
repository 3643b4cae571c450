package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/booking-api/internal/model"
)

const bookingDetailsQuery = `
	SELECT b.id, b.guest_email, b.guest_name, b.guest_phone,
		   b.time_slot_id, b.service_id, b.participant_count,
		   b.total_price_cents, b.special_requests, b.status,
		   b.cancelled_at, b.created_at, b.updated_at,
		   s.name AS service_name,
		   s.duration_minutes AS service_duration_minutes,
		   ts.start_time AS slot_start_time,
		   ts.end_time AS slot_end_time
	FROM bookings b
	JOIN services s ON s.id = b.service_id
	JOIN time_slots ts ON ts.id = b.time_slot_id
`

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, guest_email, guest_name, guest_phone,
			time_slot_id, service_id, participant_count,
			total_price_cents, special_requests, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.GuestEmail,
		booking.GuestName,
		booking.GuestPhone,
		booking.TimeSlotID,
		booking.ServiceID,
		booking.ParticipantCount,
		booking.TotalPriceCents,
		booking.SpecialRequests,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", missingReference(err))
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.BookingDetails, error) {
	query := bookingDetailsQuery + `WHERE b.id = $1`

	var details model.BookingDetails
	if err := sqlx.GetContext(ctx, r.db, &details, query, id); err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", notFound(err))
	}
	return &details, nil
}

func (r *bookingRepository) ListByEmail(ctx context.Context, email string) ([]*model.BookingDetails, error) {
	query := bookingDetailsQuery + `
		WHERE b.guest_email = $1
		ORDER BY b.created_at DESC, b.id DESC
	`
	var bookings []*model.BookingDetails
	if err := sqlx.SelectContext(ctx, r.db, &bookings, query, email); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// MarkCancelled only touches CONFIRMED rows, so of two racing cancels
// exactly one sees a row change.
func (r *bookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, id, model.BookingStatusCancelled, model.BookingStatusConfirmed)
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}
