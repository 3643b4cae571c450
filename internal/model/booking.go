package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	Base
	GuestEmail       string        `db:"guest_email" json:"guestEmail"`
	GuestName        *string       `db:"guest_name" json:"guestName,omitempty"`
	GuestPhone       *string       `db:"guest_phone" json:"guestPhone,omitempty"`
	TimeSlotID       uuid.UUID     `db:"time_slot_id" json:"timeSlotId"`
	ServiceID        uuid.UUID     `db:"service_id" json:"serviceId"`
	ParticipantCount int           `db:"participant_count" json:"participantCount"`
	TotalPriceCents  int64         `db:"total_price_cents" json:"totalPriceCents"`
	SpecialRequests  *string       `db:"special_requests" json:"specialRequests,omitempty"`
	Status           BookingStatus `db:"status" json:"status"`
	CancelledAt      *time.Time    `db:"cancelled_at" json:"cancelledAt,omitempty"`
}

// BookingDetails is a booking joined with its service and slot
type BookingDetails struct {
	Booking
	ServiceName     string    `db:"service_name"`
	ServiceDuration int       `db:"service_duration_minutes"`
	SlotStartTime   time.Time `db:"slot_start_time"`
	SlotEndTime     time.Time `db:"slot_end_time"`
}

type CreateBookingRequest struct {
	TimeSlotID       string  `json:"timeSlotId"`
	ServiceID        string  `json:"serviceId"`
	GuestEmail       string  `json:"guestEmail"`
	GuestName        *string `json:"guestName" binding:"omitempty,max=100"`
	GuestPhone       *string `json:"guestPhone" binding:"omitempty,max=30"`
	ParticipantCount int     `json:"participantCount"`
	SpecialRequests  *string `json:"specialRequests" binding:"omitempty,max=500"`
}

type ServiceSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"priceCents"`
	DurationMinutes int       `json:"durationMinutes"`
	MaxParticipants int       `json:"maxParticipants"`
}

type SlotSummary struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// BookingConfirmation is returned by a committed createBooking
type BookingConfirmation struct {
	Booking *Booking
	Service ServiceSummary
	Slot    SlotSummary
}

// CancellationResult is returned by a committed cancelBooking
type CancellationResult struct {
	BookingID   uuid.UUID
	Status      BookingStatus
	RefundCents int64
	ServiceName string
	SlotStart   time.Time
}
