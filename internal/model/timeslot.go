package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a window during which a service runs for a bounded group.
// TotalCapacity is fixed at creation; AvailableSpots is mutated only by
// the capacity ledger and stays within [0, TotalCapacity].
type TimeSlot struct {
	Base
	ServiceID      uuid.UUID `db:"service_id" json:"serviceId"`
	StartTime      time.Time `db:"start_time" json:"startTime"`
	EndTime        time.Time `db:"end_time" json:"endTime"`
	TotalCapacity  int       `db:"total_capacity" json:"totalCapacity"`
	AvailableSpots int       `db:"available_spots" json:"availableSpots"`
	IsBookable     bool      `db:"is_bookable" json:"isBookable"`
}

func (t *TimeSlot) Summary() SlotSummary {
	return SlotSummary{
		ID:        t.ID,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
	}
}

// SlotFilter selects bookable slots that still have spots, from services
// that are active. A uuid.Nil ServiceID matches every active service.
type SlotFilter struct {
	ServiceID     uuid.UUID
	From          time.Time
	FromExclusive bool
	To            time.Time // exclusive; zero means unbounded
	Limit         int
}

// CapacityDrift is a slot whose counter no longer matches its bookings
type CapacityDrift struct {
	TimeSlotID     uuid.UUID `db:"time_slot_id" json:"timeSlotId"`
	TotalCapacity  int       `db:"total_capacity" json:"totalCapacity"`
	AvailableSpots int       `db:"available_spots" json:"availableSpots"`
	ExpectedSpots  int       `db:"expected_spots" json:"expectedSpots"`
}
