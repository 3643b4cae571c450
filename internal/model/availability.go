package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceAvailability is the sparse per-day view of one service.
// Days without a qualifying slot are absent.
type ServiceAvailability struct {
	Service    ServiceSummary    `json:"service"`
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
	Days       int               `json:"days"`
	Dates      []DayAvailability `json:"dates"`
	TotalSlots int               `json:"totalSlots"`
}

type DayAvailability struct {
	Date  time.Time          `json:"date"`
	Slots []SlotAvailability `json:"slots"`
}

type SlotAvailability struct {
	ID              uuid.UUID `json:"id"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	AvailableSpots  int       `json:"availableSpots"`
	IsAvailable     bool      `json:"isAvailable"`
}

// MonthlyCalendar is the dense per-day view across every active service.
// Every day of the month is present.
type MonthlyCalendar struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Services []ServiceRef    `json:"services"`
	Days     []CalendarDay   `json:"days"`
	Summary  CalendarSummary `json:"summary"`
}

type ServiceRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CalendarDay struct {
	Date     time.Time         `json:"date"`
	Services []ServiceDayCount `json:"services"`
}

type ServiceDayCount struct {
	ServiceID       uuid.UUID `json:"serviceId"`
	Name            string    `json:"name"`
	Slots           int       `json:"slots"`
	HasAvailability bool      `json:"hasAvailability"`
}

type CalendarSummary struct {
	TotalServices        int `json:"totalServices"`
	TotalDays            int `json:"totalDays"`
	DaysWithAvailability int `json:"daysWithAvailability"`
}
