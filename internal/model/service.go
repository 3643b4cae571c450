package model

// Service is a bookable activity offered by the ranch
type Service struct {
	Base
	Name            string `db:"name" json:"name"`
	Description     string `db:"description" json:"description"`
	PriceCents      int64  `db:"price_cents" json:"priceCents"`
	DurationMinutes int    `db:"duration_minutes" json:"durationMinutes"`
	MaxParticipants int    `db:"max_participants" json:"maxParticipants"`
	Category        string `db:"category" json:"category"`
	IsActive        bool   `db:"is_active" json:"isActive"`
}

func (s *Service) Summary() ServiceSummary {
	return ServiceSummary{
		ID:              s.ID,
		Name:            s.Name,
		PriceCents:      s.PriceCents,
		DurationMinutes: s.DurationMinutes,
		MaxParticipants: s.MaxParticipants,
	}
}

// ServiceDetail is a service with its next bookable slots
type ServiceDetail struct {
	Service       *Service
	UpcomingSlots []*TimeSlot
}
