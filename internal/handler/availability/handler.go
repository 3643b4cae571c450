package availability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/presenter"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type AvailabilityServicer interface {
	GetServiceAvailability(ctx context.Context, serviceID uuid.UUID, startDate *time.Time, days int) (*model.ServiceAvailability, error)
	GetMonthlyCalendar(ctx context.Context, year, month int) (*model.MonthlyCalendar, error)
}

type Handler struct {
	service     AvailabilityServicer
	presenter   *presenter.Presenter
	defaultDays int
}

func NewHandler(service AvailabilityServicer, p *presenter.Presenter, defaultDays int) *Handler {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &Handler{service: service, presenter: p, defaultDays: defaultDays}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	availability := r.Group("/availability")
	{
		availability.GET("/service/:serviceId", h.GetServiceAvailability)
		availability.GET("/calendar/:year/:month", h.GetMonthlyCalendar)
	}
}

type slotResponse struct {
	ID             uuid.UUID `json:"id"`
	Time           string    `json:"time"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	Duration       int       `json:"duration"`
	AvailableSpots int       `json:"availableSpots"`
	IsAvailable    bool      `json:"isAvailable"`
}

type dayResponse struct {
	Date        string         `json:"date"`
	DisplayDate string         `json:"displayDate"`
	Slots       []slotResponse `json:"slots"`
}

func (h *Handler) GetServiceAvailability(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput("invalid service ID", err))
		return
	}

	var startDate *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation(time.DateOnly, raw, h.presenter.Location())
		if err != nil {
			httputil.RespondWithError(c, apperrors.InvalidInput("date must be formatted YYYY-MM-DD", err))
			return
		}
		startDate = &d
	}

	days := h.defaultDays
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.InvalidInput("days must be an integer", err))
			return
		}
	}

	av, err := h.service.GetServiceAvailability(c.Request.Context(), serviceID, startDate, days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	dates := make([]dayResponse, 0, len(av.Dates))
	for _, d := range av.Dates {
		day := dayResponse{
			Date:        h.presenter.Date(d.Date),
			DisplayDate: h.presenter.LongDate(d.Date),
			Slots:       make([]slotResponse, 0, len(d.Slots)),
		}
		for _, s := range d.Slots {
			day.Slots = append(day.Slots, slotResponse{
				ID:             s.ID,
				Time:           h.presenter.Time(s.StartTime),
				StartTime:      s.StartTime,
				EndTime:        s.EndTime,
				Duration:       s.DurationMinutes,
				AvailableSpots: s.AvailableSpots,
				IsAvailable:    s.IsAvailable,
			})
		}
		dates = append(dates, day)
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"service": gin.H{
			"id":              av.Service.ID,
			"name":            av.Service.Name,
			"price":           presenter.Amount(av.Service.PriceCents),
			"displayPrice":    h.presenter.Price(av.Service.PriceCents),
			"duration":        av.Service.DurationMinutes,
			"maxParticipants": av.Service.MaxParticipants,
		},
		"period": gin.H{
			"from": h.presenter.Date(av.From),
			"to":   h.presenter.Date(av.To),
			"days": av.Days,
		},
		"availability": dates,
		"totalSlots":   av.TotalSlots,
	})
}

type calendarServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slots           int       `json:"slots"`
	HasAvailability bool      `json:"hasAvailability"`
}

type calendarDayResponse struct {
	Date     string                    `json:"date"`
	Day      int                       `json:"day"`
	Weekday  string                    `json:"weekday"`
	Services []calendarServiceResponse `json:"services"`
}

func (h *Handler) GetMonthlyCalendar(c *gin.Context) {
	year, yerr := strconv.Atoi(c.Param("year"))
	month, merr := strconv.Atoi(c.Param("month"))
	if yerr != nil || merr != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput("invalid year or month", nil))
		return
	}

	cal, err := h.service.GetMonthlyCalendar(c.Request.Context(), year, month)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	days := make([]calendarDayResponse, 0, len(cal.Days))
	for _, d := range cal.Days {
		day := calendarDayResponse{
			Date:     h.presenter.Date(d.Date),
			Day:      d.Date.In(h.presenter.Location()).Day(),
			Weekday:  h.presenter.Weekday(d.Date),
			Services: make([]calendarServiceResponse, 0, len(d.Services)),
		}
		for _, s := range d.Services {
			day.Services = append(day.Services, calendarServiceResponse{
				ID:              s.ServiceID,
				Name:            s.Name,
				Slots:           s.Slots,
				HasAvailability: s.HasAvailability,
			})
		}
		days = append(days, day)
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"month": gin.H{
			"year":  cal.Year,
			"month": int(cal.Month),
			"name":  fmt.Sprintf("%s %d", h.presenter.MonthName(cal.Month), cal.Year),
		},
		"services": cal.Services,
		"calendar": days,
		"summary":  cal.Summary,
	})
}
