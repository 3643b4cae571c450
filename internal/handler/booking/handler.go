package booking

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/presenter"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
	"github.com/jwalitptl/booking-api/pkg/validator"
)

type BookingServicer interface {
	CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.BookingConfirmation, error)
	CancelBooking(ctx context.Context, bookingID, email string) (*model.CancellationResult, error)
	ListByEmail(ctx context.Context, email string) ([]*model.BookingDetails, error)
}

type Handler struct {
	service   BookingServicer
	presenter *presenter.Presenter
}

func NewHandler(service BookingServicer, p *presenter.Presenter) *Handler {
	return &Handler{service: service, presenter: p}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/email/:email", h.ListBookingsByEmail)
		bookings.PATCH("/:id/cancel/:email", h.CancelBooking)
	}
}

type bookingResponse struct {
	ID               uuid.UUID           `json:"id"`
	GuestEmail       string              `json:"guestEmail"`
	GuestName        *string             `json:"guestName"`
	GuestPhone       *string             `json:"guestPhone"`
	TimeSlotID       uuid.UUID           `json:"timeSlotId"`
	ServiceID        uuid.UUID           `json:"serviceId"`
	ParticipantCount int                 `json:"participantCount"`
	TotalPrice       float64             `json:"totalPrice"`
	SpecialRequests  *string             `json:"specialRequests"`
	Status           model.BookingStatus `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	Service          gin.H               `json:"service"`
	TimeSlot         model.SlotSummary   `json:"timeSlot"`
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var fe *validator.FieldError
		if errors.As(err, &fe) {
			httputil.RespondWithError(c, apperrors.InvalidInput(fe.Message, nil))
			return
		}
		httputil.RespondWithError(c, apperrors.InvalidInput("invalid request body", err))
		return
	}

	conf, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	b := conf.Booking
	guestName := ""
	if b.GuestName != nil {
		guestName = *b.GuestName
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, gin.H{
		"message": h.presenter.Message(presenter.MsgBookingConfirmed),
		"data": bookingResponse{
			ID:               b.ID,
			GuestEmail:       b.GuestEmail,
			GuestName:        b.GuestName,
			GuestPhone:       b.GuestPhone,
			TimeSlotID:       b.TimeSlotID,
			ServiceID:        b.ServiceID,
			ParticipantCount: b.ParticipantCount,
			TotalPrice:       presenter.Amount(b.TotalPriceCents),
			SpecialRequests:  b.SpecialRequests,
			Status:           b.Status,
			CreatedAt:        b.CreatedAt,
			Service: gin.H{
				"id":       conf.Service.ID,
				"name":     conf.Service.Name,
				"price":    presenter.Amount(conf.Service.PriceCents),
				"duration": conf.Service.DurationMinutes,
			},
			TimeSlot: conf.Slot,
		},
		"summary": gin.H{
			"participants": b.ParticipantCount,
			"total":        h.presenter.Price(b.TotalPriceCents),
			"date":         h.presenter.Date(conf.Slot.StartTime),
			"time":         h.presenter.Time(conf.Slot.StartTime),
		},
		"confirmation": h.presenter.ConfirmationMessage(presenter.Confirmation{
			BookingID:    b.ID.String(),
			GuestName:    guestName,
			ServiceName:  conf.Service.Name,
			StartTime:    conf.Slot.StartTime,
			Participants: b.ParticipantCount,
			TotalCents:   b.TotalPriceCents,
		}),
	})
}

type bookingListItem struct {
	ID              uuid.UUID           `json:"id"`
	GuestName       *string             `json:"guestName"`
	Service         string              `json:"service"`
	Date            string              `json:"date"`
	Time            string              `json:"time"`
	Participants    int                 `json:"participants"`
	Total           string              `json:"total"`
	Status          model.BookingStatus `json:"status"`
	SpecialRequests *string             `json:"specialRequests"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func (h *Handler) ListBookingsByEmail(c *gin.Context) {
	bookings, err := h.service.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	data := make([]bookingListItem, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, bookingListItem{
			ID:              b.ID,
			GuestName:       b.GuestName,
			Service:         b.ServiceName,
			Date:            h.presenter.Date(b.SlotStartTime),
			Time:            h.presenter.Time(b.SlotStartTime),
			Participants:    b.ParticipantCount,
			Total:           h.presenter.Price(b.TotalPriceCents),
			Status:          b.Status,
			SpecialRequests: b.SpecialRequests,
			CreatedAt:       b.CreatedAt,
		})
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"count": len(data),
		"data":  data,
	})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	res, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), c.Param("email"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"message": h.presenter.Message(presenter.MsgBookingCancelled),
		"data": gin.H{
			"id":      res.BookingID,
			"status":  res.Status,
			"refund":  presenter.Amount(res.RefundCents),
			"service": res.ServiceName,
			"message": h.presenter.Message(presenter.MsgRefundNotice, h.presenter.Price(res.RefundCents)),
		},
	})
}
