package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/presenter"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type CatalogServicer interface {
	ListActiveServices(ctx context.Context) ([]*model.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*model.ServiceDetail, error)
}

type Handler struct {
	service   CatalogServicer
	presenter *presenter.Presenter
}

func NewHandler(service CatalogServicer, p *presenter.Presenter) *Handler {
	return &Handler{service: service, presenter: p}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:id", h.GetService)
	}
}

type serviceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DisplayPrice    string    `json:"displayPrice"`
	DurationMinutes int       `json:"durationMinutes"`
	MaxParticipants int       `json:"maxParticipants"`
	Category        string    `json:"category"`
}

type upcomingSlotResponse struct {
	ID             uuid.UUID `json:"id"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	AvailableSpots int       `json:"availableSpots"`
}

type serviceDetailResponse struct {
	serviceResponse
	IsActive      bool                   `json:"isActive"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	UpcomingSlots []upcomingSlotResponse `json:"upcomingSlots"`
}

func (h *Handler) toResponse(s *model.Service) serviceResponse {
	return serviceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           presenter.Amount(s.PriceCents),
		DisplayPrice:    h.presenter.Price(s.PriceCents),
		DurationMinutes: s.DurationMinutes,
		MaxParticipants: s.MaxParticipants,
		Category:        s.Category,
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListActiveServices(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	data := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		data = append(data, h.toResponse(s))
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"count": len(data),
		"data":  data,
	})
}

func (h *Handler) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput("invalid service ID", err))
		return
	}

	detail, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp := serviceDetailResponse{
		serviceResponse: h.toResponse(detail.Service),
		IsActive:        detail.Service.IsActive,
		CreatedAt:       detail.Service.CreatedAt,
		UpdatedAt:       detail.Service.UpdatedAt,
		UpcomingSlots:   make([]upcomingSlotResponse, 0, len(detail.UpcomingSlots)),
	}
	for _, slot := range detail.UpcomingSlots {
		resp.UpcomingSlots = append(resp.UpcomingSlots, upcomingSlotResponse{
			ID:             slot.ID,
			Date:           h.presenter.Date(slot.StartTime),
			Time:           h.presenter.Time(slot.StartTime),
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
			AvailableSpots: slot.AvailableSpots,
		})
	}

	httputil.RespondWithData(c, http.StatusOK, resp)
}
