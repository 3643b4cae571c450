package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/presenter"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListActiveServices(ctx context.Context) ([]*model.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]*model.Service)
	return services, args.Error(1)
}

func (m *mockService) GetService(ctx context.Context, id uuid.UUID) (*model.ServiceDetail, error) {
	args := m.Called(ctx, id)
	detail, _ := args.Get(0).(*model.ServiceDetail)
	return detail, args.Error(1)
}

func setup(t *testing.T) (*gin.Engine, *mockService) {
	gin.SetMode(gin.TestMode)
	p, err := presenter.New("fr-CA", time.UTC)
	require.NoError(t, err)

	svc := &mockService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })

	r := gin.New()
	NewHandler(svc, p).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func get(r http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestListServices(t *testing.T) {
	r, svc := setup(t)
	svc.On("ListActiveServices", mock.Anything).Return([]*model.Service{
		{Base: model.Base{ID: uuid.New()}, Name: "Balade", PriceCents: 4500, DurationMinutes: 60, MaxParticipants: 6, Category: "trail"},
		{Base: model.Base{ID: uuid.New()}, Name: "Cours", PriceCents: 6000, DurationMinutes: 45, MaxParticipants: 2, Category: "lesson"},
	}, nil)

	w, body := get(r, "/api/services")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Balade", first["name"])
	assert.Equal(t, 45.0, first["price"])
	assert.Equal(t, "45,00\u00a0$", first["displayPrice"])
	assert.Equal(t, "trail", first["category"])
}

func TestListServices_Empty(t *testing.T) {
	r, svc := setup(t)
	svc.On("ListActiveServices", mock.Anything).Return([]*model.Service{}, nil)

	w, body := get(r, "/api/services")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestGetService(t *testing.T) {
	r, svc := setup(t)
	id := uuid.New()
	start := time.Date(2026, 7, 4, 9, 5, 0, 0, time.UTC)
	svc.On("GetService", mock.Anything, id).Return(&model.ServiceDetail{
		Service: &model.Service{Base: model.Base{ID: id}, Name: "Balade", IsActive: true},
		UpcomingSlots: []*model.TimeSlot{
			{Base: model.Base{ID: uuid.New()}, StartTime: start, EndTime: start.Add(time.Hour), AvailableSpots: 3},
		},
	}, nil)

	w, body := get(r, "/api/services/"+id.String())

	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Balade", data["name"])
	slot := data["upcomingSlots"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "2026-07-04", slot["date"])
	assert.Equal(t, "09 h 05", slot["time"])
	assert.Equal(t, float64(3), slot["availableSpots"])
}

func TestGetService_Errors(t *testing.T) {
	r, svc := setup(t)

	w, _ := get(r, "/api/services/42")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := uuid.New()
	svc.On("GetService", mock.Anything, id).Return(nil, apperrors.NotFound("service", nil))
	w, body := get(r, "/api/services/"+id.String())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
}
