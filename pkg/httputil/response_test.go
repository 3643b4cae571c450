package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondWithSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, w := newContext()

	RespondWithSuccess(c, http.StatusCreated, gin.H{"count": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
}

func TestRespondWithError_BusinessRule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, w := newContext()

	RespondWithError(c, errors.Forbidden("email does not match booking"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "email does not match booking", body["error"])
	assert.Equal(t, "FORBIDDEN", body["code"])
	assert.NotContains(t, body, "details")
}

func TestRespondWithError_InternalDetailsOutsideRelease(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, w := newContext()

	RespondWithError(c, stderrors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "pq: connection refused", body["details"])
}

func TestRespondWithError_InternalDetailsHiddenInRelease(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)
	c, w := newContext()

	RespondWithError(c, errors.Internal(stderrors.New("pq: connection refused")))

	body := decode(t, w)
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotContains(t, body, "details")
}
