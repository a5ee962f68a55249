package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryerp/backend/internal/interfaces/http/dto"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func newSystemRouter(db Pinger) *gin.Engine {
	h := NewSystemHandler(db)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ping", h.Ping)
	return r
}

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) HealthResponse {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(raw, &health))
	return health
}

func TestHealthEndpoint(t *testing.T) {
	r := newSystemRouter(&stubPinger{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	health := decodeHealth(t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Database)
	assert.NotEmpty(t, health.GoVersion)
}

func TestHealthEndpointReportsDatabaseOutage(t *testing.T) {
	r := newSystemRouter(&stubPinger{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	health := decodeHealth(t, w)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "unreachable", health.Database)
}

func TestPingEndpoint(t *testing.T) {
	r := newSystemRouter(&stubPinger{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
