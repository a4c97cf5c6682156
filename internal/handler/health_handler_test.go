package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestHealthReportsModeAndCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHealthHandler("", "memory", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	handler.Health(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "memory", body["mode"])
	require.Equal(t, "disabled", body["cache"])
}

func TestEmailServiceProbeUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHealthHandler("", "memory", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/health/email-service", nil)

	handler.EmailService(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "unconfigured", body["emailService"])
}

func TestEmailServiceProbeDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer downstream.Close()

	handler := NewHealthHandler(downstream.URL, "postgres", true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/health/email-service", nil)

	handler.EmailService(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "degraded", body["emailService"])
}
