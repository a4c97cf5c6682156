package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers readiness probes and reports downstream reachability.
type HealthHandler struct {
	emailHealthURL string
	storeMode      string
	cacheEnabled   bool
	client         *http.Client
}

// NewHealthHandler constructs a health handler. emailHealthURL may be empty,
// in which case the downstream probe is skipped. storeMode names the active
// persistence backend.
func NewHealthHandler(emailHealthURL, storeMode string, cacheEnabled bool) *HealthHandler {
	return &HealthHandler{
		emailHealthURL: emailHealthURL,
		storeMode:      storeMode,
		cacheEnabled:   cacheEnabled,
		client:         &http.Client{Timeout: 2 * time.Second},
	}
}

// Health reports liveness plus the active store mode and cache availability.
func (h *HealthHandler) Health(c *gin.Context) {
	cache := "disabled"
	if h.cacheEnabled {
		cache = "enabled"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   h.storeMode,
		"cache":  cache,
	})
}

// EmailService reports downstream email-service reachability. The probe is
// advisory: a failing downstream never turns the API unhealthy, so the
// response is always 200.
func (h *HealthHandler) EmailService(c *gin.Context) {
	status := "unconfigured"
	if h.emailHealthURL != "" {
		status = h.probeEmailService(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"emailService": status})
}

func (h *HealthHandler) probeEmailService(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.emailHealthURL, nil)
	if err != nil {
		return "unreachable"
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "unreachable"
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "degraded"
	}
	return "ok"
}
