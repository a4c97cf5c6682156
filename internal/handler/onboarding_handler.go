package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
	"github.com/procure-core/vendor-mdm-api/pkg/response"
)

type onboardingService interface {
	Submit(ctx context.Context, req dto.SubmitApplicationRequest) (*dto.ApplicationDetail, error)
	Get(ctx context.Context, id string) (*dto.ApplicationDetail, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]dto.ApplicationDetail, error)
	Pending(ctx context.Context) ([]dto.ApplicationDetail, error)
	Approve(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ApplicationDetail, error)
	Reject(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ApplicationDetail, error)
}

// OnboardingHandler exposes REST endpoints for vendor onboarding applications.
type OnboardingHandler struct {
	service onboardingService
}

// NewOnboardingHandler constructs the handler.
func NewOnboardingHandler(service onboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

// Submit godoc
// @Summary Submit an onboarding application
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param payload body dto.SubmitApplicationRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /onboarding [post]
func (h *OnboardingHandler) Submit(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application payload"))
		return
	}
	detail, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, detail, nil)
}

// List godoc
// @Summary List onboarding applications
// @Tags Onboarding
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} response.Envelope
// @Router /onboarding [get]
func (h *OnboardingHandler) List(c *gin.Context) {
	var filter models.ApplicationFilter
	if rawStatus := c.Query("status"); rawStatus != "" {
		for _, part := range strings.Split(rawStatus, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			filter.Status = append(filter.Status, models.ApplicationStatus(part))
		}
	}
	details, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Pending godoc
// @Summary List applications awaiting review
// @Tags Onboarding
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /onboarding/pending [get]
func (h *OnboardingHandler) Pending(c *gin.Context) {
	details, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Get godoc
// @Summary Get application detail
// @Tags Onboarding
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /onboarding/{id} [get]
func (h *OnboardingHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Approve godoc
// @Summary Approve an onboarding application
// @Tags Onboarding
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /onboarding/{id}/approve [post]
func (h *OnboardingHandler) Approve(c *gin.Context) {
	detail, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Reject godoc
// @Summary Reject an onboarding application
// @Tags Onboarding
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /onboarding/{id}/reject [post]
func (h *OnboardingHandler) Reject(c *gin.Context) {
	detail, err := h.service.Reject(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
