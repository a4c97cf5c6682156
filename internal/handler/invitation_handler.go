package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
	"github.com/procure-core/vendor-mdm-api/pkg/response"
)

type invitationService interface {
	Create(ctx context.Context, req dto.CreateInvitationRequest, actor *models.JWTClaims) (*dto.CreateInvitationResponse, error)
	List(ctx context.Context, filter models.InvitationFilter) ([]models.Invitation, error)
	Resend(ctx context.Context, id string, actor *models.JWTClaims) (*dto.CreateInvitationResponse, error)
	Revoke(ctx context.Context, id string, actor *models.JWTClaims) error
	Validate(ctx context.Context, token string) (*dto.InvitationValidation, error)
	Complete(ctx context.Context, token string, req dto.CompleteRegistrationRequest) (*dto.ApplicationDetail, error)
}

// InvitationHandler exposes admin invitation management plus the public
// registration endpoints reached from the emailed link.
type InvitationHandler struct {
	service invitationService
}

// NewInvitationHandler constructs the handler.
func NewInvitationHandler(service invitationService) *InvitationHandler {
	return &InvitationHandler{service: service}
}

// Create godoc
// @Summary Create a vendor registration invitation
// @Tags Invitations
// @Accept json
// @Produce json
// @Param payload body dto.CreateInvitationRequest true "Invitation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /invitation/create [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid invitation payload"))
		return
	}
	resp, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, resp, nil)
}

// List godoc
// @Summary List invitations
// @Tags Invitations
// @Produce json
// @Param status query string false "Invitation status"
// @Success 200 {object} response.Envelope
// @Router /invitation/list [get]
func (h *InvitationHandler) List(c *gin.Context) {
	filter := models.InvitationFilter{
		Status: models.InvitationStatus(c.Query("status")),
	}
	invitations, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invitations, nil)
}

// Resend godoc
// @Summary Re-issue a pending invitation with a fresh expiry
// @Tags Invitations
// @Produce json
// @Param id path string true "Invitation ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /invitation/resend/{id} [post]
func (h *InvitationHandler) Resend(c *gin.Context) {
	resp, err := h.service.Resend(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Revoke godoc
// @Summary Revoke a pending invitation
// @Tags Invitations
// @Produce json
// @Param id path string true "Invitation ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /invitation/revoke/{id} [post]
func (h *InvitationHandler) Revoke(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Validate godoc
// @Summary Validate a registration token
// @Tags Registration
// @Produce json
// @Param token path string true "Registration token"
// @Success 200 {object} response.Envelope
// @Router /invitation/validate/{token} [get]
func (h *InvitationHandler) Validate(c *gin.Context) {
	validation, err := h.service.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, validation, nil)
}

// Complete godoc
// @Summary Complete an invited vendor registration
// @Tags Registration
// @Accept json
// @Produce json
// @Param token path string true "Registration token"
// @Param payload body dto.CompleteRegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /invitation/complete/{token} [post]
func (h *InvitationHandler) Complete(c *gin.Context) {
	var req dto.CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid registration payload"))
		return
	}
	detail, err := h.service.Complete(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, detail, nil)
}
