package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/service"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
	"github.com/procure-core/vendor-mdm-api/pkg/response"
)

type changeRequestService interface {
	Submit(ctx context.Context, req dto.CreateChangeRequestRequest, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error)
	Get(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error)
	List(ctx context.Context, filter models.ChangeRequestFilter, actor *models.JWTClaims) ([]dto.ChangeRequestDetail, error)
	Worklist(ctx context.Context, actor *models.JWTClaims) ([]dto.ChangeRequestDetail, error)
	History(ctx context.Context, vendorID string, actor *models.JWTClaims) ([]dto.ChangeRequestDetail, error)
	Approve(ctx context.Context, id string, req dto.DecisionRequest, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error)
	Reject(ctx context.Context, id string, req dto.DecisionRequest, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error)
	Stats(ctx context.Context, actor *models.JWTClaims) (*dto.WorklistStats, error)
}

type historyExporter interface {
	History(ctx context.Context, vendorID string, format service.ExportFormat, actor *models.JWTClaims) (*service.ExportResult, error)
}

// ChangeRequestHandler exposes REST endpoints for the change request workflow.
type ChangeRequestHandler struct {
	service  changeRequestService
	exporter historyExporter
}

// NewChangeRequestHandler constructs the handler.
func NewChangeRequestHandler(svc changeRequestService, exporter historyExporter) *ChangeRequestHandler {
	return &ChangeRequestHandler{service: svc, exporter: exporter}
}

// Create godoc
// @Summary Submit a change request
// @Tags ChangeRequests
// @Accept json
// @Produce json
// @Param payload body dto.CreateChangeRequestRequest true "Change request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /changerequest [post]
func (h *ChangeRequestHandler) Create(c *gin.Context) {
	var req dto.CreateChangeRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid change request payload"))
		return
	}
	detail, err := h.service.Submit(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, detail, nil)
}

// List godoc
// @Summary List change requests
// @Tags ChangeRequests
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param vendorId query string false "SAP vendor number"
// @Param type query string false "Request type"
// @Success 200 {object} response.Envelope
// @Router /changerequest [get]
func (h *ChangeRequestHandler) List(c *gin.Context) {
	filter := models.ChangeRequestFilter{
		VendorID: strings.TrimSpace(c.Query("vendorId")),
	}
	if rawType := c.Query("type"); rawType != "" {
		filter.RequestType = models.RequestType(strings.ToUpper(rawType))
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		for _, part := range strings.Split(rawStatus, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			filter.Status = append(filter.Status, models.ChangeRequestStatus(part))
		}
	}
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if limit, err := strconv.Atoi(rawLimit); err == nil {
			filter.Limit = limit
		}
	}
	if rawOffset := c.Query("offset"); rawOffset != "" {
		if offset, err := strconv.Atoi(rawOffset); err == nil {
			filter.Offset = offset
		}
	}

	details, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ListByVendor godoc
// @Summary List a vendor's own change requests
// @Tags ChangeRequests
// @Produce json
// @Param vendorId path string true "SAP vendor number"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /changerequest/vendor/{vendorId} [get]
func (h *ChangeRequestHandler) ListByVendor(c *gin.Context) {
	filter := models.ChangeRequestFilter{VendorID: c.Param("vendorId")}
	details, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Worklist godoc
// @Summary List change requests awaiting decision
// @Tags ChangeRequests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /changerequest/worklist [get]
func (h *ChangeRequestHandler) Worklist(c *gin.Context) {
	details, err := h.service.Worklist(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// History godoc
// @Summary List decided change requests
// @Tags ChangeRequests
// @Produce json
// @Param vendorId query string false "SAP vendor number"
// @Success 200 {object} response.Envelope
// @Router /changerequest/history [get]
func (h *ChangeRequestHandler) History(c *gin.Context) {
	details, err := h.service.History(c.Request.Context(), strings.TrimSpace(c.Query("vendorId")), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ExportHistory godoc
// @Summary Export decided change requests as CSV or PDF
// @Tags ChangeRequests
// @Produce octet-stream
// @Param vendorId query string false "SAP vendor number"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Router /changerequest/history/export [get]
func (h *ChangeRequestHandler) ExportHistory(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.History(c.Request.Context(), strings.TrimSpace(c.Query("vendorId")), format, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Stats godoc
// @Summary Worklist summary counters
// @Tags ChangeRequests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /changerequest/stats [get]
func (h *ChangeRequestHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Get godoc
// @Summary Get change request detail
// @Tags ChangeRequests
// @Produce json
// @Param id path string true "Change request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /changerequest/{id} [get]
func (h *ChangeRequestHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Approve godoc
// @Summary Approve a change request
// @Tags ChangeRequests
// @Accept json
// @Produce json
// @Param id path string true "Change request ID"
// @Param payload body dto.DecisionRequest false "Optional comment"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /changerequest/{id}/approve [post]
func (h *ChangeRequestHandler) Approve(c *gin.Context) {
	var req dto.DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
			return
		}
	}
	detail, err := h.service.Approve(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Reject godoc
// @Summary Reject a change request
// @Tags ChangeRequests
// @Accept json
// @Produce json
// @Param id path string true "Change request ID"
// @Param payload body dto.DecisionRequest false "Optional comment"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /changerequest/{id}/reject [post]
func (h *ChangeRequestHandler) Reject(c *gin.Context) {
	var req dto.DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
			return
		}
	}
	detail, err := h.service.Reject(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
