package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
	"github.com/procure-core/vendor-mdm-api/pkg/response"
)

type sapAdminService interface {
	GetConfig(ctx context.Context) (*models.SapConnectionConfig, error)
	UpdateConfig(ctx context.Context, cfg models.SapConnectionConfig, actor *models.JWTClaims) (*models.SapConnectionConfig, error)
	TestConnection(ctx context.Context) (*models.ConnectionTestResult, error)
	UploadCertificate(ctx context.Context, filename string, r io.Reader) (string, error)
}

// SapAdminHandler manages the ERP gateway connection settings.
type SapAdminHandler struct {
	service sapAdminService
}

// NewSapAdminHandler constructs the handler.
func NewSapAdminHandler(service sapAdminService) *SapAdminHandler {
	return &SapAdminHandler{service: service}
}

// GetConfig godoc
// @Summary Get gateway connection settings
// @Tags SapAdmin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/sap/configuration [get]
func (h *SapAdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.service.GetConfig(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// UpdateConfig godoc
// @Summary Update gateway connection settings
// @Tags SapAdmin
// @Accept json
// @Produce json
// @Param payload body models.SapConnectionConfig true "Connection settings"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sap/configuration [put]
func (h *SapAdminHandler) UpdateConfig(c *gin.Context) {
	var cfg models.SapConnectionConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid connection settings payload"))
		return
	}
	saved, err := h.service.UpdateConfig(c.Request.Context(), cfg, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// TestConnection godoc
// @Summary Probe the configured gateway
// @Tags SapAdmin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/sap/test-connection [post]
func (h *SapAdminHandler) TestConnection(c *gin.Context) {
	result, err := h.service.TestConnection(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// UploadCertificate godoc
// @Summary Upload an SNC certificate
// @Tags SapAdmin
// @Accept multipart/form-data
// @Produce json
// @Param certificate formData file true "Certificate file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/sap/certificate [post]
func (h *SapAdminHandler) UploadCertificate(c *gin.Context) {
	fileHeader, err := c.FormFile("certificate")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "certificate file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "UPLOAD_FAILED", http.StatusInternalServerError, "failed to read uploaded certificate"))
		return
	}
	defer file.Close()

	path, err := h.service.UploadCertificate(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"path": path}, nil)
}
