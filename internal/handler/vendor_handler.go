package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/pkg/response"
)

type vendorService interface {
	Get(ctx context.Context, sapVendorID string, actor *models.JWTClaims) (*models.VendorMasterData, error)
}

// VendorHandler serves vendor master data snapshots.
type VendorHandler struct {
	service vendorService
}

// NewVendorHandler constructs the handler.
func NewVendorHandler(service vendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

// Get godoc
// @Summary Get vendor master data
// @Tags Vendors
// @Produce json
// @Param vendorId path string true "SAP vendor number"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /vendor/{vendorId} [get]
func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.service.Get(c.Request.Context(), c.Param("vendorId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vendor, nil)
}
