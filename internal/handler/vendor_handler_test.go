package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type fakeVendorSrv struct {
	vendor *models.VendorMasterData
	err    error
	lastID string
}

func (f *fakeVendorSrv) Get(_ context.Context, sapVendorID string, _ *models.JWTClaims) (*models.VendorMasterData, error) {
	f.lastID = sapVendorID
	return f.vendor, f.err
}

func TestVendorHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeVendorSrv{vendor: &models.VendorMasterData{SapVendorID: "100450", Name: "Acme Corp Global"}}
	handler := NewVendorHandler(srv)

	req := httptest.NewRequest(http.MethodGet, "/vendors/100450", nil)
	c, rec := authedContext(t, req)
	c.Params = gin.Params{{Key: "vendorId", Value: "100450"}}

	handler.Get(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "100450", srv.lastID)
	assert.Contains(t, rec.Body.String(), "Acme Corp Global")
}

func TestVendorHandlerGetForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewVendorHandler(&fakeVendorSrv{err: appErrors.ErrForbidden})

	req := httptest.NewRequest(http.MethodGet, "/vendors/200999", nil)
	c, rec := authedContext(t, req)
	c.Params = gin.Params{{Key: "vendorId", Value: "200999"}}

	handler.Get(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
