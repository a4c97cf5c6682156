package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type fakeOnboardingSrv struct {
	detail *dto.ApplicationDetail
	list   []dto.ApplicationDetail
	err    error
}

func (f *fakeOnboardingSrv) Submit(context.Context, dto.SubmitApplicationRequest) (*dto.ApplicationDetail, error) {
	return f.detail, f.err
}

func (f *fakeOnboardingSrv) Get(context.Context, string) (*dto.ApplicationDetail, error) {
	return f.detail, f.err
}

func (f *fakeOnboardingSrv) List(context.Context, models.ApplicationFilter) ([]dto.ApplicationDetail, error) {
	return f.list, f.err
}

func (f *fakeOnboardingSrv) Pending(context.Context) ([]dto.ApplicationDetail, error) {
	return f.list, f.err
}

func (f *fakeOnboardingSrv) Approve(context.Context, string, *models.JWTClaims) (*dto.ApplicationDetail, error) {
	return f.detail, f.err
}

func (f *fakeOnboardingSrv) Reject(context.Context, string, *models.JWTClaims) (*dto.ApplicationDetail, error) {
	return f.detail, f.err
}

func sampleApplication() *dto.ApplicationDetail {
	return &dto.ApplicationDetail{
		VendorApplication: &models.VendorApplication{
			ID:          "app-100",
			CompanyName: "Stark Industries",
			Status:      models.ApplicationStatusSubmitted,
		},
	}
}

func TestOnboardingHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOnboardingHandler(&fakeOnboardingSrv{detail: sampleApplication()})

	body := `{"companyName":"Stark Industries","taxId":"US-77-1234567","contactName":"Tony Stark","email":"t.stark@stark.example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/onboarding", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := authedContext(t, req)

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestOnboardingHandlerSubmitRejectsBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOnboardingHandler(&fakeOnboardingSrv{})

	req := httptest.NewRequest(http.MethodPost, "/onboarding", strings.NewReader("{"))
	c, rec := authedContext(t, req)

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnboardingHandlerApproveSanctionBlocked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOnboardingHandler(&fakeOnboardingSrv{err: appErrors.ErrSanctionBlocked})

	req := httptest.NewRequest(http.MethodPost, "/onboarding/app-100/approve", nil)
	c, rec := authedContext(t, req)
	c.Params = gin.Params{{Key: "id", Value: "app-100"}}

	handler.Approve(c)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestOnboardingHandlerPending(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewOnboardingHandler(&fakeOnboardingSrv{list: []dto.ApplicationDetail{*sampleApplication()}})

	req := httptest.NewRequest(http.MethodGet, "/onboarding/pending", nil)
	c, rec := authedContext(t, req)

	handler.Pending(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stark Industries")
}
