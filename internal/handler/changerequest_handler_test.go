package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/middleware"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/service"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

type fakeChangeRequestSrv struct {
	detail     *dto.ChangeRequestDetail
	list       []dto.ChangeRequestDetail
	stats      *dto.WorklistStats
	err        error
	lastFilter models.ChangeRequestFilter
}

func (f *fakeChangeRequestSrv) Submit(context.Context, dto.CreateChangeRequestRequest, *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	return f.detail, f.err
}

func (f *fakeChangeRequestSrv) Get(context.Context, string, *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	return f.detail, f.err
}

func (f *fakeChangeRequestSrv) List(_ context.Context, filter models.ChangeRequestFilter, _ *models.JWTClaims) ([]dto.ChangeRequestDetail, error) {
	f.lastFilter = filter
	return f.list, f.err
}

func (f *fakeChangeRequestSrv) Worklist(context.Context, *models.JWTClaims) ([]dto.ChangeRequestDetail, error) {
	return f.list, f.err
}

func (f *fakeChangeRequestSrv) History(context.Context, string, *models.JWTClaims) ([]dto.ChangeRequestDetail, error) {
	return f.list, f.err
}

func (f *fakeChangeRequestSrv) Approve(context.Context, string, dto.DecisionRequest, *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	return f.detail, f.err
}

func (f *fakeChangeRequestSrv) Reject(context.Context, string, dto.DecisionRequest, *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	return f.detail, f.err
}

func (f *fakeChangeRequestSrv) Stats(context.Context, *models.JWTClaims) (*dto.WorklistStats, error) {
	return f.stats, f.err
}

type fakeExporter struct {
	result *service.ExportResult
	err    error
}

func (f *fakeExporter) History(context.Context, string, service.ExportFormat, *models.JWTClaims) (*service.ExportResult, error) {
	return f.result, f.err
}

func sampleDetail() *dto.ChangeRequestDetail {
	return &dto.ChangeRequestDetail{
		ChangeRequest: &models.ChangeRequest{
			ID:          "cr-100",
			VendorID:    "100450",
			Status:      models.ChangeRequestStatusNew,
			RequestType: models.RequestTypeBankData,
		},
	}
}

func authedContext(t *testing.T, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID: "usr-approver-1",
		Role:   models.RoleApprover,
		Email:  "approver@procure.example.com",
	})
	return c, rec
}

func TestChangeRequestHandlerCreateRejectsBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChangeRequestHandler(&fakeChangeRequestSrv{}, &fakeExporter{})

	req := httptest.NewRequest(http.MethodPost, "/changerequest", strings.NewReader("{not json"))
	c, rec := authedContext(t, req)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeRequestHandlerCreateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChangeRequestHandler(&fakeChangeRequestSrv{detail: sampleDetail()}, &fakeExporter{})

	body := `{"sapVendorId":"100450","profile":{"companyName":"Acme Corp"}}`
	req := httptest.NewRequest(http.MethodPost, "/changerequest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := authedContext(t, req)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "cr-100", envelope.Data["id"])
}

func TestChangeRequestHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeChangeRequestSrv{}
	handler := NewChangeRequestHandler(srv, &fakeExporter{})

	req := httptest.NewRequest(http.MethodGet, "/changerequest?status=new,in_review&vendorId=100450&type=bank_data&limit=10", nil)
	c, rec := authedContext(t, req)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.ChangeRequestStatus{models.ChangeRequestStatusNew, models.ChangeRequestStatusInReview}, srv.lastFilter.Status)
	assert.Equal(t, "100450", srv.lastFilter.VendorID)
	assert.Equal(t, models.RequestTypeBankData, srv.lastFilter.RequestType)
	assert.Equal(t, 10, srv.lastFilter.Limit)
}

func TestChangeRequestHandlerApproveConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChangeRequestHandler(&fakeChangeRequestSrv{err: appErrors.ErrAlreadyDecided}, &fakeExporter{})

	req := httptest.NewRequest(http.MethodPost, "/changerequest/cr-100/approve", nil)
	c, rec := authedContext(t, req)
	c.Params = gin.Params{{Key: "id", Value: "cr-100"}}

	handler.Approve(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChangeRequestHandlerExportHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChangeRequestHandler(&fakeChangeRequestSrv{}, &fakeExporter{
		result: &service.ExportResult{
			FileName:    "change-history-20250101-120000.csv",
			ContentType: "text/csv",
			Data:        []byte("Request ID,Vendor\n"),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/changerequest/history/export?format=csv", nil)
	c, rec := authedContext(t, req)

	handler.ExportHistory(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "change-history-")
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestChangeRequestHandlerExportRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChangeRequestHandler(&fakeChangeRequestSrv{}, &fakeExporter{})

	req := httptest.NewRequest(http.MethodGet, "/changerequest/history/export?format=xlsx", nil)
	c, rec := authedContext(t, req)

	handler.ExportHistory(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
