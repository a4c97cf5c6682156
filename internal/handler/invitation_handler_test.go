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
	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type fakeInvitationSrv struct {
	created    *dto.CreateInvitationResponse
	validation *dto.InvitationValidation
	completed  *dto.ApplicationDetail
	err        error
}

func (f *fakeInvitationSrv) Create(context.Context, dto.CreateInvitationRequest, *models.JWTClaims) (*dto.CreateInvitationResponse, error) {
	return f.created, f.err
}

func (f *fakeInvitationSrv) List(context.Context, models.InvitationFilter) ([]models.Invitation, error) {
	return nil, f.err
}

func (f *fakeInvitationSrv) Resend(context.Context, string, *models.JWTClaims) (*dto.CreateInvitationResponse, error) {
	return f.created, f.err
}

func (f *fakeInvitationSrv) Revoke(context.Context, string, *models.JWTClaims) error {
	return f.err
}

func (f *fakeInvitationSrv) Validate(context.Context, string) (*dto.InvitationValidation, error) {
	return f.validation, f.err
}

func (f *fakeInvitationSrv) Complete(context.Context, string, dto.CompleteRegistrationRequest) (*dto.ApplicationDetail, error) {
	return f.completed, f.err
}

func TestInvitationHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInvitationHandler(&fakeInvitationSrv{
		created: &dto.CreateInvitationResponse{ID: "inv-1", InvitationLink: "https://portal.example.com/register?token=abc"},
	})

	body := `{"vendorLegalName":"Acme Corp","primaryContactEmail":"contact@acme.example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/invitation/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, rec := authedContext(t, req)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "inv-1", envelope.Data["id"])
}

func TestInvitationHandlerValidateInvalidTokenStillOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInvitationHandler(&fakeInvitationSrv{
		validation: &dto.InvitationValidation{IsValid: false, ErrorMessage: "invitation not found"},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/invitation/validate/bogus", nil)
	c.Params = gin.Params{{Key: "token", Value: "bogus"}}

	handler.Validate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Data["isValid"])
}

func TestInvitationHandlerCompleteExpired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInvitationHandler(&fakeInvitationSrv{err: appErrors.ErrInvitationExpired})

	body := `{"companyName":"Acme Corp","taxId":"DE123","contactName":"Jo Doe","email":"jo@acme.example.com"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/invitation/complete/tok-1", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "token", Value: "tok-1"}}

	handler.Complete(c)

	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestInvitationHandlerRevoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInvitationHandler(&fakeInvitationSrv{})

	req := httptest.NewRequest(http.MethodPost, "/invitation/revoke/inv-1", nil)
	c, rec := authedContext(t, req)
	c.Params = gin.Params{{Key: "id", Value: "inv-1"}}

	handler.Revoke(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
