package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/repository"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type vendorProviderStub struct {
	vendors map[string]*models.VendorMasterData
}

func (s *vendorProviderStub) GetVendor(_ context.Context, id string) (*models.VendorMasterData, error) {
	if v, ok := s.vendors[id]; ok {
		return v, nil
	}
	return nil, appErrors.ErrNotFound
}

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func acmeVendorProvider() *vendorProviderStub {
	return &vendorProviderStub{vendors: map[string]*models.VendorMasterData{
		"100450": {
			SapVendorID: "100450",
			Name:        "Acme Corp Global",
			Address: models.VendorAddress{
				Street:     "Industriestrasse 45",
				City:       "Frankfurt",
				PostalCode: "60311",
				Country:    "DE",
			},
			Banks: []models.VendorBank{
				{BankKey: "121000248", BankAccount: "*******8888"},
			},
			Email: "accounts@acme-global.example.com",
		},
	}}
}

func vendorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "usr-vendor-1", Role: models.RoleVendor, SapVendorID: "100450"}
}

func approverClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "usr-approver-1", Role: models.RoleApprover}
}

func newChangeRequestService(t *testing.T) (*ChangeRequestService, *auditStub) {
	t.Helper()
	audit := &auditStub{}
	svc := NewChangeRequestService(
		repository.NewMemoryChangeRequestRepository(),
		acmeVendorProvider(),
		repository.NewMemoryOnboardingRepository(),
		audit,
		nil,
		nil,
	)
	return svc, audit
}

func TestChangeRequestServiceSubmitComputesDeltas(t *testing.T) {
	svc, audit := newChangeRequestService(t)

	detail, err := svc.Submit(context.Background(), dto.CreateChangeRequestRequest{
		SapVendorID: "100450",
		Profile: map[string]string{
			"bankAccount": "123456789",
			"city":        "Frankfurt",
		},
		TouchedFields: []string{"bankAccount", "city"},
	}, vendorClaims())
	require.NoError(t, err)

	require.Len(t, detail.Items, 1)
	item := detail.Items[0]
	require.Equal(t, "LFBK", item.TableName)
	require.Equal(t, "BANKN", item.FieldName)
	require.Equal(t, "*******8888", item.OldValue)
	require.Equal(t, "123456789", item.NewValue)
	require.True(t, item.IsSensitive)

	require.Equal(t, models.RequestTypeBankData, detail.RequestType)
	require.Equal(t, models.ChangeRequestStatusNew, detail.Status)
	require.Equal(t, dto.RiskHigh, detail.RiskLevel)
	require.Len(t, audit.logs, 1)
	require.Equal(t, models.AuditActionChangeRequestNew, audit.logs[0].Action)
}

func TestChangeRequestServiceSubmitRefusesNoChanges(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	_, err := svc.Submit(context.Background(), dto.CreateChangeRequestRequest{
		SapVendorID: "100450",
		Profile: map[string]string{
			"city": "Frankfurt",
		},
		TouchedFields: []string{"city"},
	}, vendorClaims())
	require.ErrorIs(t, err, appErrors.ErrNoChanges)
}

func TestChangeRequestServiceSubmitPayloadMode(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	detail, err := svc.Submit(context.Background(), dto.CreateChangeRequestRequest{
		SapVendorID: "100450",
		Payload: &dto.ChangeRequestPayload{Items: []dto.ChangeRequestItemInput{
			{TableName: "LFBK", FieldName: "BANKL", OldValue: "121000248", NewValue: "121000000"},
			{TableName: "LFA1", FieldName: "ORT01", OldValue: "Frankfurt", NewValue: "Berlin"},
		}},
		Attachments: []dto.AttachmentInput{
			{FileName: "letter.pdf", MimeType: "application/pdf", Category: models.AttachmentBankLetter},
		},
	}, vendorClaims())
	require.NoError(t, err)

	require.Len(t, detail.Items, 2)
	// Sensitivity is re-derived server-side even though the input omits it.
	require.True(t, detail.Items[0].IsSensitive)
	require.False(t, detail.Items[1].IsSensitive)
	require.Equal(t, models.RequestTypeBankData, detail.RequestType)
	require.Len(t, detail.Attachments, 1)
}

func TestChangeRequestServiceSubmitForeignVendorForbidden(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	_, err := svc.Submit(context.Background(), dto.CreateChangeRequestRequest{
		SapVendorID: "200999",
		Profile:     map[string]string{"city": "Berlin"},
	}, vendorClaims())
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestChangeRequestServiceVendorListScoped(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	details, err := svc.List(context.Background(), models.ChangeRequestFilter{VendorID: "200999"}, vendorClaims())
	require.NoError(t, err)
	for _, detail := range details {
		require.Equal(t, "100450", detail.VendorID)
	}
}

func TestChangeRequestServiceGetEnforcesOwnership(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	_, err := svc.Get(context.Background(), "cr-003", vendorClaims())
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	detail, err := svc.Get(context.Background(), "cr-003", approverClaims())
	require.NoError(t, err)
	require.Equal(t, "200999", detail.VendorID)
}

func TestChangeRequestServiceDecisionMetric(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewChangeRequestService(
		repository.NewMemoryChangeRequestRepository(),
		acmeVendorProvider(),
		repository.NewMemoryOnboardingRepository(),
		&auditStub{},
		metrics,
		nil,
	)

	_, err := svc.Approve(context.Background(), "cr-002", dto.DecisionRequest{}, approverClaims())
	require.NoError(t, err)
	count := testutil.ToFloat64(metrics.decisionsTotal.WithLabelValues("changerequest", string(models.ChangeRequestStatusApproved)))
	require.Equal(t, float64(1), count)
}

func TestChangeRequestServiceApproveThenRejectConflicts(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	detail, err := svc.Approve(context.Background(), "cr-002", dto.DecisionRequest{Comment: "verified"}, approverClaims())
	require.NoError(t, err)
	require.Equal(t, models.ChangeRequestStatusApproved, detail.Status)
	require.Equal(t, "usr-approver-1", *detail.DecidedBy)
	require.Equal(t, "verified", *detail.Comment)

	_, err = svc.Reject(context.Background(), "cr-002", dto.DecisionRequest{}, approverClaims())
	require.ErrorIs(t, err, appErrors.ErrAlreadyDecided)
}

func TestChangeRequestServiceDecideAppliedRequest(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	_, err := svc.Approve(context.Background(), "cr-001", dto.DecisionRequest{}, approverClaims())
	require.ErrorIs(t, err, appErrors.ErrAlreadyDecided)
}

func TestChangeRequestServiceWorklistAndHistory(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	worklist, err := svc.Worklist(context.Background(), approverClaims())
	require.NoError(t, err)
	require.Len(t, worklist, 2)

	history, err := svc.History(context.Background(), "", approverClaims())
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "cr-001", history[0].ID)
}

func TestChangeRequestServiceStats(t *testing.T) {
	svc, _ := newChangeRequestService(t)

	stats, err := svc.Stats(context.Background(), approverClaims())
	require.NoError(t, err)
	require.Equal(t, 2, stats.PendingChanges)
	require.Equal(t, 1, stats.HighRiskChanges)
	require.Equal(t, 2, stats.PendingOnboarding)
	require.Equal(t, 4, stats.TotalPending)
}
