package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/repository"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "usr-admin-1", Role: models.RoleAdmin, FullName: "Sam Admin"}
}

func newInvitationFixture(t *testing.T) (*InvitationService, *repository.MemoryInvitationRepository, *screenerStub) {
	t.Helper()
	invitations := repository.NewMemoryInvitationRepository()
	screener := &screenerStub{}
	onboarding := NewOnboardingService(repository.NewMemoryOnboardingRepository(), screener, nil, &auditStub{}, nil, nil)
	svc := NewInvitationService(invitations, onboarding, nil, &auditStub{}, InvitationConfig{
		LinkBaseURL:       "https://portal.example.com",
		DefaultExpiration: 14 * 24 * time.Hour,
	}, nil)
	return svc, invitations, screener
}

func TestInvitationServiceCreateAndValidate(t *testing.T) {
	svc, invitations, _ := newInvitationFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateInvitationRequest{
		VendorLegalName:     "Initech LLC",
		PrimaryContactEmail: "cfo@initech.example.com",
	}, adminClaims())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(created.InvitationLink, "https://portal.example.com/register?token="))

	stored, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationStatusPending, stored.Status)

	validation, err := svc.Validate(context.Background(), stored.Token)
	require.NoError(t, err)
	require.True(t, validation.IsValid)
	require.Equal(t, "Initech LLC", validation.VendorLegalName)
	require.Equal(t, "cfo@initech.example.com", validation.PrimaryContactEmail)
}

func TestInvitationServiceValidateUnknownToken(t *testing.T) {
	svc, _, _ := newInvitationFixture(t)

	validation, err := svc.Validate(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, validation.IsValid)
	require.Equal(t, "invitation not found", validation.ErrorMessage)
}

func TestInvitationServiceValidateExpiredMarksInvitation(t *testing.T) {
	svc, invitations, _ := newInvitationFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateInvitationRequest{
		VendorLegalName:     "Initech LLC",
		PrimaryContactEmail: "cfo@initech.example.com",
	}, adminClaims())
	require.NoError(t, err)

	stored, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	stored.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, invitations.Update(context.Background(), stored))

	validation, err := svc.Validate(context.Background(), stored.Token)
	require.NoError(t, err)
	require.False(t, validation.IsValid)

	expired, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationStatusExpired, expired.Status)
}

func TestInvitationServiceCompleteCreatesApplication(t *testing.T) {
	svc, invitations, screener := newInvitationFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateInvitationRequest{
		VendorLegalName:     "Initech LLC",
		PrimaryContactEmail: "cfo@initech.example.com",
	}, adminClaims())
	require.NoError(t, err)

	stored, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	detail, err := svc.Complete(context.Background(), stored.Token, dto.CompleteRegistrationRequest{
		CompanyName: "Initech LLC",
		TaxID:       "US-1230001",
		ContactName: "Bill Lumbergh",
		Email:       "bill@initech.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusSubmitted, detail.Status)
	require.Equal(t, []string{detail.ID}, screener.screened)

	completed, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationStatusCompleted, completed.Status)
	require.Equal(t, detail.ID, *completed.ApplicationID)

	// The link is single-use.
	_, err = svc.Complete(context.Background(), stored.Token, dto.CompleteRegistrationRequest{
		CompanyName: "Initech LLC",
		TaxID:       "US-1230001",
		ContactName: "Bill Lumbergh",
		Email:       "bill@initech.example.com",
	})
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestInvitationServiceCompleteRejectsEmptyRegistration(t *testing.T) {
	svc, invitations, screener := newInvitationFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateInvitationRequest{
		VendorLegalName:     "Initech LLC",
		PrimaryContactEmail: "cfo@initech.example.com",
	}, adminClaims())
	require.NoError(t, err)

	stored, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), stored.Token, dto.CompleteRegistrationRequest{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Empty(t, screener.screened)

	// The invitation stays usable after a bad submission.
	unchanged, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationStatusPending, unchanged.Status)
}

func TestInvitationServiceCompleteExpired(t *testing.T) {
	svc, invitations, _ := newInvitationFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateInvitationRequest{
		VendorLegalName:     "Initech LLC",
		PrimaryContactEmail: "cfo@initech.example.com",
	}, adminClaims())
	require.NoError(t, err)

	stored, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	stored.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, invitations.Update(context.Background(), stored))

	_, err = svc.Complete(context.Background(), stored.Token, dto.CompleteRegistrationRequest{
		CompanyName: "Initech LLC",
		TaxID:       "US-1230001",
		ContactName: "Bill Lumbergh",
		Email:       "bill@initech.example.com",
	})
	require.ErrorIs(t, err, appErrors.ErrInvitationExpired)
}

func TestInvitationServiceResendOnlyPending(t *testing.T) {
	svc, invitations, _ := newInvitationFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateInvitationRequest{
		VendorLegalName:     "Initech LLC",
		PrimaryContactEmail: "cfo@initech.example.com",
		ExpirationDays:      1,
	}, adminClaims())
	require.NoError(t, err)

	resent, err := svc.Resend(context.Background(), created.ID, adminClaims())
	require.NoError(t, err)
	require.True(t, resent.ExpiresAt.After(created.ExpiresAt))

	require.NoError(t, svc.Revoke(context.Background(), created.ID, adminClaims()))
	_, err = svc.Resend(context.Background(), created.ID, adminClaims())
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	revoked, err := invitations.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationStatusRevoked, revoked.Status)
}
