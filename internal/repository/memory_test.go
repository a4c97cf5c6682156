package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

func TestMemoryChangeRequestRepositorySeedsAndWorklist(t *testing.T) {
	repo := NewMemoryChangeRequestRepository()

	worklist, err := repo.List(context.Background(), models.ChangeRequestFilter{Status: models.WorklistStatuses})
	require.NoError(t, err)
	require.Len(t, worklist, 2)
	for _, request := range worklist {
		require.True(t, request.Status.Decidable())
	}

	applied, err := repo.GetByID(context.Background(), "cr-001")
	require.NoError(t, err)
	require.Equal(t, models.ChangeRequestStatusApplied, applied.Status)
}

func TestMemoryChangeRequestRepositoryDecisionGuard(t *testing.T) {
	repo := NewMemoryChangeRequestRepository()
	now := time.Now().UTC()

	err := repo.UpdateDecision(context.Background(), UpdateDecisionParams{
		ID:        "cr-002",
		Status:    models.ChangeRequestStatusApproved,
		DecidedBy: "approver-1",
		DecidedAt: now,
	})
	require.NoError(t, err)

	// A second decision must hit the same guard as the SQL WHERE clause.
	err = repo.UpdateDecision(context.Background(), UpdateDecisionParams{
		ID:        "cr-002",
		Status:    models.ChangeRequestStatusRejected,
		DecidedBy: "approver-2",
		DecidedAt: now,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)

	decided, err := repo.GetByID(context.Background(), "cr-002")
	require.NoError(t, err)
	require.Equal(t, models.ChangeRequestStatusApproved, decided.Status)
	require.Equal(t, "approver-1", *decided.DecidedBy)
}

func TestMemoryChangeRequestRepositoryCloneIsolation(t *testing.T) {
	repo := NewMemoryChangeRequestRepository()

	first, err := repo.GetByID(context.Background(), "cr-002")
	require.NoError(t, err)
	first.Items[0].NewValue = "tampered"

	second, err := repo.GetByID(context.Background(), "cr-002")
	require.NoError(t, err)
	require.Equal(t, "123456789", second.Items[0].NewValue)
}

func TestMemoryOnboardingRepositoryDecisionGuard(t *testing.T) {
	repo := NewMemoryOnboardingRepository()
	now := time.Now().UTC()

	require.NoError(t, repo.UpdateDecision(context.Background(), UpdateApplicationDecisionParams{
		ID:        "app-001",
		Status:    models.ApplicationStatusApproved,
		DecidedBy: "approver-1",
		DecidedAt: now,
	}))

	err := repo.UpdateDecision(context.Background(), UpdateApplicationDecisionParams{
		ID:        "app-001",
		Status:    models.ApplicationStatusRejected,
		DecidedBy: "approver-2",
		DecidedAt: now,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryOnboardingRepositorySanctionStatus(t *testing.T) {
	repo := NewMemoryOnboardingRepository()

	require.NoError(t, repo.UpdateSanctionStatus(context.Background(), "app-002", models.SanctionCheckPassed, time.Now().UTC()))
	app, err := repo.GetByID(context.Background(), "app-002")
	require.NoError(t, err)
	require.Equal(t, models.SanctionCheckPassed, app.SanctionCheckStatus)
	require.Equal(t, models.StageInternalReview, app.Stage())
}

func TestMemoryInvitationRepositoryLifecycle(t *testing.T) {
	repo := NewMemoryInvitationRepository()
	now := time.Now().UTC()

	invitation := &models.Invitation{
		Token:               "tok-123",
		VendorLegalName:     "Initech LLC",
		PrimaryContactEmail: "cfo@initech.example.com",
		Status:              models.InvitationStatusPending,
		InvitedByID:         "admin-1",
		InvitedByName:       "Sam Admin",
		ExpiresAt:           now.Add(14 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), invitation))
	require.NotEmpty(t, invitation.ID)

	byToken, err := repo.GetByToken(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, invitation.ID, byToken.ID)
	require.False(t, byToken.Expired(now))

	byToken.Status = models.InvitationStatusCompleted
	appID := "app-777"
	byToken.ApplicationID = &appID
	require.NoError(t, repo.Update(context.Background(), byToken))

	updated, err := repo.GetByID(context.Background(), invitation.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationStatusCompleted, updated.Status)
	require.Equal(t, "app-777", *updated.ApplicationID)
}

func TestMemoryUserRepositorySeededAccounts(t *testing.T) {
	repo := NewMemoryUserRepository()

	vendor, err := repo.FindByEmail(context.Background(), "vendor@acme-global.example.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleVendor, vendor.Role)
	require.NotNil(t, vendor.SapVendorID)
	require.Equal(t, "100450", *vendor.SapVendorID)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryVendorRepositorySnapshot(t *testing.T) {
	repo := NewMemoryVendorRepository()

	vendor, err := repo.GetBySapID(context.Background(), "100450")
	require.NoError(t, err)
	require.Equal(t, "Acme Corp Global", vendor.Name)
	require.Len(t, vendor.Banks, 1)
	require.Equal(t, "*******8888", vendor.Banks[0].BankAccount)

	values := vendor.ProfileValues()
	require.Equal(t, "Frankfurt", values["city"])
	require.Equal(t, "121000248", values["bankKey"])
}
