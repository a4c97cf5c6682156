package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/repository"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type onboardingStore interface {
	Create(ctx context.Context, app *models.VendorApplication) error
	GetByID(ctx context.Context, id string) (*models.VendorApplication, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.VendorApplication, error)
	UpdateDecision(ctx context.Context, params repository.UpdateApplicationDecisionParams) error
	UpdateSanctionStatus(ctx context.Context, id string, status models.SanctionCheckStatus, at time.Time) error
}

type sanctionScreener interface {
	Screen(applicationID string) error
}

// OnboardingService manages prospective vendor applications from submission
// through sanction screening to the approver decision.
type OnboardingService struct {
	repo      onboardingStore
	screener  sanctionScreener
	validator *validator.Validate
	audit     auditLogger
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewOnboardingService constructs the service.
func NewOnboardingService(repo onboardingStore, screener sanctionScreener, validate *validator.Validate, audit auditLogger, metrics *MetricsService, logger *zap.Logger) *OnboardingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &OnboardingService{repo: repo, screener: screener, validator: validate, audit: audit, metrics: metrics, logger: logger}
}

// Submit stores a new application and queues it for sanction screening.
func (s *OnboardingService) Submit(ctx context.Context, req dto.SubmitApplicationRequest) (*dto.ApplicationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	app := &models.VendorApplication{
		CompanyName:         req.CompanyName,
		TaxID:               req.TaxID,
		ContactName:         req.ContactName,
		Email:               req.Email,
		Status:              models.ApplicationStatusSubmitted,
		SanctionCheckStatus: models.SanctionCheckPending,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}
	if s.screener != nil {
		if err := s.screener.Screen(app.ID); err != nil {
			s.logger.Warn("failed to queue sanction screening",
				zap.String("applicationId", app.ID), zap.Error(err))
		}
	}
	detail := dto.NewApplicationDetail(app)
	return &detail, nil
}

// Get returns an application with its derived workflow stage.
func (s *OnboardingService) Get(ctx context.Context, id string) (*dto.ApplicationDetail, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	detail := dto.NewApplicationDetail(app)
	return &detail, nil
}

// List returns applications matching the filter, newest first.
func (s *OnboardingService) List(ctx context.Context, filter models.ApplicationFilter) ([]dto.ApplicationDetail, error) {
	apps, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	details := make([]dto.ApplicationDetail, len(apps))
	for i := range apps {
		details[i] = dto.NewApplicationDetail(&apps[i])
	}
	return details, nil
}

// Pending returns the applications awaiting an approver decision.
func (s *OnboardingService) Pending(ctx context.Context) ([]dto.ApplicationDetail, error) {
	return s.List(ctx, models.ApplicationFilter{Status: []models.ApplicationStatus{models.ApplicationStatusSubmitted}})
}

// Approve accepts an application. Approval is gated on a passed sanction
// check regardless of what the client shows.
func (s *OnboardingService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ApplicationDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.Status != models.ApplicationStatusSubmitted {
		return nil, appErrors.ErrAlreadyDecided
	}
	if app.SanctionCheckStatus != models.SanctionCheckPassed {
		return nil, appErrors.ErrSanctionBlocked
	}
	return s.finishDecision(ctx, app, models.ApplicationStatusApproved, actor)
}

// Reject declines an application. Rejection is allowed in any sanction state.
func (s *OnboardingService) Reject(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ApplicationDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if app.Status != models.ApplicationStatusSubmitted {
		return nil, appErrors.ErrAlreadyDecided
	}
	return s.finishDecision(ctx, app, models.ApplicationStatusRejected, actor)
}

func (s *OnboardingService) finishDecision(ctx context.Context, app *models.VendorApplication, status models.ApplicationStatus, actor *models.JWTClaims) (*dto.ApplicationDetail, error) {
	now := time.Now().UTC()
	err := s.repo.UpdateDecision(ctx, repository.UpdateApplicationDecisionParams{
		ID:        app.ID,
		Status:    status,
		DecidedBy: actor.UserID,
		DecidedAt: now,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyDecided
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}
	app.Status = status
	app.DecidedBy = &actor.UserID
	app.UpdatedAt = now
	s.metrics.RecordDecision("onboarding", string(status))

	if s.audit != nil {
		log := &models.AuditLog{
			UserID:     &actor.UserID,
			Action:     models.AuditActionOnboardingDecide,
			Resource:   "onboarding",
			ResourceID: &app.ID,
			NewValues:  []byte(`{"status":"` + string(status) + `"}`),
			IPAddress:  "system",
			UserAgent:  "onboarding-service",
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to persist audit log", zap.Error(err))
		}
	}

	detail := dto.NewApplicationDetail(app)
	return &detail, nil
}
