package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type invitationStore interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	List(ctx context.Context, filter models.InvitationFilter) ([]models.Invitation, error)
	Update(ctx context.Context, invitation *models.Invitation) error
}

type applicationCreator interface {
	Submit(ctx context.Context, req dto.SubmitApplicationRequest) (*dto.ApplicationDetail, error)
}

// InvitationConfig configures link generation.
type InvitationConfig struct {
	LinkBaseURL       string
	DefaultExpiration time.Duration
}

// InvitationService manages admin-issued registration links for prospective
// vendors.
type InvitationService struct {
	repo       invitationStore
	onboarding applicationCreator
	validator  *validator.Validate
	audit      auditLogger
	config     InvitationConfig
	logger     *zap.Logger
}

// NewInvitationService constructs the service.
func NewInvitationService(repo invitationStore, onboarding applicationCreator, validate *validator.Validate, audit auditLogger, config InvitationConfig, logger *zap.Logger) *InvitationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.DefaultExpiration <= 0 {
		config.DefaultExpiration = 14 * 24 * time.Hour
	}
	return &InvitationService{repo: repo, onboarding: onboarding, validator: validate, audit: audit, config: config, logger: logger}
}

// Create issues a new registration link.
func (s *InvitationService) Create(ctx context.Context, req dto.CreateInvitationRequest, actor *models.JWTClaims) (*dto.CreateInvitationResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(req.VendorLegalName) == "" || strings.TrimSpace(req.PrimaryContactEmail) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "vendorLegalName and primaryContactEmail are required")
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate invitation token")
	}

	expiration := s.config.DefaultExpiration
	if req.ExpirationDays > 0 {
		expiration = time.Duration(req.ExpirationDays) * 24 * time.Hour
	}

	invitation := &models.Invitation{
		Token:               token,
		VendorLegalName:     strings.TrimSpace(req.VendorLegalName),
		PrimaryContactEmail: strings.TrimSpace(req.PrimaryContactEmail),
		Status:              models.InvitationStatusPending,
		Notes:               optionalString(req.Notes),
		InvitedByID:         actor.UserID,
		InvitedByName:       actor.FullName,
		ExpiresAt:           time.Now().UTC().Add(expiration),
	}
	if err := s.repo.Create(ctx, invitation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create invitation")
	}

	s.emitAudit(ctx, actor, models.AuditActionInvitationCreate, invitation.ID)

	return &dto.CreateInvitationResponse{
		ID:             invitation.ID,
		InvitationLink: s.link(token),
		ExpiresAt:      invitation.ExpiresAt,
	}, nil
}

// List returns invitations, optionally filtered by status.
func (s *InvitationService) List(ctx context.Context, filter models.InvitationFilter) ([]models.Invitation, error) {
	invitations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invitations")
	}
	return invitations, nil
}

// Resend extends a pending invitation's deadline and re-dispatches the link.
// Only pending invitations can be resent.
func (s *InvitationService) Resend(ctx context.Context, id string, actor *models.JWTClaims) (*dto.CreateInvitationResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	invitation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invitation")
	}
	if invitation.Status != models.InvitationStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot resend a %s invitation", strings.ToLower(string(invitation.Status))))
	}

	invitation.ExpiresAt = time.Now().UTC().Add(s.config.DefaultExpiration)
	if err := s.repo.Update(ctx, invitation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update invitation")
	}

	s.logger.Info("invitation resent",
		zap.String("invitationId", invitation.ID),
		zap.String("email", invitation.PrimaryContactEmail))
	s.emitAudit(ctx, actor, models.AuditActionInvitationResend, invitation.ID)

	return &dto.CreateInvitationResponse{
		ID:             invitation.ID,
		InvitationLink: s.link(invitation.Token),
		ExpiresAt:      invitation.ExpiresAt,
	}, nil
}

// Revoke invalidates a pending invitation.
func (s *InvitationService) Revoke(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	invitation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invitation")
	}
	if invitation.Status != models.InvitationStatusPending {
		return appErrors.Clone(appErrors.ErrConflict, "only pending invitations can be revoked")
	}
	invitation.Status = models.InvitationStatusRevoked
	if err := s.repo.Update(ctx, invitation); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update invitation")
	}
	return nil
}

// Validate checks a registration token and pre-fills the registration form.
// Validation failures are reported in the result body, not as errors, so the
// registration page can render them.
func (s *InvitationService) Validate(ctx context.Context, token string) (*dto.InvitationValidation, error) {
	invitation, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.InvitationValidation{IsValid: false, ErrorMessage: "invitation not found"}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invitation")
	}

	now := time.Now().UTC()
	if invitation.Expired(now) {
		if invitation.Status == models.InvitationStatusPending {
			invitation.Status = models.InvitationStatusExpired
			if err := s.repo.Update(ctx, invitation); err != nil {
				s.logger.Warn("failed to mark invitation expired", zap.Error(err))
			}
		}
		return &dto.InvitationValidation{IsValid: false, ErrorMessage: "invitation link has expired"}, nil
	}
	if invitation.Status != models.InvitationStatusPending && invitation.Status != models.InvitationStatusAccepted {
		return &dto.InvitationValidation{IsValid: false, ErrorMessage: "invitation is no longer valid"}, nil
	}

	expiresAt := invitation.ExpiresAt
	return &dto.InvitationValidation{
		IsValid:             true,
		VendorLegalName:     invitation.VendorLegalName,
		PrimaryContactEmail: invitation.PrimaryContactEmail,
		ExpiresAt:           &expiresAt,
	}, nil
}

// Complete finishes an invited vendor's registration: the invitation becomes
// Completed and an onboarding application is created and queued for
// screening.
func (s *InvitationService) Complete(ctx context.Context, token string, req dto.CompleteRegistrationRequest) (*dto.ApplicationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	invitation, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invitation")
	}
	if invitation.Expired(time.Now().UTC()) {
		return nil, appErrors.ErrInvitationExpired
	}
	if invitation.Status != models.InvitationStatusPending && invitation.Status != models.InvitationStatusAccepted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "invitation has already been used")
	}

	detail, err := s.onboarding.Submit(ctx, dto.SubmitApplicationRequest{
		CompanyName: req.CompanyName,
		TaxID:       req.TaxID,
		ContactName: req.ContactName,
		Email:       req.Email,
	})
	if err != nil {
		return nil, err
	}

	invitation.Status = models.InvitationStatusCompleted
	invitation.ApplicationID = &detail.ID
	if err := s.repo.Update(ctx, invitation); err != nil {
		s.logger.Warn("failed to link invitation to application",
			zap.String("invitationId", invitation.ID), zap.Error(err))
	}
	return detail, nil
}

func (s *InvitationService) link(token string) string {
	base := strings.TrimRight(s.config.LinkBaseURL, "/")
	return fmt.Sprintf("%s/register?token=%s", base, token)
}

func (s *InvitationService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, invitationID string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     action,
		Resource:   "invitation",
		ResourceID: &invitationID,
		IPAddress:  "system",
		UserAgent:  "invitation-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func generateInvitationToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
