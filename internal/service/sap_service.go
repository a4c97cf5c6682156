package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type sapConfigStore interface {
	Get(ctx context.Context) (*models.SapConnectionConfig, error)
	Save(ctx context.Context, cfg *models.SapConnectionConfig) error
}

type gatewayProber interface {
	Ping(ctx context.Context) (*models.ConnectionTestResult, error)
}

type certificateStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// SapService manages the administered SAP connector configuration.
type SapService struct {
	repo      sapConfigStore
	prober    gatewayProber
	certs     certificateStorage
	validator *validator.Validate
	audit     auditLogger
	logger    *zap.Logger
}

// NewSapService constructs the service.
func NewSapService(repo sapConfigStore, prober gatewayProber, certs certificateStorage, validate *validator.Validate, audit auditLogger, logger *zap.Logger) *SapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SapService{repo: repo, prober: prober, certs: certs, validator: validate, audit: audit, logger: logger}
}

// GetConfig returns the connector configuration with the password redacted.
func (s *SapService) GetConfig(ctx context.Context) (*models.SapConnectionConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "connector configuration not set")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load connector configuration")
	}
	redacted := cfg.Redacted()
	return &redacted, nil
}

// UpdateConfig validates and stores the connector configuration. An empty
// password field keeps the stored secret.
func (s *SapService) UpdateConfig(ctx context.Context, cfg models.SapConnectionConfig, actor *models.JWTClaims) (*models.SapConnectionConfig, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid connector configuration")
	}
	switch cfg.AuthenticationType {
	case models.SapAuthBasic, models.SapAuthSNC:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "authenticationType must be BasicAuth or SNC")
	}
	if cfg.AuthenticationType == models.SapAuthSNC && cfg.SncLibraryPath == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sncLibraryPath is required for SNC authentication")
	}

	if err := s.repo.Save(ctx, &cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save connector configuration")
	}

	if s.audit != nil {
		log := &models.AuditLog{
			UserID:    &actor.UserID,
			Action:    models.AuditActionSapConfigUpdate,
			Resource:  "sap-config",
			NewValues: []byte(fmt.Sprintf(`{"hostname":%q,"client":%q}`, cfg.Hostname, cfg.Client)),
			IPAddress: "system",
			UserAgent: "sap-service",
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to persist audit log", zap.Error(err))
		}
	}

	redacted := cfg.Redacted()
	return &redacted, nil
}

// TestConnection probes connectivity with the stored configuration. When the
// config forces mock connections the probe succeeds without touching the
// gateway.
func (s *SapService) TestConnection(ctx context.Context) (*models.ConnectionTestResult, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load connector configuration")
	}
	if cfg != nil && cfg.UseMockConnection {
		return &models.ConnectionTestResult{
			Success: true,
			Message: "mock connection configured, no live probe performed",
		}, nil
	}
	if s.prober == nil {
		return &models.ConnectionTestResult{Success: false, Message: "no gateway configured"}, nil
	}
	return s.prober.Ping(ctx)
}

// UploadCertificate stores an SNC certificate file and returns its path.
func (s *SapService) UploadCertificate(ctx context.Context, filename string, r io.Reader) (string, error) {
	if s.certs == nil {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "certificate storage not configured")
	}
	path, err := s.certs.SaveStream(filename, r)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store certificate")
	}
	s.logger.Info("snc certificate stored", zap.String("path", path))
	return path, nil
}
