package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/pkg/jobs"
)

const sanctionJobType = "sanction-screening"

type sanctionApplicationStore interface {
	GetByID(ctx context.Context, id string) (*models.VendorApplication, error)
	UpdateSanctionStatus(ctx context.Context, id string, status models.SanctionCheckStatus, at time.Time) error
}

// SanctionService runs compliance screening of onboarding applications on a
// background worker queue. The screening itself is a deny-list match; the
// interesting part is that the outcome gates approval no matter how long the
// screening takes.
type SanctionService struct {
	repo     sanctionApplicationStore
	denyList []string
	queue    *jobs.Queue
	logger   *zap.Logger
}

// SanctionConfig configures screening behaviour.
type SanctionConfig struct {
	DenyList   []string
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NewSanctionService constructs the service and its worker queue. Start must
// be called before applications can be screened.
func NewSanctionService(repo sanctionApplicationStore, cfg SanctionConfig, logger *zap.Logger) *SanctionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SanctionService{repo: repo, logger: logger}
	for _, entry := range cfg.DenyList {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			s.denyList = append(s.denyList, entry)
		}
	}
	s.queue = jobs.NewQueue(sanctionJobType, s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the screening workers.
func (s *SanctionService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the screening workers.
func (s *SanctionService) Stop() {
	s.queue.Stop()
}

// Screen queues an application for screening.
func (s *SanctionService) Screen(applicationID string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    sanctionJobType,
		Payload: applicationID,
	})
}

func (s *SanctionService) handle(ctx context.Context, job jobs.Job) error {
	applicationID, ok := job.Payload.(string)
	if !ok || applicationID == "" {
		s.logger.Warn("discarding sanction job with invalid payload", zap.String("jobId", job.ID))
		return nil
	}

	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}

	outcome := models.SanctionCheckPassed
	if s.Matches(app.CompanyName) || s.Matches(app.ContactName) {
		outcome = models.SanctionCheckFailed
	}

	if err := s.repo.UpdateSanctionStatus(ctx, applicationID, outcome, time.Now().UTC()); err != nil {
		return err
	}
	s.logger.Info("sanction screening finished",
		zap.String("applicationId", applicationID),
		zap.String("outcome", string(outcome)))
	return nil
}

// Matches reports whether a name hits the deny list. Matching is a
// case-insensitive substring check in both directions so partial entity names
// are flagged for manual review.
func (s *SanctionService) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for _, entry := range s.denyList {
		if strings.Contains(name, entry) || strings.Contains(entry, name) {
			return true
		}
	}
	return false
}
