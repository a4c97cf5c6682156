package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/delta"
	"github.com/procure-core/vendor-mdm-api/internal/dto"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/repository"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type changeRequestStore interface {
	Create(ctx context.Context, request *models.ChangeRequest) error
	GetByID(ctx context.Context, id string) (*models.ChangeRequest, error)
	List(ctx context.Context, filter models.ChangeRequestFilter) ([]models.ChangeRequest, error)
	UpdateDecision(ctx context.Context, params repository.UpdateDecisionParams) error
}

type vendorSnapshotProvider interface {
	GetVendor(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error)
}

type applicationCounter interface {
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.VendorApplication, error)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ChangeRequestService owns the vendor change request workflow from
// submission through approver decision.
type ChangeRequestService struct {
	repo    changeRequestStore
	vendors vendorSnapshotProvider
	apps    applicationCounter
	audit   auditLogger
	metrics *MetricsService
	logger  *zap.Logger
}

// NewChangeRequestService constructs the service.
func NewChangeRequestService(repo changeRequestStore, vendors vendorSnapshotProvider, apps applicationCounter, audit auditLogger, metrics *MetricsService, logger *zap.Logger) *ChangeRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeRequestService{repo: repo, vendors: vendors, apps: apps, audit: audit, metrics: metrics, logger: logger}
}

// Submit validates and stores a new change request. Vendors may submit either
// an edited profile (deltas are computed here) or pre-computed delta items;
// either way sensitivity is resolved from the field catalog, never trusted
// from the client. A submission with no effective changes is refused.
func (s *ChangeRequestService) Submit(ctx context.Context, req dto.CreateChangeRequestRequest, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if strings.TrimSpace(req.SapVendorID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sapVendorId is required")
	}
	if actor.Role == models.RoleVendor && actor.SapVendorID != req.SapVendorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "vendors may only submit changes for their own record")
	}

	var items []models.ChangeRequestItem
	switch {
	case req.Payload != nil && len(req.Payload.Items) > 0:
		items = make([]models.ChangeRequestItem, 0, len(req.Payload.Items))
		for _, in := range req.Payload.Items {
			if in.TableName == "" || in.FieldName == "" {
				return nil, appErrors.Clone(appErrors.ErrValidation, "delta items require tableName and fieldName")
			}
			if in.OldValue == in.NewValue {
				continue
			}
			items = append(items, models.ChangeRequestItem{
				TableName:   in.TableName,
				FieldName:   in.FieldName,
				OldValue:    in.OldValue,
				NewValue:    in.NewValue,
				SubKey1:     in.SubKey1,
				IsSensitive: delta.SensitivePair(in.TableName, in.FieldName),
			})
		}
	case len(req.Profile) > 0:
		vendor, err := s.vendors.GetVendor(ctx, req.SapVendorID)
		if err != nil {
			return nil, err
		}
		items = delta.Compute(vendor.ProfileValues(), req.Profile, req.TouchedFields)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "either payload.items or profile is required")
	}

	if len(items) == 0 {
		return nil, appErrors.ErrNoChanges
	}

	attachments := make([]models.Attachment, 0, len(req.Attachments))
	for _, in := range req.Attachments {
		attachments = append(attachments, models.Attachment{
			FileName: in.FileName,
			MimeType: in.MimeType,
			Category: in.Category,
		})
	}

	requesterID := req.RequesterID
	if requesterID == "" {
		requesterID = actor.UserID
	}
	request := &models.ChangeRequest{
		VendorID:    req.SapVendorID,
		RequesterID: requesterID,
		RequestType: delta.Classify(items),
		Status:      models.ChangeRequestStatusNew,
		Items:       items,
		Attachments: attachments,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create change request")
	}

	s.emitAudit(ctx, actor, &models.AuditLog{
		Action:     models.AuditActionChangeRequestNew,
		Resource:   "changerequest",
		ResourceID: &request.ID,
		NewValues:  marshalItems(items),
	})

	detail := dto.NewChangeRequestDetail(request)
	return &detail, nil
}

// Get loads one request enforcing vendor self-scope.
func (s *ChangeRequestService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load change request")
	}
	if actor.Role == models.RoleVendor && request.VendorID != actor.SapVendorID {
		return nil, appErrors.ErrForbidden
	}
	detail := dto.NewChangeRequestDetail(request)
	return &detail, nil
}

// List returns requests visible to the actor. Vendors only ever see their own
// record's requests regardless of the submitted filter.
func (s *ChangeRequestService) List(ctx context.Context, filter models.ChangeRequestFilter, actor *models.JWTClaims) ([]dto.ChangeRequestDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleVendor {
		filter.VendorID = actor.SapVendorID
	}
	queryStart := time.Now()
	requests, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("changerequest_list", time.Since(queryStart))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list change requests")
	}
	return decorate(requests), nil
}

// Worklist returns every request still awaiting an approver decision.
func (s *ChangeRequestService) Worklist(ctx context.Context, actor *models.JWTClaims) ([]dto.ChangeRequestDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	requests, err := s.repo.List(ctx, models.ChangeRequestFilter{Status: models.WorklistStatuses})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worklist")
	}
	return decorate(requests), nil
}

// History returns decided requests, optionally scoped to one vendor.
func (s *ChangeRequestService) History(ctx context.Context, vendorID string, actor *models.JWTClaims) ([]dto.ChangeRequestDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter := models.ChangeRequestFilter{Status: models.HistoryStatuses, VendorID: vendorID}
	if actor.Role == models.RoleVendor {
		filter.VendorID = actor.SapVendorID
	}
	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}
	return decorate(requests), nil
}

// Approve marks a pending request approved.
func (s *ChangeRequestService) Approve(ctx context.Context, id string, req dto.DecisionRequest, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	return s.decide(ctx, id, models.ChangeRequestStatusApproved, req, actor)
}

// Reject marks a pending request rejected.
func (s *ChangeRequestService) Reject(ctx context.Context, id string, req dto.DecisionRequest, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	return s.decide(ctx, id, models.ChangeRequestStatusRejected, req, actor)
}

func (s *ChangeRequestService) decide(ctx context.Context, id string, status models.ChangeRequestStatus, req dto.DecisionRequest, actor *models.JWTClaims) (*dto.ChangeRequestDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load change request")
	}
	if !request.Status.Decidable() {
		return nil, appErrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	params := repository.UpdateDecisionParams{
		ID:        request.ID,
		Status:    status,
		DecidedBy: actor.UserID,
		Comment:   optionalString(req.Comment),
		DecidedAt: now,
	}
	queryStart := time.Now()
	err = s.repo.UpdateDecision(ctx, params)
	s.metrics.ObserveDBQuery("changerequest_update_decision", time.Since(queryStart))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against another approver.
			return nil, appErrors.ErrAlreadyDecided
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record decision")
	}

	request.Status = status
	request.DecidedBy = &actor.UserID
	request.Comment = params.Comment
	request.UpdatedAt = now
	s.metrics.RecordDecision("changerequest", string(status))

	s.emitAudit(ctx, actor, &models.AuditLog{
		Action:     models.AuditActionChangeRequestDecid,
		Resource:   "changerequest",
		ResourceID: &request.ID,
		NewValues:  []byte(`{"status":"` + string(status) + `"}`),
	})

	detail := dto.NewChangeRequestDetail(request)
	return &detail, nil
}

// Stats summarises the open approval workload for the dashboard header.
func (s *ChangeRequestService) Stats(ctx context.Context, actor *models.JWTClaims) (*dto.WorklistStats, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	requests, err := s.repo.List(ctx, models.ChangeRequestFilter{Status: models.WorklistStatuses, Limit: 200})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worklist")
	}
	stats := &dto.WorklistStats{PendingChanges: len(requests)}
	for i := range requests {
		if requests[i].HighRisk() {
			stats.HighRiskChanges++
		}
	}
	if s.apps != nil {
		apps, err := s.apps.List(ctx, models.ApplicationFilter{Status: []models.ApplicationStatus{models.ApplicationStatusSubmitted}, Limit: 200})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count onboarding applications")
		}
		stats.PendingOnboarding = len(apps)
	}
	stats.TotalPending = stats.PendingChanges + stats.PendingOnboarding
	return stats, nil
}

func (s *ChangeRequestService) emitAudit(ctx context.Context, actor *models.JWTClaims, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	log.UserID = &actor.UserID
	log.IPAddress = "system"
	log.UserAgent = "changerequest-service"
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func decorate(requests []models.ChangeRequest) []dto.ChangeRequestDetail {
	details := make([]dto.ChangeRequestDetail, len(requests))
	for i := range requests {
		details[i] = dto.NewChangeRequestDetail(&requests[i])
	}
	return details
}

func marshalItems(items []models.ChangeRequestItem) []byte {
	data, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return data
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
