package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// MemoryChangeRequestRepository is the in-memory fallback store used when the
// database is unreachable or mock mode is forced. State resets on restart and
// is guarded by a mutex since the server handles requests concurrently.
type MemoryChangeRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*models.ChangeRequest
}

// NewMemoryChangeRequestRepository returns a store seeded with the demo
// requests the portal ships with.
func NewMemoryChangeRequestRepository() *MemoryChangeRequestRepository {
	repo := &MemoryChangeRequestRepository{requests: make(map[string]*models.ChangeRequest)}
	for _, request := range seedChangeRequests() {
		repo.requests[request.ID] = request
	}
	return repo
}

func seedChangeRequests() []*models.ChangeRequest {
	now := time.Now().UTC()
	return []*models.ChangeRequest{
		{
			ID:          "cr-001",
			VendorID:    "100450",
			RequesterID: "usr-vendor-1",
			RequestType: models.RequestTypeAddress,
			Status:      models.ChangeRequestStatusApplied,
			CreatedAt:   now.Add(-30 * 24 * time.Hour),
			UpdatedAt:   now.Add(-29 * 24 * time.Hour),
			Items:       []models.ChangeRequestItem{},
			Attachments: []models.Attachment{},
		},
		{
			ID:          "cr-002",
			VendorID:    "100450",
			RequesterID: "usr-vendor-1",
			RequestType: models.RequestTypeBankData,
			Status:      models.ChangeRequestStatusInReview,
			CreatedAt:   now.Add(-6 * 24 * time.Hour),
			UpdatedAt:   now.Add(-6 * 24 * time.Hour),
			Items: []models.ChangeRequestItem{
				{
					ID:          "item-1",
					RequestID:   "cr-002",
					TableName:   "LFBK",
					FieldName:   "BANKN",
					OldValue:    "*******8888",
					NewValue:    "123456789",
					IsSensitive: true,
				},
			},
			Attachments: []models.Attachment{
				{
					ID:         "att-1",
					RequestID:  "cr-002",
					FileName:   "bank_confirmation.pdf",
					MimeType:   "application/pdf",
					Category:   models.AttachmentBankLetter,
					UploadedAt: now.Add(-6 * 24 * time.Hour),
				},
			},
		},
		{
			ID:          "cr-003",
			VendorID:    "200999",
			RequesterID: "usr-vendor-2",
			RequestType: models.RequestTypeGeneral,
			Status:      models.ChangeRequestStatusNew,
			CreatedAt:   now,
			UpdatedAt:   now,
			Items: []models.ChangeRequestItem{
				{
					ID:        "item-2",
					RequestID: "cr-003",
					TableName: "LFA1",
					FieldName: "NAME1",
					OldValue:  "Globex Corp",
					NewValue:  "Globex Corporation Int.",
				},
			},
			Attachments: []models.Attachment{},
		},
	}
}

// Create stores a new request.
func (r *MemoryChangeRequestRepository) Create(ctx context.Context, request *models.ChangeRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.ChangeRequestStatusNew
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = request.CreatedAt
	for i := range request.Items {
		if request.Items[i].ID == "" {
			request.Items[i].ID = uuid.NewString()
		}
		request.Items[i].RequestID = request.ID
	}
	for i := range request.Attachments {
		if request.Attachments[i].ID == "" {
			request.Attachments[i].ID = uuid.NewString()
		}
		request.Attachments[i].RequestID = request.ID
		if request.Attachments[i].UploadedAt.IsZero() {
			request.Attachments[i].UploadedAt = now
		}
	}

	clone := cloneChangeRequest(request)
	r.requests[request.ID] = clone
	return nil
}

// GetByID returns a copy of the stored request.
func (r *MemoryChangeRequestRepository) GetByID(ctx context.Context, id string) (*models.ChangeRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cloneChangeRequest(request), nil
}

// List returns matching requests, newest first.
func (r *MemoryChangeRequestRepository) List(ctx context.Context, filter models.ChangeRequestFilter) ([]models.ChangeRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.ChangeRequest, 0, len(r.requests))
	for _, request := range r.requests {
		if !matchChangeRequest(request, filter) {
			continue
		}
		result = append(result, *cloneChangeRequest(request))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return applyWindow(result, filter.Limit, filter.Offset), nil
}

// UpdateDecision applies an approver decision with the same transition guard
// as the Postgres implementation.
func (r *MemoryChangeRequestRepository) UpdateDecision(ctx context.Context, params UpdateDecisionParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[params.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if !request.Status.Decidable() {
		return sql.ErrNoRows
	}
	request.Status = params.Status
	request.DecidedBy = &params.DecidedBy
	request.Comment = params.Comment
	request.UpdatedAt = params.DecidedAt
	return nil
}

func matchChangeRequest(request *models.ChangeRequest, filter models.ChangeRequestFilter) bool {
	if len(filter.Status) > 0 {
		found := false
		for _, status := range filter.Status {
			if request.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.VendorID != "" && request.VendorID != filter.VendorID {
		return false
	}
	if filter.RequesterID != "" && request.RequesterID != filter.RequesterID {
		return false
	}
	if filter.RequestType != "" && request.RequestType != filter.RequestType {
		return false
	}
	return true
}

func cloneChangeRequest(request *models.ChangeRequest) *models.ChangeRequest {
	clone := *request
	clone.Items = append([]models.ChangeRequestItem(nil), request.Items...)
	clone.Attachments = append([]models.Attachment(nil), request.Attachments...)
	if request.DecidedBy != nil {
		decidedBy := *request.DecidedBy
		clone.DecidedBy = &decidedBy
	}
	if request.Comment != nil {
		comment := *request.Comment
		clone.Comment = &comment
	}
	return &clone
}

func applyWindow[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
