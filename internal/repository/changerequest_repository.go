package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// ChangeRequestRepository persists change request workflow data in Postgres.
type ChangeRequestRepository struct {
	db *sqlx.DB
}

// NewChangeRequestRepository constructs the repository.
func NewChangeRequestRepository(db *sqlx.DB) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: db}
}

// Create inserts a request with its items and attachments in one transaction.
func (r *ChangeRequestRepository) Create(ctx context.Context, request *models.ChangeRequest) error {
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

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin change request tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertRequest = `INSERT INTO change_requests
	(id, vendor_id, requester_id, request_type, status, decided_by, comment, created_at, updated_at)
	VALUES (:id, :vendor_id, :requester_id, :request_type, :status, :decided_by, :comment, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertRequest, request); err != nil {
		return fmt.Errorf("create change request: %w", err)
	}

	const insertItem = `INSERT INTO change_request_items
	(id, request_id, table_name, field_name, old_value, new_value, sub_key1, is_sensitive)
	VALUES (:id, :request_id, :table_name, :field_name, :old_value, :new_value, :sub_key1, :is_sensitive)`
	for i := range request.Items {
		if request.Items[i].ID == "" {
			request.Items[i].ID = uuid.NewString()
		}
		request.Items[i].RequestID = request.ID
		if _, err := tx.NamedExecContext(ctx, insertItem, request.Items[i]); err != nil {
			return fmt.Errorf("create change request item: %w", err)
		}
	}

	const insertAttachment = `INSERT INTO attachments
	(id, request_id, file_name, mime_type, category, uploaded_at)
	VALUES (:id, :request_id, :file_name, :mime_type, :category, :uploaded_at)`
	for i := range request.Attachments {
		if request.Attachments[i].ID == "" {
			request.Attachments[i].ID = uuid.NewString()
		}
		request.Attachments[i].RequestID = request.ID
		if request.Attachments[i].UploadedAt.IsZero() {
			request.Attachments[i].UploadedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, insertAttachment, request.Attachments[i]); err != nil {
			return fmt.Errorf("create attachment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit change request: %w", err)
	}
	return nil
}

// GetByID fetches a request with its items and attachments.
func (r *ChangeRequestRepository) GetByID(ctx context.Context, id string) (*models.ChangeRequest, error) {
	const query = `SELECT id, vendor_id, requester_id, request_type, status, decided_by, comment, created_at, updated_at
	FROM change_requests WHERE id = $1`
	var request models.ChangeRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns requests matching the filter, newest first, with children.
func (r *ChangeRequestRepository) List(ctx context.Context, filter models.ChangeRequestFilter) ([]models.ChangeRequest, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT id, vendor_id, requester_id, request_type, status, decided_by, comment, created_at, updated_at
	FROM change_requests`)

	conditions := make([]string, 0, 4)
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.VendorID != "" {
		args = append(args, filter.VendorID)
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", len(args)))
	}
	if filter.RequesterID != "" {
		args = append(args, filter.RequesterID)
		conditions = append(conditions, fmt.Sprintf("requester_id = $%d", len(args)))
	}
	if filter.RequestType != "" {
		args = append(args, filter.RequestType)
		conditions = append(conditions, fmt.Sprintf("request_type = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var requests []models.ChangeRequest
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}
	for i := range requests {
		if err := r.loadChildren(ctx, &requests[i]); err != nil {
			return nil, err
		}
	}
	return requests, nil
}

// UpdateDecisionParams groups the columns written by an approver decision.
type UpdateDecisionParams struct {
	ID        string
	Status    models.ChangeRequestStatus
	DecidedBy string
	Comment   *string
	DecidedAt time.Time
}

// UpdateDecision persists the approver decision. The WHERE clause keeps the
// transition legal even when two approvers race: only a request still in NEW
// or IN_REVIEW can be decided.
func (r *ChangeRequestRepository) UpdateDecision(ctx context.Context, params UpdateDecisionParams) error {
	const query = `UPDATE change_requests
	SET status = :status, decided_by = :decided_by, comment = :comment, updated_at = :updated_at
	WHERE id = :id AND status IN ('NEW', 'IN_REVIEW')`
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         params.ID,
		"status":     params.Status,
		"decided_by": params.DecidedBy,
		"comment":    params.Comment,
		"updated_at": params.DecidedAt,
	})
	if err != nil {
		return fmt.Errorf("update change request decision: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check change request update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ChangeRequestRepository) loadChildren(ctx context.Context, request *models.ChangeRequest) error {
	const itemQuery = `SELECT id, request_id, table_name, field_name, old_value, new_value, sub_key1, is_sensitive
	FROM change_request_items WHERE request_id = $1 ORDER BY field_name`
	if err := r.db.SelectContext(ctx, &request.Items, itemQuery, request.ID); err != nil {
		return fmt.Errorf("load change request items: %w", err)
	}
	const attachmentQuery = `SELECT id, request_id, file_name, mime_type, category, uploaded_at
	FROM attachments WHERE request_id = $1 ORDER BY uploaded_at`
	if err := r.db.SelectContext(ctx, &request.Attachments, attachmentQuery, request.ID); err != nil {
		return fmt.Errorf("load attachments: %w", err)
	}
	return nil
}
