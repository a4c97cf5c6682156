package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// InvitationRepository persists vendor invitations in Postgres.
type InvitationRepository struct {
	db *sqlx.DB
}

// NewInvitationRepository constructs the repository.
func NewInvitationRepository(db *sqlx.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create inserts a new invitation row.
func (r *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.NewString()
	}
	if invitation.Status == "" {
		invitation.Status = models.InvitationStatusPending
	}
	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO invitations
	(id, token, vendor_legal_name, primary_contact_email, status, notes, invited_by_id, invited_by_name, application_id, created_at, expires_at)
	VALUES (:id, :token, :vendor_legal_name, :primary_contact_email, :status, :notes, :invited_by_id, :invited_by_name, :application_id, :created_at, :expires_at)`
	if _, err := r.db.NamedExecContext(ctx, query, invitation); err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

// GetByID fetches an invitation by identifier.
func (r *InvitationRepository) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	const query = invitationColumns + ` WHERE id = $1`
	var invitation models.Invitation
	if err := r.db.GetContext(ctx, &invitation, query, id); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetByToken fetches an invitation by its registration token.
func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	const query = invitationColumns + ` WHERE token = $1`
	var invitation models.Invitation
	if err := r.db.GetContext(ctx, &invitation, query, token); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// List returns invitations matching the filter, newest first.
func (r *InvitationRepository) List(ctx context.Context, filter models.InvitationFilter) ([]models.Invitation, error) {
	builder := strings.Builder{}
	builder.WriteString(invitationColumns)
	args := make([]interface{}, 0, 1)
	if filter.Status != "" {
		args = append(args, filter.Status)
		builder.WriteString(" WHERE status = $1")
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

	var invitations []models.Invitation
	if err := r.db.SelectContext(ctx, &invitations, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

// Update persists status, expiry and application linkage changes.
func (r *InvitationRepository) Update(ctx context.Context, invitation *models.Invitation) error {
	const query = `UPDATE invitations
	SET status = :status, expires_at = :expires_at, application_id = :application_id
	WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, invitation); err != nil {
		return fmt.Errorf("update invitation: %w", err)
	}
	return nil
}

const invitationColumns = `SELECT id, token, vendor_legal_name, primary_contact_email, status, notes, invited_by_id, invited_by_name, application_id, created_at, expires_at
	FROM invitations`
