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

// OnboardingRepository persists vendor onboarding applications in Postgres.
type OnboardingRepository struct {
	db *sqlx.DB
}

// NewOnboardingRepository constructs the repository.
func NewOnboardingRepository(db *sqlx.DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

// Create inserts a new application row.
func (r *OnboardingRepository) Create(ctx context.Context, app *models.VendorApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusSubmitted
	}
	if app.SanctionCheckStatus == "" {
		app.SanctionCheckStatus = models.SanctionCheckPending
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now().UTC()
	}
	app.UpdatedAt = app.SubmittedAt

	const query = `INSERT INTO vendor_applications
	(id, company_name, tax_id, contact_name, email, status, sanction_check_status, decided_by, submitted_at, updated_at)
	VALUES (:id, :company_name, :tax_id, :contact_name, :email, :status, :sanction_check_status, :decided_by, :submitted_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create vendor application: %w", err)
	}
	return nil
}

// GetByID fetches an application by identifier.
func (r *OnboardingRepository) GetByID(ctx context.Context, id string) (*models.VendorApplication, error) {
	const query = `SELECT id, company_name, tax_id, contact_name, email, status, sanction_check_status, decided_by, submitted_at, updated_at
	FROM vendor_applications WHERE id = $1`
	var app models.VendorApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns applications matching the filter, newest first.
func (r *OnboardingRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.VendorApplication, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(`SELECT id, company_name, tax_id, contact_name, email, status, sanction_check_status, decided_by, submitted_at, updated_at
	FROM vendor_applications`)

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		builder.WriteString(fmt.Sprintf(" WHERE status IN (%s)", strings.Join(placeholders, ",")))
	}
	builder.WriteString(" ORDER BY submitted_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var apps []models.VendorApplication
	if err := r.db.SelectContext(ctx, &apps, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list vendor applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationDecisionParams groups the decision columns.
type UpdateApplicationDecisionParams struct {
	ID        string
	Status    models.ApplicationStatus
	DecidedBy string
	DecidedAt time.Time
}

// UpdateDecision records an approver decision. Only a Submitted application
// can be decided; a concurrent decision loses with sql.ErrNoRows.
func (r *OnboardingRepository) UpdateDecision(ctx context.Context, params UpdateApplicationDecisionParams) error {
	const query = `UPDATE vendor_applications
	SET status = :status, decided_by = :decided_by, updated_at = :updated_at
	WHERE id = :id AND status = 'Submitted'`
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         params.ID,
		"status":     params.Status,
		"decided_by": params.DecidedBy,
		"updated_at": params.DecidedAt,
	})
	if err != nil {
		return fmt.Errorf("update application decision: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check application update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateSanctionStatus records the screening outcome for an application.
func (r *OnboardingRepository) UpdateSanctionStatus(ctx context.Context, id string, status models.SanctionCheckStatus, at time.Time) error {
	const query = `UPDATE vendor_applications
	SET sanction_check_status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("update sanction status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check sanction update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
