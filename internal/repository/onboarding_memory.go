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

// MemoryOnboardingRepository is the in-memory fallback store for onboarding
// applications.
type MemoryOnboardingRepository struct {
	mu   sync.RWMutex
	apps map[string]*models.VendorApplication
}

// NewMemoryOnboardingRepository returns a store seeded with the demo
// applications the portal ships with: one screened prospect and one still in
// sanction screening.
func NewMemoryOnboardingRepository() *MemoryOnboardingRepository {
	now := time.Now().UTC()
	repo := &MemoryOnboardingRepository{apps: make(map[string]*models.VendorApplication)}
	seeds := []*models.VendorApplication{
		{
			ID:                  "app-001",
			CompanyName:         "Stark Industries",
			TaxID:               "US-9990001",
			ContactName:         "Pepper Potts",
			Email:               "ppotts@stark.com",
			Status:              models.ApplicationStatusSubmitted,
			SanctionCheckStatus: models.SanctionCheckPassed,
			SubmittedAt:         now.Add(-20 * 24 * time.Hour),
			UpdatedAt:           now.Add(-20 * 24 * time.Hour),
		},
		{
			ID:                  "app-002",
			CompanyName:         "Wayne Enterprises",
			TaxID:               "US-9990002",
			ContactName:         "Lucius Fox",
			Email:               "lfox@wayne.com",
			Status:              models.ApplicationStatusSubmitted,
			SanctionCheckStatus: models.SanctionCheckPending,
			SubmittedAt:         now.Add(-16 * 24 * time.Hour),
			UpdatedAt:           now.Add(-16 * 24 * time.Hour),
		},
	}
	for _, app := range seeds {
		repo.apps[app.ID] = app
	}
	return repo
}

// Create stores a new application.
func (r *MemoryOnboardingRepository) Create(ctx context.Context, app *models.VendorApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

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

	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

// GetByID returns a copy of the stored application.
func (r *MemoryOnboardingRepository) GetByID(ctx context.Context, id string) (*models.VendorApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *app
	return &clone, nil
}

// List returns matching applications, newest first.
func (r *MemoryOnboardingRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.VendorApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.VendorApplication, 0, len(r.apps))
	for _, app := range r.apps {
		if len(filter.Status) > 0 {
			found := false
			for _, status := range filter.Status {
				if app.Status == status {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, *app)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return applyWindow(result, filter.Limit, filter.Offset), nil
}

// UpdateDecision applies the decision guard of the Postgres implementation.
func (r *MemoryOnboardingRepository) UpdateDecision(ctx context.Context, params UpdateApplicationDecisionParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[params.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if app.Status != models.ApplicationStatusSubmitted {
		return sql.ErrNoRows
	}
	app.Status = params.Status
	app.DecidedBy = &params.DecidedBy
	app.UpdatedAt = params.DecidedAt
	return nil
}

// UpdateSanctionStatus records the screening outcome.
func (r *MemoryOnboardingRepository) UpdateSanctionStatus(ctx context.Context, id string, status models.SanctionCheckStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return sql.ErrNoRows
	}
	app.SanctionCheckStatus = status
	app.UpdatedAt = at
	return nil
}
