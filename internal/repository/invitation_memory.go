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

// MemoryInvitationRepository is the in-memory fallback store for invitations.
type MemoryInvitationRepository struct {
	mu          sync.RWMutex
	invitations map[string]*models.Invitation
}

// NewMemoryInvitationRepository returns an empty store; invitations are only
// created through the admin flow, so there is nothing to seed.
func NewMemoryInvitationRepository() *MemoryInvitationRepository {
	return &MemoryInvitationRepository{invitations: make(map[string]*models.Invitation)}
}

// Create stores a new invitation.
func (r *MemoryInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if invitation.ID == "" {
		invitation.ID = uuid.NewString()
	}
	if invitation.Status == "" {
		invitation.Status = models.InvitationStatusPending
	}
	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}
	clone := *invitation
	r.invitations[invitation.ID] = &clone
	return nil
}

// GetByID returns a copy of the stored invitation.
func (r *MemoryInvitationRepository) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invitation, ok := r.invitations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *invitation
	return &clone, nil
}

// GetByToken looks an invitation up by its registration token.
func (r *MemoryInvitationRepository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, invitation := range r.invitations {
		if invitation.Token == token {
			clone := *invitation
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

// List returns matching invitations, newest first.
func (r *MemoryInvitationRepository) List(ctx context.Context, filter models.InvitationFilter) ([]models.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Invitation, 0, len(r.invitations))
	for _, invitation := range r.invitations {
		if filter.Status != "" && invitation.Status != filter.Status {
			continue
		}
		result = append(result, *invitation)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return applyWindow(result, filter.Limit, filter.Offset), nil
}

// Update replaces the mutable fields of a stored invitation.
func (r *MemoryInvitationRepository) Update(ctx context.Context, invitation *models.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.invitations[invitation.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Status = invitation.Status
	stored.ExpiresAt = invitation.ExpiresAt
	stored.ApplicationID = invitation.ApplicationID
	return nil
}
