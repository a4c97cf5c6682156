package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// MemoryUserRepository keeps accounts, refresh tokens and audit entries in
// memory. Seeded with one demo account per role for mock mode.
type MemoryUserRepository struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	byEmail       map[string]string
	refreshTokens map[string]*models.RefreshToken
	auditLogs     []*models.AuditLog
}

// NewMemoryUserRepository constructs the repository with demo accounts.
func NewMemoryUserRepository() *MemoryUserRepository {
	r := &MemoryUserRepository{
		users:         make(map[string]*models.User),
		byEmail:       make(map[string]string),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
	r.seed()
	return r
}

func (r *MemoryUserRepository) seed() {
	now := time.Now().UTC()
	acmeVendor := "100450"
	accounts := []struct {
		email    string
		password string
		fullName string
		role     models.UserRole
		vendorID *string
	}{
		{"vendor@acme-global.example.com", "vendor123", "Acme Vendor Portal", models.RoleVendor, &acmeVendor},
		{"approver@procure.example.com", "approver123", "Dana Approver", models.RoleApprover, nil},
		{"admin@procure.example.com", "admin123", "Sam Admin", models.RoleAdmin, nil},
	}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			continue
		}
		user := &models.User{
			ID:           uuid.NewString(),
			Email:        a.email,
			PasswordHash: string(hash),
			FullName:     a.fullName,
			Role:         a.role,
			SapVendorID:  a.vendorID,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		r.users[user.ID] = user
		r.byEmail[user.Email] = user.ID
	}
}

// FindByEmail returns a user by email address.
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *r.users[id]
	return &clone, nil
}

// FindByID returns a user by identifier.
func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

// Create stores a new user.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	clone := *user
	r.users[clone.ID] = &clone
	r.byEmail[clone.Email] = clone.ID
	return nil
}

// UpdateLastLogin updates the last login timestamp.
func (r *MemoryUserRepository) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	t := ts
	user.LastLogin = &t
	user.UpdatedAt = ts
	return nil
}

// CreateRefreshToken stores a refresh token entry.
func (r *MemoryUserRepository) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	clone := *token
	r.refreshTokens[clone.Token] = &clone
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *MemoryUserRepository) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *rt
	return &clone, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *MemoryUserRepository) RevokeRefreshToken(_ context.Context, id string, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range r.refreshTokens {
		if rt.ID == id {
			rt.Revoked = true
			t := revokedAt
			rt.RevokedAt = &t
			return nil
		}
	}
	return sql.ErrNoRows
}

// RevokeUserRefreshTokens revokes all tokens held by a user.
func (r *MemoryUserRepository) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, rt := range r.refreshTokens {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			t := now
			rt.RevokedAt = &t
		}
	}
	return nil
}

// CreateAuditLog appends an audit entry.
func (r *MemoryUserRepository) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	clone := *log
	r.auditLogs = append(r.auditLogs, &clone)
	return nil
}
