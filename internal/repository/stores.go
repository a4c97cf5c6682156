package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// UserStore persists accounts, refresh tokens and audit entries.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ChangeRequestStore persists vendor change requests.
type ChangeRequestStore interface {
	Create(ctx context.Context, request *models.ChangeRequest) error
	GetByID(ctx context.Context, id string) (*models.ChangeRequest, error)
	List(ctx context.Context, filter models.ChangeRequestFilter) ([]models.ChangeRequest, error)
	UpdateDecision(ctx context.Context, params UpdateDecisionParams) error
}

// OnboardingStore persists onboarding applications.
type OnboardingStore interface {
	Create(ctx context.Context, app *models.VendorApplication) error
	GetByID(ctx context.Context, id string) (*models.VendorApplication, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.VendorApplication, error)
	UpdateDecision(ctx context.Context, params UpdateApplicationDecisionParams) error
	UpdateSanctionStatus(ctx context.Context, id string, status models.SanctionCheckStatus, at time.Time) error
}

// InvitationStore persists registration invitations.
type InvitationStore interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	List(ctx context.Context, filter models.InvitationFilter) ([]models.Invitation, error)
	Update(ctx context.Context, invitation *models.Invitation) error
}

// VendorStore reads the local vendor master replica.
type VendorStore interface {
	GetBySapID(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error)
}

// SapConfigStore persists the gateway connection settings.
type SapConfigStore interface {
	Get(ctx context.Context) (*models.SapConnectionConfig, error)
	Save(ctx context.Context, cfg *models.SapConnectionConfig) error
}

// Stores bundles the persistence layer so the composition root can swap the
// whole set between Postgres and the seeded in-memory implementations.
type Stores struct {
	Users          UserStore
	ChangeRequests ChangeRequestStore
	Onboarding     OnboardingStore
	Invitations    InvitationStore
	Vendors        VendorStore
	SapConfig      SapConfigStore
}

// NewPostgresStores wires every store to the given database.
func NewPostgresStores(db *sqlx.DB) *Stores {
	return &Stores{
		Users:          NewUserRepository(db),
		ChangeRequests: NewChangeRequestRepository(db),
		Onboarding:     NewOnboardingRepository(db),
		Invitations:    NewInvitationRepository(db),
		Vendors:        NewVendorRepository(db),
		SapConfig:      NewSapConfigRepository(db),
	}
}

// NewMemoryStores wires every store to the seeded in-memory implementations
// used for demos and local development without a database.
func NewMemoryStores() *Stores {
	return &Stores{
		Users:          NewMemoryUserRepository(),
		ChangeRequests: NewMemoryChangeRequestRepository(),
		Onboarding:     NewMemoryOnboardingRepository(),
		Invitations:    NewMemoryInvitationRepository(),
		Vendors:        NewMemoryVendorRepository(),
		SapConfig:      NewMemorySapConfigRepository(),
	}
}
