package repository

import (
	"context"
	"sync"
	"time"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// MemorySapConfigRepository keeps the connector configuration in memory with
// the defaults used by the demo environment.
type MemorySapConfigRepository struct {
	mu  sync.RWMutex
	cfg models.SapConnectionConfig
}

// NewMemorySapConfigRepository constructs the repository with defaults.
func NewMemorySapConfigRepository() *MemorySapConfigRepository {
	return &MemorySapConfigRepository{
		cfg: models.SapConnectionConfig{
			Hostname:           "sap-erp.internal.example.com",
			SystemNumber:       "00",
			Client:             "100",
			Language:           "EN",
			ConnectionTimeout:  30,
			MaxPoolSize:        10,
			AuthenticationType: models.SapAuthBasic,
			UseMockConnection:  true,
			Username:           "RFC_PORTAL",
			UpdatedAt:          time.Now().UTC(),
		},
	}
}

// Get returns a copy of the current configuration.
func (r *MemorySapConfigRepository) Get(_ context.Context) (*models.SapConnectionConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := r.cfg
	return &clone, nil
}

// Save replaces the stored configuration. An empty password keeps the
// previous one.
func (r *MemorySapConfigRepository) Save(_ context.Context, cfg *models.SapConnectionConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg.UpdatedAt = time.Now().UTC()
	if cfg.Password == "" {
		cfg.Password = r.cfg.Password
	}
	r.cfg = *cfg
	return nil
}
