package repository

import (
	"context"
	"database/sql"
	"sync"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// MemoryVendorRepository serves vendor master snapshots from memory. Used in
// mock mode and as a fallback when neither the SAP gateway nor the replica
// database is reachable.
type MemoryVendorRepository struct {
	mu      sync.RWMutex
	vendors map[string]*models.VendorMasterData
}

// NewMemoryVendorRepository constructs the repository with demo vendors.
func NewMemoryVendorRepository() *MemoryVendorRepository {
	r := &MemoryVendorRepository{vendors: make(map[string]*models.VendorMasterData)}
	r.seed()
	return r
}

func (r *MemoryVendorRepository) seed() {
	r.vendors["100450"] = &models.VendorMasterData{
		SapVendorID: "100450",
		Name:        "Acme Corp Global",
		LegalForm:   "GmbH",
		TaxNumber1:  "DE123456789",
		Address: models.VendorAddress{
			Street:     "Industriestrasse 45",
			City:       "Frankfurt",
			PostalCode: "60311",
			Country:    "DE",
		},
		Banks: []models.VendorBank{
			{
				ID:            "bank-1",
				BankCountry:   "US",
				BankKey:       "121000248",
				BankAccount:   "*******8888",
				AccountHolder: "Acme Corp Global",
			},
		},
		Email: "accounts@acme-global.example.com",
		Phone: "+49 69 1234 5678",
	}
	r.vendors["200999"] = &models.VendorMasterData{
		SapVendorID: "200999",
		Name:        "Globex International",
		Address: models.VendorAddress{
			Street:     "1 Commerce Plaza",
			City:       "Springfield",
			PostalCode: "62701",
			Country:    "US",
		},
		Banks: []models.VendorBank{},
		Email: "ap@globex.example.com",
		Phone: "+1 217 555 0100",
	}
}

// GetBySapID returns a copy of the stored snapshot.
func (r *MemoryVendorRepository) GetBySapID(_ context.Context, sapVendorID string) (*models.VendorMasterData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.vendors[sapVendorID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *stored
	clone.Banks = append([]models.VendorBank(nil), stored.Banks...)
	return &clone, nil
}
