package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// VendorRepository reads the locally replicated vendor master data. The
// replica is written by the SAP sync pipeline; this service never updates it.
type VendorRepository struct {
	db *sqlx.DB
}

// NewVendorRepository constructs the repository.
func NewVendorRepository(db *sqlx.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

type vendorRow struct {
	SapVendorID string `db:"sap_vendor_id"`
	Name        string `db:"name"`
	LegalForm   string `db:"legal_form"`
	TaxNumber1  string `db:"tax_number1"`
	TaxNumber2  string `db:"tax_number2"`
	Street      string `db:"street"`
	City        string `db:"city"`
	PostalCode  string `db:"postal_code"`
	Country     string `db:"country"`
	Region      string `db:"region"`
	Email       string `db:"email"`
	Phone       string `db:"phone"`
}

// GetBySapID loads a vendor master snapshot with its bank detail lines.
func (r *VendorRepository) GetBySapID(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error) {
	const query = `SELECT sap_vendor_id, name, legal_form, tax_number1, tax_number2,
	street, city, postal_code, country, region, email, phone
	FROM vendor_master WHERE sap_vendor_id = $1`
	var row vendorRow
	if err := r.db.GetContext(ctx, &row, query, sapVendorID); err != nil {
		return nil, err
	}

	const bankQuery = `SELECT id, bank_country, bank_key, bank_account, account_holder, iban
	FROM vendor_banks WHERE sap_vendor_id = $1 ORDER BY id`
	var banks []models.VendorBank
	if err := r.db.SelectContext(ctx, &banks, bankQuery, sapVendorID); err != nil {
		return nil, fmt.Errorf("load vendor banks: %w", err)
	}

	return &models.VendorMasterData{
		SapVendorID: row.SapVendorID,
		Name:        row.Name,
		LegalForm:   row.LegalForm,
		TaxNumber1:  row.TaxNumber1,
		TaxNumber2:  row.TaxNumber2,
		Address: models.VendorAddress{
			Street:     row.Street,
			City:       row.City,
			PostalCode: row.PostalCode,
			Country:    row.Country,
			Region:     row.Region,
		},
		Banks: banks,
		Email: row.Email,
		Phone: row.Phone,
	}, nil
}
