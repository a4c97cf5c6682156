package models

// VendorAddress is the address block of a vendor master record.
type VendorAddress struct {
	Street     string `db:"street" json:"street"`
	City       string `db:"city" json:"city"`
	PostalCode string `db:"postal_code" json:"postalCode"`
	Country    string `db:"country" json:"country"`
	Region     string `db:"region" json:"region,omitempty"`
}

// VendorBank is one bank detail line (LFBK) of a vendor master record.
type VendorBank struct {
	ID            string `db:"id" json:"id"`
	BankCountry   string `db:"bank_country" json:"bankCountry"`
	BankKey       string `db:"bank_key" json:"bankKey"`
	BankAccount   string `db:"bank_account" json:"bankAccount"`
	AccountHolder string `db:"account_holder" json:"accountHolder"`
	IBAN          string `db:"iban" json:"iban"`
}

// VendorMasterData is a read-only snapshot of the ERP vendor record
// (BAPI_VENDOR_GETDETAIL shape). The system of record is SAP; this service
// never mutates it directly, change requests do after external commit.
type VendorMasterData struct {
	SapVendorID string        `json:"sapVendorId"`
	Name        string        `json:"name"`
	LegalForm   string        `json:"legalForm,omitempty"`
	TaxNumber1  string        `json:"taxNumber1,omitempty"`
	TaxNumber2  string        `json:"taxNumber2,omitempty"`
	Address     VendorAddress `json:"address"`
	Banks       []VendorBank  `json:"banks"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
}

// ProfileValues flattens the snapshot into the form-field keys the delta
// engine compares against an edited profile. Only the first bank line is
// exposed, matching the portal's single-bank edit form.
func (v *VendorMasterData) ProfileValues() map[string]string {
	values := map[string]string{
		"name":       v.Name,
		"email":      v.Email,
		"street":     v.Address.Street,
		"city":       v.Address.City,
		"postalCode": v.Address.PostalCode,
		"country":    v.Address.Country,
		"taxNumber1": v.TaxNumber1,
	}
	if len(v.Banks) > 0 {
		values["bankAccount"] = v.Banks[0].BankAccount
		values["bankKey"] = v.Banks[0].BankKey
		values["iban"] = v.Banks[0].IBAN
	} else {
		values["bankAccount"] = ""
		values["bankKey"] = ""
		values["iban"] = ""
	}
	return values
}
