package dto

import "time"

// CreateInvitationRequest is the admin form creating a registration link.
type CreateInvitationRequest struct {
	VendorLegalName     string `json:"vendorLegalName" validate:"required"`
	PrimaryContactEmail string `json:"primaryContactEmail" validate:"required,email"`
	ExpirationDays      int    `json:"expirationDays" validate:"omitempty,min=1,max=90"`
	Notes               string `json:"notes,omitempty"`
}

// CreateInvitationResponse returns the generated link.
type CreateInvitationResponse struct {
	ID             string    `json:"id"`
	InvitationLink string    `json:"invitationLink"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// InvitationValidation reports whether a registration token may be used and
// pre-fills the registration form.
type InvitationValidation struct {
	IsValid             bool       `json:"isValid"`
	ErrorMessage        string     `json:"errorMessage,omitempty"`
	VendorLegalName     string     `json:"vendorLegalName,omitempty"`
	PrimaryContactEmail string     `json:"primaryContactEmail,omitempty"`
	ExpiresAt           *time.Time `json:"expiresAt,omitempty"`
}

// CompleteRegistrationRequest finishes an invited vendor's registration and
// becomes an onboarding application.
type CompleteRegistrationRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	TaxID       string `json:"taxId" validate:"required"`
	ContactName string `json:"contactName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}
