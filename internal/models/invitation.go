package models

import "time"

// InvitationStatus tracks the vendor invitation lifecycle.
type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "Pending"
	InvitationStatusAccepted  InvitationStatus = "Accepted"
	InvitationStatusCompleted InvitationStatus = "Completed"
	InvitationStatusExpired   InvitationStatus = "Expired"
	InvitationStatusRevoked   InvitationStatus = "Revoked"
)

// Invitation is an admin-issued registration link for a prospective vendor.
type Invitation struct {
	ID                  string           `db:"id" json:"id"`
	Token               string           `db:"token" json:"-"`
	VendorLegalName     string           `db:"vendor_legal_name" json:"vendorLegalName"`
	PrimaryContactEmail string           `db:"primary_contact_email" json:"primaryContactEmail"`
	Status              InvitationStatus `db:"status" json:"status"`
	Notes               *string          `db:"notes" json:"notes,omitempty"`
	InvitedByID         string           `db:"invited_by_id" json:"-"`
	InvitedByName       string           `db:"invited_by_name" json:"invitedByName"`
	ApplicationID       *string          `db:"application_id" json:"vendorApplicationId,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"createdAt"`
	ExpiresAt           time.Time        `db:"expires_at" json:"expiresAt"`
}

// Expired reports whether the invitation link is past its deadline.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// InvitationFilter constrains invitation listing queries.
type InvitationFilter struct {
	Status InvitationStatus
	Limit  int
	Offset int
}
