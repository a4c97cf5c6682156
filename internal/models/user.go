package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleVendor   UserRole = "VENDOR"
	RoleApprover UserRole = "APPROVER"
	RoleAdmin    UserRole = "ADMIN"
)

// KnownRoles lists every role the portal understands. Role checks iterate this
// closed set so an unknown tag is rejected rather than silently allowed.
var KnownRoles = []UserRole{RoleVendor, RoleApprover, RoleAdmin}

// Valid reports whether the role is part of the closed role set.
func (r UserRole) Valid() bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents a portal account stored in the users table. Vendor accounts
// carry the SAP vendor number (LIFNR) they are scoped to.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	SapVendorID  *string    `db:"sap_vendor_id" json:"sap_vendor_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
