package models

import "time"

// ApplicationStatus captures the onboarding workflow states.
type ApplicationStatus string

const (
	ApplicationStatusDraft     ApplicationStatus = "Draft"
	ApplicationStatusSubmitted ApplicationStatus = "Submitted"
	ApplicationStatusApproved  ApplicationStatus = "Approved"
	ApplicationStatusRejected  ApplicationStatus = "Rejected"
)

// SanctionCheckStatus is the outcome of the automated compliance screening.
// It is an independent sub-state crossing the application status.
type SanctionCheckStatus string

const (
	SanctionCheckPending SanctionCheckStatus = "Pending"
	SanctionCheckPassed  SanctionCheckStatus = "Passed"
	SanctionCheckFailed  SanctionCheckStatus = "Failed"
)

// WorkflowStage is the derived progress label shown on application detail
// views. It is computed from status and sanction outcome, never persisted.
type WorkflowStage string

const (
	StageSanctionScreening WorkflowStage = "SANCTION_SCREENING"
	StageSanctionFailed    WorkflowStage = "SANCTION_FAILED"
	StageInternalReview    WorkflowStage = "INTERNAL_REVIEW"
	StageApproved          WorkflowStage = "APPROVED"
	StageRejected          WorkflowStage = "REJECTED"
)

// VendorApplication is a prospective vendor's onboarding application.
type VendorApplication struct {
	ID                  string              `db:"id" json:"id"`
	CompanyName         string              `db:"company_name" json:"companyName"`
	TaxID               string              `db:"tax_id" json:"taxId"`
	ContactName         string              `db:"contact_name" json:"contactName"`
	Email               string              `db:"email" json:"email"`
	Status              ApplicationStatus   `db:"status" json:"status"`
	SanctionCheckStatus SanctionCheckStatus `db:"sanction_check_status" json:"sanctionCheckStatus"`
	DecidedBy           *string             `db:"decided_by" json:"decidedBy,omitempty"`
	SubmittedAt         time.Time           `db:"submitted_at" json:"submittedAt"`
	UpdatedAt           time.Time           `db:"updated_at" json:"updatedAt"`
}

// Stage derives the workflow display state for progress visualization.
func (a *VendorApplication) Stage() WorkflowStage {
	switch a.Status {
	case ApplicationStatusApproved:
		return StageApproved
	case ApplicationStatusRejected:
		return StageRejected
	}
	switch a.SanctionCheckStatus {
	case SanctionCheckFailed:
		return StageSanctionFailed
	case SanctionCheckPassed:
		return StageInternalReview
	default:
		return StageSanctionScreening
	}
}

// ApplicationFilter constrains onboarding listing queries.
type ApplicationFilter struct {
	Status []ApplicationStatus
	Limit  int
	Offset int
}
