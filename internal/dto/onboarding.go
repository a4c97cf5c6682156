package dto

import "github.com/procure-core/vendor-mdm-api/internal/models"

// ApplicationDetail decorates an onboarding application with the derived
// workflow progress stage.
type ApplicationDetail struct {
	*models.VendorApplication
	WorkflowStage models.WorkflowStage `json:"workflowStage"`
}

// NewApplicationDetail computes the display stage for an application.
func NewApplicationDetail(app *models.VendorApplication) ApplicationDetail {
	return ApplicationDetail{VendorApplication: app, WorkflowStage: app.Stage()}
}

// SubmitApplicationRequest is a direct (non-invitation) onboarding submission.
type SubmitApplicationRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	TaxID       string `json:"taxId" validate:"required"`
	ContactName string `json:"contactName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}
