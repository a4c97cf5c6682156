package dto

import "github.com/procure-core/vendor-mdm-api/internal/models"

// ChangeRequestItemInput is a client-submitted delta line. Sensitivity is
// always resolved server-side from the field catalog, never trusted from the
// client.
type ChangeRequestItemInput struct {
	TableName string `json:"tableName"`
	FieldName string `json:"fieldName"`
	OldValue  string `json:"oldValue"`
	NewValue  string `json:"newValue"`
	SubKey1   string `json:"subKey1,omitempty"`
}

// ChangeRequestPayload wraps pre-computed delta items.
type ChangeRequestPayload struct {
	Items []ChangeRequestItemInput `json:"items"`
}

// AttachmentInput records a proof document uploaded with the request.
type AttachmentInput struct {
	FileName string                    `json:"fileName" validate:"required"`
	MimeType string                    `json:"mimeType" validate:"required"`
	Category models.AttachmentCategory `json:"category" validate:"required,oneof=BANK_LETTER TAX_CERTIFICATE OTHER"`
}

// CreateChangeRequestRequest creates a change request. Two submission modes
// are supported: an edited profile form (the server computes the deltas) or a
// pre-computed payload of items as posted by the portal.
type CreateChangeRequestRequest struct {
	RequesterID   string                `json:"requesterId,omitempty"`
	SapVendorID   string                `json:"sapVendorId" validate:"required"`
	Profile       map[string]string     `json:"profile,omitempty"`
	TouchedFields []string              `json:"touchedFields,omitempty"`
	Payload       *ChangeRequestPayload `json:"payload,omitempty"`
	Attachments   []AttachmentInput     `json:"attachments,omitempty"`
}

// DecisionRequest carries the approver's optional comment.
type DecisionRequest struct {
	Comment string `json:"comment"`
}

// Risk labels shown next to a change request.
const (
	RiskHigh     = "HIGH"
	RiskStandard = "STANDARD"
)

// ChangeRequestDetail decorates a change request with its derived risk label.
type ChangeRequestDetail struct {
	*models.ChangeRequest
	RiskLevel string `json:"riskLevel"`
}

// NewChangeRequestDetail derives the risk label for a request.
func NewChangeRequestDetail(req *models.ChangeRequest) ChangeRequestDetail {
	risk := RiskStandard
	if req.HighRisk() {
		risk = RiskHigh
	}
	return ChangeRequestDetail{ChangeRequest: req, RiskLevel: risk}
}

// WorklistStats summarises the approver worklist for the dashboard header.
type WorklistStats struct {
	TotalPending      int `json:"totalPending"`
	PendingChanges    int `json:"pendingChanges"`
	PendingOnboarding int `json:"pendingOnboarding"`
	HighRiskChanges   int `json:"highRiskChanges"`
}
