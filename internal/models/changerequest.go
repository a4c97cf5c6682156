package models

import "time"

// ChangeRequestStatus captures workflow states for master data change requests.
type ChangeRequestStatus string

const (
	ChangeRequestStatusNew      ChangeRequestStatus = "NEW"
	ChangeRequestStatusInReview ChangeRequestStatus = "IN_REVIEW"
	ChangeRequestStatusApproved ChangeRequestStatus = "APPROVED"
	ChangeRequestStatusRejected ChangeRequestStatus = "REJECTED"
	// APPLIED and ERROR are set by the downstream SAP commit pipeline after
	// approval. This service only ever reads them back.
	ChangeRequestStatusApplied ChangeRequestStatus = "APPLIED"
	ChangeRequestStatusError   ChangeRequestStatus = "ERROR"
)

// Decidable reports whether an approver may still act on the request.
func (s ChangeRequestStatus) Decidable() bool {
	return s == ChangeRequestStatusNew || s == ChangeRequestStatusInReview
}

// Terminal reports whether the request belongs to the history view.
func (s ChangeRequestStatus) Terminal() bool {
	switch s {
	case ChangeRequestStatusApproved, ChangeRequestStatusRejected,
		ChangeRequestStatusApplied, ChangeRequestStatusError:
		return true
	}
	return false
}

// WorklistStatuses is the single worklist membership rule: a request needs
// approver attention exactly while it is NEW or IN_REVIEW.
var WorklistStatuses = []ChangeRequestStatus{ChangeRequestStatusNew, ChangeRequestStatusInReview}

// HistoryStatuses lists the statuses shown in the decided-request history.
var HistoryStatuses = []ChangeRequestStatus{
	ChangeRequestStatusApproved,
	ChangeRequestStatusRejected,
	ChangeRequestStatusApplied,
	ChangeRequestStatusError,
}

// RequestType enumerates change request categories.
type RequestType string

const (
	RequestTypeBankData RequestType = "BANK_DATA"
	RequestTypeAddress  RequestType = "ADDRESS"
	RequestTypeTax      RequestType = "TAX"
	RequestTypeGeneral  RequestType = "GENERAL"
)

// ChangeRequestItem is one field-level delta between the vendor master record
// and the requested values. Sensitivity is fixed when the item is created and
// never recomputed afterwards.
type ChangeRequestItem struct {
	ID          string `db:"id" json:"id"`
	RequestID   string `db:"request_id" json:"-"`
	TableName   string `db:"table_name" json:"tableName"`
	FieldName   string `db:"field_name" json:"fieldName"`
	OldValue    string `db:"old_value" json:"oldValue"`
	NewValue    string `db:"new_value" json:"newValue"`
	SubKey1     string `db:"sub_key1" json:"subKey1,omitempty"`
	IsSensitive bool   `db:"is_sensitive" json:"isSensitive"`
}

// AttachmentCategory classifies uploaded proof documents.
type AttachmentCategory string

const (
	AttachmentBankLetter     AttachmentCategory = "BANK_LETTER"
	AttachmentTaxCertificate AttachmentCategory = "TAX_CERTIFICATE"
	AttachmentOther          AttachmentCategory = "OTHER"
)

// Attachment is a proof document recorded with a change request. Attachments
// are created at submission time and never mutated.
type Attachment struct {
	ID         string             `db:"id" json:"id"`
	RequestID  string             `db:"request_id" json:"-"`
	FileName   string             `db:"file_name" json:"fileName"`
	MimeType   string             `db:"mime_type" json:"mimeType"`
	Category   AttachmentCategory `db:"category" json:"category"`
	UploadedAt time.Time          `db:"uploaded_at" json:"uploadedAt"`
}

// ChangeRequest aggregates the deltas a vendor submitted for approval.
type ChangeRequest struct {
	ID          string              `db:"id" json:"id"`
	VendorID    string              `db:"vendor_id" json:"vendorId"`
	RequesterID string              `db:"requester_id" json:"requesterId"`
	RequestType RequestType         `db:"request_type" json:"requestType"`
	Status      ChangeRequestStatus `db:"status" json:"status"`
	DecidedBy   *string             `db:"decided_by" json:"decidedBy,omitempty"`
	Comment     *string             `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`
	Items       []ChangeRequestItem `db:"-" json:"items"`
	Attachments []Attachment        `db:"-" json:"attachments"`
}

// HighRisk reports whether at least one item touches a sensitive field. It is
// a derived classification, not stored state.
func (r *ChangeRequest) HighRisk() bool {
	for _, item := range r.Items {
		if item.IsSensitive {
			return true
		}
	}
	return false
}

// ChangeRequestFilter constrains listing queries.
type ChangeRequestFilter struct {
	Status      []ChangeRequestStatus
	VendorID    string
	RequesterID string
	RequestType RequestType
	Limit       int
	Offset      int
}
