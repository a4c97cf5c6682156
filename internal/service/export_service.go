package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
	"github.com/procure-core/vendor-mdm-api/pkg/export"
)

// ExportFormat selects the rendering backend for history exports.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes plus HTTP metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders decided change requests into downloadable reports.
type ExportService struct {
	requests changeRequestStore
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(requests changeRequestStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		requests: requests,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

var historyExportHeaders = []string{"Request ID", "Vendor", "Type", "Status", "Risk", "Decided By", "Comment", "Created", "Updated"}

// History renders the decided-request history for one vendor, or all vendors
// when vendorID is empty.
func (s *ExportService) History(ctx context.Context, vendorID string, format ExportFormat, actor *models.JWTClaims) (*ExportResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleVendor {
		vendorID = actor.SapVendorID
	}

	requests, err := s.requests.List(ctx, models.ChangeRequestFilter{
		Status:   models.HistoryStatuses,
		VendorID: vendorID,
		Limit:    200,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}

	dataset := export.Dataset{Headers: historyExportHeaders}
	for i := range requests {
		request := &requests[i]
		risk := "STANDARD"
		if request.HighRisk() {
			risk = "HIGH"
		}
		row := map[string]string{
			"Request ID": request.ID,
			"Vendor":     request.VendorID,
			"Type":       string(request.RequestType),
			"Status":     string(request.Status),
			"Risk":       risk,
			"Created":    request.CreatedAt.Format(time.RFC3339),
			"Updated":    request.UpdatedAt.Format(time.RFC3339),
		}
		if request.DecidedBy != nil {
			row["Decided By"] = *request.DecidedBy
		}
		if request.Comment != nil {
			row["Comment"] = *request.Comment
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("change-history-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, "Change Request History")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("change-history-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", format))
	}
}

// ParseExportFormat normalises a query parameter into an ExportFormat.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return ExportFormatCSV, nil
	case "pdf":
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
