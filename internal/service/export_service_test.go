package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/repository"
)

func TestExportServiceHistoryCSV(t *testing.T) {
	svc := NewExportService(repository.NewMemoryChangeRequestRepository(), nil)

	result, err := svc.History(context.Background(), "", ExportFormatCSV, approverClaims())
	require.NoError(t, err)
	require.Equal(t, "text/csv", result.ContentType)
	require.True(t, strings.HasSuffix(result.FileName, ".csv"))

	body := string(result.Data)
	require.Contains(t, body, "Request ID")
	require.Contains(t, body, "cr-001")
	require.Contains(t, body, "APPLIED")
	// Open requests never appear in the history export.
	require.NotContains(t, body, "cr-003")
}

func TestExportServiceHistoryPDF(t *testing.T) {
	svc := NewExportService(repository.NewMemoryChangeRequestRepository(), nil)

	result, err := svc.History(context.Background(), "", ExportFormatPDF, approverClaims())
	require.NoError(t, err)
	require.Equal(t, "application/pdf", result.ContentType)
	require.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
}

func TestExportServiceVendorScope(t *testing.T) {
	svc := NewExportService(repository.NewMemoryChangeRequestRepository(), nil)

	// A vendor exporting "another" vendor's history still only gets their own.
	result, err := svc.History(context.Background(), "200999", ExportFormatCSV, vendorClaims())
	require.NoError(t, err)
	require.Contains(t, string(result.Data), "100450")
	require.NotContains(t, string(result.Data), "200999")
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("")
	require.NoError(t, err)
	require.Equal(t, ExportFormatCSV, format)

	format, err = ParseExportFormat("PDF")
	require.NoError(t, err)
	require.Equal(t, ExportFormatPDF, format)

	_, err = ParseExportFormat("xlsx")
	require.Error(t, err)
}
