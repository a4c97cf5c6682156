// Package sap talks to the SAP integration gateway that fronts the ERP
// system. The gateway exposes plain JSON over HTTP; RFC connectivity lives
// behind it.
package sap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

// Client is a thin HTTP client for the SAP integration gateway.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a gateway client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetVendor fetches a vendor master snapshot from the gateway.
func (c *Client) GetVendor(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error) {
	endpoint := fmt.Sprintf("%s/vendors/%s", c.baseURL, url.PathEscape(sapVendorID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBackendDown.Code, appErrors.ErrBackendDown.Status, "sap gateway unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("vendor %s not found", sapVendorID))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("sap gateway returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, appErrors.Clone(appErrors.ErrBackendDown, fmt.Sprintf("sap gateway returned status %d", resp.StatusCode))
	}

	var vendor models.VendorMasterData
	if err := json.NewDecoder(resp.Body).Decode(&vendor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBackendDown.Code, appErrors.ErrBackendDown.Status, "invalid gateway response")
	}
	return &vendor, nil
}

// Ping probes gateway availability and reports the round trip latency.
func (c *Client) Ping(ctx context.Context) (*models.ConnectionTestResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &models.ConnectionTestResult{
			Success: false,
			Message: fmt.Sprintf("gateway unreachable: %v", err),
		}, nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	latency := time.Since(started).Round(time.Millisecond)
	if resp.StatusCode != http.StatusOK {
		return &models.ConnectionTestResult{
			Success: false,
			Message: fmt.Sprintf("gateway returned status %d", resp.StatusCode),
			Latency: latency.String(),
		}, nil
	}
	return &models.ConnectionTestResult{
		Success: true,
		Message: "connection established",
		Latency: latency.String(),
	}, nil
}
