package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type vendorGateway interface {
	GetVendor(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error)
}

type vendorFallbackStore interface {
	GetBySapID(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error)
}

// VendorService serves vendor master snapshots. The SAP gateway is the
// primary source; the local replica answers when the gateway is down so the
// portal stays readable during ERP maintenance windows.
type VendorService struct {
	gateway  vendorGateway
	fallback vendorFallbackStore
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewVendorService constructs the service.
func NewVendorService(gateway vendorGateway, fallback vendorFallbackStore, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *VendorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &VendorService{gateway: gateway, fallback: fallback, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// GetVendor resolves a vendor snapshot from cache, gateway or replica in that
// order. Gateway failures other than not-found fall through to the replica.
func (s *VendorService) GetVendor(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error) {
	key := vendorCacheKey(sapVendorID)
	var cached models.VendorMasterData
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	vendor, gatewayErr := s.fromGateway(ctx, sapVendorID)
	if gatewayErr != nil {
		var appErr *appErrors.Error
		if errors.As(gatewayErr, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
			return nil, gatewayErr
		}
		s.logger.Warn("sap gateway lookup failed, using local replica",
			zap.String("sapVendorId", sapVendorID), zap.Error(gatewayErr))
		vendor, gatewayErr = s.fromFallback(ctx, sapVendorID)
		if gatewayErr != nil {
			return nil, gatewayErr
		}
	}

	if err := s.cache.Set(ctx, key, vendor, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache vendor snapshot", zap.Error(err))
	}
	return vendor, nil
}

// Get enforces vendor self-scope before resolving the snapshot.
func (s *VendorService) Get(ctx context.Context, sapVendorID string, actor *models.JWTClaims) (*models.VendorMasterData, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleVendor && actor.SapVendorID != sapVendorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "vendors may only view their own record")
	}
	return s.GetVendor(ctx, sapVendorID)
}

// Invalidate drops the cached snapshot, used after a change request is
// applied downstream.
func (s *VendorService) Invalidate(ctx context.Context, sapVendorID string) {
	if err := s.cache.Invalidate(ctx, vendorCacheKey(sapVendorID)); err != nil {
		s.logger.Warn("failed to invalidate vendor cache", zap.Error(err))
	}
}

func (s *VendorService) fromGateway(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error) {
	if s.gateway == nil {
		return nil, appErrors.Clone(appErrors.ErrBackendDown, "sap gateway not configured")
	}
	return s.gateway.GetVendor(ctx, sapVendorID)
}

func (s *VendorService) fromFallback(ctx context.Context, sapVendorID string) (*models.VendorMasterData, error) {
	if s.fallback == nil {
		return nil, appErrors.Clone(appErrors.ErrBackendDown, "no vendor data source available")
	}
	vendor, err := s.fallback.GetBySapID(ctx, sapVendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("vendor %s not found", sapVendorID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vendor replica")
	}
	return vendor, nil
}

func vendorCacheKey(sapVendorID string) string {
	return "vendor:" + sapVendorID
}
