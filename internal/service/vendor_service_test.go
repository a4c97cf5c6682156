package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/repository"
	appErrors "github.com/procure-core/vendor-mdm-api/pkg/errors"
)

type failingGateway struct {
	err error
}

func (g *failingGateway) GetVendor(context.Context, string) (*models.VendorMasterData, error) {
	return nil, g.err
}

func TestVendorServiceGatewayPrimary(t *testing.T) {
	svc := NewVendorService(acmeVendorProvider(), repository.NewMemoryVendorRepository(), nil, 0, nil)

	vendor, err := svc.GetVendor(context.Background(), "100450")
	require.NoError(t, err)
	require.Equal(t, "Acme Corp Global", vendor.Name)
}

func TestVendorServiceFallsBackToReplica(t *testing.T) {
	gateway := &failingGateway{err: appErrors.Clone(appErrors.ErrBackendDown, "gateway down")}
	svc := NewVendorService(gateway, repository.NewMemoryVendorRepository(), nil, 0, nil)

	vendor, err := svc.GetVendor(context.Background(), "100450")
	require.NoError(t, err)
	require.Equal(t, "Acme Corp Global", vendor.Name)
}

func TestVendorServiceGatewayNotFoundDoesNotFallBack(t *testing.T) {
	gateway := &failingGateway{err: appErrors.Clone(appErrors.ErrNotFound, "vendor 999 not found")}
	svc := NewVendorService(gateway, repository.NewMemoryVendorRepository(), nil, 0, nil)

	// The replica has 100450 but the gateway authoritatively said not found.
	_, err := svc.GetVendor(context.Background(), "100450")
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestVendorServiceUnknownVendor(t *testing.T) {
	gateway := &failingGateway{err: appErrors.Clone(appErrors.ErrBackendDown, "gateway down")}
	svc := NewVendorService(gateway, repository.NewMemoryVendorRepository(), nil, 0, nil)

	_, err := svc.GetVendor(context.Background(), "999999")
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestVendorServiceSelfScope(t *testing.T) {
	svc := NewVendorService(acmeVendorProvider(), nil, nil, 0, nil)

	_, err := svc.Get(context.Background(), "200999", vendorClaims())
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	vendor, err := svc.Get(context.Background(), "100450", vendorClaims())
	require.NoError(t, err)
	require.Equal(t, "100450", vendor.SapVendorID)

	vendor, err = svc.Get(context.Background(), "100450", approverClaims())
	require.NoError(t, err)
	require.Equal(t, "Acme Corp Global", vendor.Name)
}
