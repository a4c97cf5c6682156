package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/procure-core/vendor-mdm-api/api/swagger"
	"github.com/procure-core/vendor-mdm-api/internal/handler"
	"github.com/procure-core/vendor-mdm-api/internal/middleware"
	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/repository"
	"github.com/procure-core/vendor-mdm-api/internal/sap"
	"github.com/procure-core/vendor-mdm-api/internal/service"
	"github.com/procure-core/vendor-mdm-api/pkg/cache"
	"github.com/procure-core/vendor-mdm-api/pkg/config"
	"github.com/procure-core/vendor-mdm-api/pkg/database"
	"github.com/procure-core/vendor-mdm-api/pkg/logger"
	corsmiddleware "github.com/procure-core/vendor-mdm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/procure-core/vendor-mdm-api/pkg/middleware/requestid"
	"github.com/procure-core/vendor-mdm-api/pkg/storage"
)

// @title Vendor MDM API
// @version 1.0.0
// @description Vendor master data self-service portal backend
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	stores, storeMode := buildStores(cfg, logr)

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, vendor cache disabled")
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.VendorTTL, logr, true)
		}
	}

	certStore, err := storage.NewLocalStorage(cfg.Storage.CertificateDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init certificate storage", "error", err)
	}

	gateway := sap.NewClient(cfg.Sap.GatewayBaseURL, cfg.Sap.Timeout, logr)

	authSvc := service.NewAuthService(stores.Users, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "vendor-mdm-api",
	})

	sanctionSvc := service.NewSanctionService(stores.Onboarding, service.SanctionConfig{
		DenyList:   cfg.Sanctions.DenyList,
		Workers:    cfg.Sanctions.Workers,
		MaxRetries: cfg.Sanctions.MaxRetries,
		RetryDelay: cfg.Sanctions.RetryDelay,
	}, logr)
	sanctionSvc.Start(context.Background())
	defer sanctionSvc.Stop()

	onboardingSvc := service.NewOnboardingService(stores.Onboarding, sanctionSvc, validate, stores.Users, metricsSvc, logr)
	vendorSvc := service.NewVendorService(gateway, stores.Vendors, cacheSvc, cfg.Cache.VendorTTL, logr)
	changeRequestSvc := service.NewChangeRequestService(stores.ChangeRequests, vendorSvc, stores.Onboarding, stores.Users, metricsSvc, logr)
	exportSvc := service.NewExportService(stores.ChangeRequests, logr)
	invitationSvc := service.NewInvitationService(stores.Invitations, onboardingSvc, validate, stores.Users, service.InvitationConfig{
		LinkBaseURL:       cfg.Invitations.LinkBaseURL,
		DefaultExpiration: cfg.Invitations.DefaultExpiration,
	}, logr)
	sapSvc := service.NewSapService(stores.SapConfig, gateway, certStore, validate, stores.Users, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	vendorHandler := handler.NewVendorHandler(vendorSvc)
	changeRequestHandler := handler.NewChangeRequestHandler(changeRequestSvc, exportSvc)
	onboardingHandler := handler.NewOnboardingHandler(onboardingSvc)
	invitationHandler := handler.NewInvitationHandler(invitationSvc)
	sapAdminHandler := handler.NewSapAdminHandler(sapSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	healthHandler := handler.NewHealthHandler(cfg.Email.HealthURL, storeMode, cacheSvc != nil)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", healthHandler.Health)
	r.GET("/health/email-service", healthHandler.EmailService)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Public: login, token refresh, the registration flow reached from the
	// invitation email and direct onboarding submissions.
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/invitation/validate/:token", invitationHandler.Validate)
	api.POST("/invitation/complete/:token", invitationHandler.Complete)
	api.POST("/onboarding", onboardingHandler.Submit)

	authed := api.Group("", middleware.JWT(authSvc))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/vendor/:vendorId",
			middleware.RBAC(string(models.RoleApprover), string(models.RoleAdmin), middleware.AllowSelf),
			vendorHandler.Get)
		authed.GET("/vendor/onboarding/pending",
			middleware.RequireRoles(models.RoleApprover, models.RoleAdmin),
			onboardingHandler.Pending)

		cr := authed.Group("/changerequest")
		{
			cr.POST("", middleware.RequireRoles(models.RoleVendor, models.RoleAdmin), changeRequestHandler.Create)
			cr.GET("", changeRequestHandler.List)
			cr.GET("/vendor/:vendorId",
				middleware.RBAC(string(models.RoleApprover), string(models.RoleAdmin), middleware.AllowSelf),
				changeRequestHandler.ListByVendor)
			cr.GET("/worklist", middleware.RequireRoles(models.RoleApprover, models.RoleAdmin), changeRequestHandler.Worklist)
			cr.GET("/stats", middleware.RequireRoles(models.RoleApprover, models.RoleAdmin), changeRequestHandler.Stats)
			cr.GET("/history", changeRequestHandler.History)
			cr.GET("/history/export",
				middleware.Audit(stores.Users, logr, models.AuditActionExportDownload, "change-history"),
				changeRequestHandler.ExportHistory)
			cr.GET("/:id", changeRequestHandler.Get)
			cr.POST("/:id/approve", middleware.RequireRoles(models.RoleApprover, models.RoleAdmin), changeRequestHandler.Approve)
			cr.POST("/:id/reject", middleware.RequireRoles(models.RoleApprover, models.RoleAdmin), changeRequestHandler.Reject)
		}

		ob := authed.Group("/onboarding", middleware.RequireRoles(models.RoleApprover, models.RoleAdmin))
		{
			ob.GET("", onboardingHandler.List)
			ob.GET("/:id", onboardingHandler.Get)
			ob.POST("/:id/approve", onboardingHandler.Approve)
			ob.POST("/:id/reject", onboardingHandler.Reject)
		}

		inv := authed.Group("/invitation", middleware.RequireRoles(models.RoleAdmin))
		{
			inv.POST("/create", invitationHandler.Create)
			inv.GET("/list", invitationHandler.List)
			inv.POST("/resend/:id", invitationHandler.Resend)
			inv.POST("/revoke/:id", invitationHandler.Revoke)
		}

		admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/sap/configuration", sapAdminHandler.GetConfig)
			admin.PUT("/sap/configuration", sapAdminHandler.UpdateConfig)
			admin.POST("/sap/test-connection", sapAdminHandler.TestConnection)
			admin.POST("/sap/certificate", sapAdminHandler.UploadCertificate)
			admin.GET("/metrics", metricsHandler.Snapshot)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// buildStores connects to Postgres unless mock mode is forced. A failed
// connection degrades to the seeded in-memory stores so the portal can run
// without infrastructure.
func buildStores(cfg *config.Config, logr *zap.Logger) (*repository.Stores, string) {
	if cfg.Mock.Enabled {
		logr.Info("mock mode enabled, using in-memory stores")
		return repository.NewMemoryStores(), "memory"
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Warnw("database unavailable, falling back to in-memory stores", "error", err)
		return repository.NewMemoryStores(), "memory"
	}
	return repository.NewPostgresStores(db), "postgres"
}
