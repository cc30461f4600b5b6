package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/fuelquota-platform/fuelquota/internal/api"
	"github.com/fuelquota-platform/fuelquota/internal/auth"
	"github.com/fuelquota-platform/fuelquota/internal/config"
	"github.com/fuelquota-platform/fuelquota/internal/database"
	"github.com/fuelquota-platform/fuelquota/internal/dispense"
	"github.com/fuelquota-platform/fuelquota/internal/distribution"
	"github.com/fuelquota-platform/fuelquota/internal/events"
	"github.com/fuelquota-platform/fuelquota/internal/inventory"
	"github.com/fuelquota-platform/fuelquota/internal/middleware"
	"github.com/fuelquota-platform/fuelquota/internal/notify"
	"github.com/fuelquota-platform/fuelquota/internal/orders"
	"github.com/fuelquota-platform/fuelquota/internal/otp"
	"github.com/fuelquota-platform/fuelquota/internal/owners"
	"github.com/fuelquota-platform/fuelquota/internal/quota"
	iredis "github.com/fuelquota-platform/fuelquota/internal/redis"
	"github.com/fuelquota-platform/fuelquota/internal/registry"
	"github.com/fuelquota-platform/fuelquota/internal/server"
	"github.com/fuelquota-platform/fuelquota/internal/stations"
	"github.com/fuelquota-platform/fuelquota/internal/vehicles"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	ctx := context.Background()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS JetStream (optional; events degrade to no-ops without it)
	var eventsClient *events.Client
	var publisher *events.Publisher
	eventsClient, err = events.NewClient(ctx, cfg.NATS)
	if err != nil {
		slog.Warn("connecting to nats failed, events disabled", "error", err)
		eventsClient = nil
	} else {
		defer eventsClient.Close()
		publisher = events.NewPublisher(eventsClient.JetStream())
	}

	// Auth
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authHandler := auth.NewHandler(jwtManager, cfg.Admin.Email, cfg.Admin.PasswordHash)

	// Delivery channels
	emailSender := notify.Sender(notify.LogSender{})
	if cfg.Notify.SMTPHost != "" {
		emailSender = notify.NewSMTPSender(cfg.Notify, "Fuel Quota Verification")
	}
	var smsSender notify.Sender
	if cfg.Notify.SMSBaseURL != "" {
		smsSender = notify.NewHTTPSMSSender(cfg.Notify)
	}

	// OTP ledger
	otpStore := otp.NewStore(redisClient)
	otpSvc := otp.NewService(otpStore, emailSender, cfg.OTP.TTL)

	// Registries
	registryClient := registry.NewClient(cfg.Registry)

	ownerRepo := owners.NewRepository(pool)
	ownerSvc := owners.NewService(ownerRepo, otpSvc, jwtManager)
	ownerHandler := owners.NewHandler(ownerSvc)

	stationRepo := stations.NewRepository(pool)
	stationSvc := stations.NewService(stationRepo, jwtManager)
	stationHandler := stations.NewHandler(stationSvc)

	vehicleRepo := vehicles.NewRepository(pool)
	vehicleSvc := vehicles.NewService(vehicleRepo, ownerSvc, registryClient)
	vehicleHandler := vehicles.NewHandler(vehicleSvc)

	// Quota accounts
	quotaRepo := quota.NewRepository(pool)
	quotaSvc := quota.NewService(quotaRepo)
	quotaHandler := quota.NewHandler(quotaSvc)

	// Inventory ledger
	inventoryRepo := inventory.NewRepository(pool)
	inventorySvc := inventory.NewService(inventoryRepo, stationSvc)
	inventoryHandler := inventory.NewHandler(inventorySvc)

	// Distribution state machine
	distributionRepo := distribution.NewRepository(pool)
	distributionSvc := distribution.NewService(distributionRepo, stationSvc, inventorySvc, publisher)
	distributionHandler := distribution.NewHandler(distributionSvc)

	// Station fuel orders
	orderRepo := orders.NewRepository(pool)
	orderSvc := orders.NewService(orderRepo, stationSvc)
	orderHandler := orders.NewHandler(orderSvc)

	// Dispense engine
	resolver := dispense.NewResolver(cfg.Dispense.Resolver, quotaRepo)
	idemCache := dispense.NewIdempotencyCache(redisClient, cfg.Dispense.IdempotencyTTL)
	transactionRepo := dispense.NewTransactionRepository(pool)
	dispenseSvc := dispense.NewService(resolver, quotaSvc, transactionRepo, idemCache, smsSender, publisher)
	dispenseHandler := dispense.NewHandler(dispenseSvc)

	// OTP and login endpoints get a per-IP sliding window
	rateLimiter := middleware.NewRateLimiter(redisClient, 10, 60)

	router := api.NewRouter(pool, eventsClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthRateLimiter:    rateLimiter.Middleware,
	}, api.HandlerSet{
		AdminLogin:   authHandler.AdminLogin,
		RefreshToken: authHandler.Refresh,

		RegisterOwner:     ownerHandler.Register,
		VerifyOwnerEmail:  ownerHandler.VerifyEmail,
		RequestLoginCode:  ownerHandler.RequestLoginCode,
		OwnerLogin:        ownerHandler.Login,
		RequestQRCode:     ownerHandler.RequestQRCode,
		IssueQRIdentifier: ownerHandler.IssueQRIdentifier,
		GetOwner:          ownerHandler.Get,

		RegisterStation:  stationHandler.Register,
		StationLogin:     stationHandler.Login,
		GetStation:       stationHandler.Get,
		ListStations:     stationHandler.List,
		SetStationActive: stationHandler.SetActive,

		RegisterVehicle:   vehicleHandler.Register,
		GetVehicle:        vehicleHandler.Get,
		ListMyVehicles:    vehicleHandler.ListMine,
		CreateVehicleType: vehicleHandler.CreateType,
		GetVehicleType:    vehicleHandler.GetType,
		ListVehicleTypes:  vehicleHandler.ListTypes,
		UpdateVehicleType: vehicleHandler.UpdateType,
		DeleteVehicleType: vehicleHandler.DeleteType,

		GetQuotaAccount:   quotaHandler.GetAccount,
		GetQuotaRemaining: quotaHandler.GetRemaining,
		ResetQuotas:       quotaHandler.Reset,

		Dispense:        dispenseHandler.Dispense,
		DispenseHistory: dispenseHandler.History,

		CreateDistribution:    distributionHandler.Create,
		SetDistributionStatus: distributionHandler.SetStatus,
		GetDistribution:       distributionHandler.Get,
		ListDistributions:     distributionHandler.ListForStation,
		DistributionStats:     distributionHandler.Stats,

		CreateOrder:       orderHandler.Create,
		ListOrders:        orderHandler.List,
		ListStationOrders: orderHandler.ListForStation,
		DeleteOrder:       orderHandler.Delete,

		ListInventory:    inventoryHandler.List,
		SetInventory:     inventoryHandler.SetAmount,
		ConsumeInventory: inventoryHandler.Consume,
		RestockInventory: inventoryHandler.Restock,

		AuthMiddleware: auth.Middleware(jwtManager),
		RequireStation: auth.RequireRole(auth.RoleStation, auth.RoleAdmin),
		RequireAdmin:   auth.RequireRole(auth.RoleAdmin),
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
