package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fuelquota-platform/fuelquota/internal/database"
	"github.com/fuelquota-platform/fuelquota/internal/events"
	mw "github.com/fuelquota-platform/fuelquota/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import
// cycles.
type HandlerSet struct {
	// Admin auth handlers
	AdminLogin   http.HandlerFunc
	RefreshToken http.HandlerFunc

	// Owner handlers
	RegisterOwner     http.HandlerFunc
	VerifyOwnerEmail  http.HandlerFunc
	RequestLoginCode  http.HandlerFunc
	OwnerLogin        http.HandlerFunc
	RequestQRCode     http.HandlerFunc
	IssueQRIdentifier http.HandlerFunc
	GetOwner          http.HandlerFunc

	// Station handlers
	RegisterStation  http.HandlerFunc
	StationLogin     http.HandlerFunc
	GetStation       http.HandlerFunc
	ListStations     http.HandlerFunc
	SetStationActive http.HandlerFunc

	// Vehicle handlers
	RegisterVehicle   http.HandlerFunc
	GetVehicle        http.HandlerFunc
	ListMyVehicles    http.HandlerFunc
	CreateVehicleType http.HandlerFunc
	GetVehicleType    http.HandlerFunc
	ListVehicleTypes  http.HandlerFunc
	UpdateVehicleType http.HandlerFunc
	DeleteVehicleType http.HandlerFunc

	// Quota handlers
	GetQuotaAccount   http.HandlerFunc
	GetQuotaRemaining http.HandlerFunc
	ResetQuotas       http.HandlerFunc

	// Dispense handlers
	Dispense        http.HandlerFunc
	DispenseHistory http.HandlerFunc

	// Distribution handlers
	CreateDistribution    http.HandlerFunc
	SetDistributionStatus http.HandlerFunc
	GetDistribution       http.HandlerFunc
	ListDistributions     http.HandlerFunc
	DistributionStats     http.HandlerFunc

	// Order handlers
	CreateOrder       http.HandlerFunc
	ListOrders        http.HandlerFunc
	ListStationOrders http.HandlerFunc
	DeleteOrder       http.HandlerFunc

	// Inventory handlers
	ListInventory    http.HandlerFunc
	SetInventory     http.HandlerFunc
	ConsumeInventory http.HandlerFunc
	RestockInventory http.HandlerFunc

	// Middleware
	AuthMiddleware func(http.Handler) http.Handler
	RequireStation func(http.Handler) http.Handler
	RequireAdmin   func(http.Handler) http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimiter    func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, eventsClient *events.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe — always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe — checks DB and NATS
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if eventsClient != nil && !eventsClient.Healthy() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		} else if eventsClient == nil {
			health["nats"] = "not configured"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Admin auth (public) — rate-limited
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimiter != nil {
				r.Use(cfg.AuthRateLimiter)
			}
			r.Post("/admin/login", h.AdminLogin)
			r.Post("/refresh", h.RefreshToken)
		})

		// Owner auth flows (public) — OTP endpoints are rate-limited
		r.Route("/owners", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthRateLimiter != nil {
					r.Use(cfg.AuthRateLimiter)
				}
				r.Post("/register", h.RegisterOwner)
				r.Post("/verify-email", h.VerifyOwnerEmail)
				r.Post("/login/request", h.RequestLoginCode)
				r.Post("/login", h.OwnerLogin)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/qr/request", h.RequestQRCode)
				r.Post("/qr", h.IssueQRIdentifier)
				r.Get("/", h.GetOwner)
			})
		})

		// Station auth (public)
		r.Route("/stations", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthRateLimiter != nil {
					r.Use(cfg.AuthRateLimiter)
				}
				r.Post("/register", h.RegisterStation)
				r.Post("/login", h.StationLogin)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Get("/", h.ListStations)

				r.Route("/{stationID}", func(r chi.Router) {
					r.Get("/", h.GetStation)
					r.With(h.RequireAdmin).Put("/active", h.SetStationActive)

					// Station inventory ledger
					r.Route("/inventory", func(r chi.Router) {
						r.Get("/", h.ListInventory)
						r.With(h.RequireAdmin).Put("/", h.SetInventory)
						r.With(h.RequireStation).Post("/consume", h.ConsumeInventory)
						r.With(h.RequireAdmin).Post("/restock", h.RestockInventory)
					})

					r.Get("/distributions", h.ListDistributions)
					r.Get("/orders", h.ListStationOrders)
				})
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			// Vehicles + types
			r.Route("/vehicles", func(r chi.Router) {
				r.Post("/", h.RegisterVehicle)
				r.Get("/mine", h.ListMyVehicles)
				r.Get("/{vehicleNumber}", h.GetVehicle)
			})
			r.Route("/vehicle-types", func(r chi.Router) {
				r.Get("/", h.ListVehicleTypes)
				r.Get("/{typeID}", h.GetVehicleType)

				r.Group(func(r chi.Router) {
					r.Use(h.RequireAdmin)
					r.Post("/", h.CreateVehicleType)
					r.Put("/{typeID}", h.UpdateVehicleType)
					r.Delete("/{typeID}", h.DeleteVehicleType)
				})
			})

			// Quota accounts
			r.Route("/quota", func(r chi.Router) {
				r.Get("/{vehicleNumber}", h.GetQuotaAccount)
				r.Get("/{vehicleNumber}/remaining", h.GetQuotaRemaining)
				r.With(h.RequireAdmin).Post("/reset", h.ResetQuotas)
			})

			// Pump-side dispense
			r.Route("/dispense", func(r chi.Router) {
				r.With(h.RequireStation).Post("/", h.Dispense)
				r.Get("/history", h.DispenseHistory)
			})

			// Station fuel orders
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.CreateOrder)
				r.With(h.RequireAdmin).Get("/", h.ListOrders)
				r.With(h.RequireAdmin).Delete("/{orderID}", h.DeleteOrder)
			})

			// Distributions (admin-managed)
			r.Route("/distributions", func(r chi.Router) {
				r.Get("/stats", h.DistributionStats)
				r.Get("/{distributionID}", h.GetDistribution)

				r.Group(func(r chi.Router) {
					r.Use(h.RequireAdmin)
					r.Post("/", h.CreateDistribution)
					r.Put("/{distributionID}/status", h.SetDistributionStatus)
				})
			})
		})
	})

	return r
}
