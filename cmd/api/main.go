package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/realapp/realapp-api/docs" // Swagger docs
	"github.com/realapp/realapp-api/internal/config"
	"github.com/realapp/realapp-api/internal/database"
	"github.com/realapp/realapp-api/internal/handlers"
	"github.com/realapp/realapp-api/internal/jobs"
	"github.com/realapp/realapp-api/internal/middleware"
	"github.com/realapp/realapp-api/internal/repository"
	"github.com/realapp/realapp-api/internal/services"
	"github.com/realapp/realapp-api/internal/storage"
	"github.com/realapp/realapp-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title RealApp API
// @version 1.0
// @description REST API for the RealApp real estate sales management system

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run migrations and repair computed-value drift
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database schema up to date")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management (admin only)
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.GET("/users/:user_id", h.User.Show)
				admin.PUT("/users/:user_id", h.User.Update)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/restore", h.User.Restore)

				// Rate settings (admin only)
				admin.PUT("/settings", h.Settings.Update)

				// Project hierarchy management (admin only)
				admin.POST("/projects", h.Project.Create)
				admin.PUT("/projects/:project_id", h.Project.Update)
				admin.POST("/projects/:project_id/blocks", h.Project.CreateBlock)
				admin.POST("/blocks/:block_id/floors", h.Project.CreateFloor)
				admin.PUT("/blocks/:block_id/milestones", h.Project.SetMilestone)

				// Unit management (admin only)
				admin.POST("/units", h.Unit.Create)
				admin.PUT("/units/:unit_id", h.Unit.Update)
				admin.DELETE("/units/:unit_id", h.Unit.Delete)
				admin.POST("/units/import", h.Unit.Import)
				admin.POST("/units/:unit_id/block", h.Unit.Block)
				admin.POST("/units/:unit_id/unblock", h.Unit.Unblock)

				// Scheme template management (admin only)
				admin.POST("/schemes", h.Scheme.Create)
				admin.PUT("/schemes/:scheme_id", h.Scheme.Update)
				admin.DELETE("/schemes/:scheme_id", h.Scheme.Delete)

				// Worker status (admin only)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Sales manager + Admin routes (quoting, booking, billing)
			sales := protected.Group("")
			sales.Use(middleware.RequireRole("admin", "sales_manager"))
			{
				// Cost sheets
				sales.POST("/cost_sheets", h.CostSheet.Create)
				sales.PUT("/cost_sheets/:cost_sheet_id", h.CostSheet.Update)
				sales.DELETE("/cost_sheets/:cost_sheet_id", h.CostSheet.Delete)
				sales.POST("/cost_sheets/preview", h.CostSheet.Preview)
				sales.GET("/cost_sheets/:cost_sheet_id/pdf", h.CostSheet.PDF)

				// Booking orders
				sales.POST("/cost_sheets/:cost_sheet_id/booking_orders", h.Booking.Create)
				sales.POST("/booking_orders/:booking_id/submit", h.Booking.Submit)
				sales.POST("/booking_orders/:booking_id/cancel", h.Booking.Cancel)

				// Invoices
				sales.POST("/booking_orders/:booking_id/invoices", h.Booking.CreateInvoices)

				// Pricing previews
				sales.POST("/pricing/header", h.Pricing.HeaderPreview)
				sales.POST("/pricing/before_registration", h.Pricing.BeforeRegistrationPreview)

				// Reports
				sales.GET("/reports/collection", h.Report.Collection)
				sales.GET("/reports/collection/export/:format", h.Report.CollectionExport)

				// Audits
				sales.GET("/audits", h.Audit.Index)
			}

			// Read surface for all authenticated users
			protected.PUT("/profile/password", h.User.ChangePassword)
			protected.GET("/settings", h.Settings.Show)
			protected.GET("/projects", h.Project.Index)
			protected.GET("/projects/:project_id", h.Project.Show)
			protected.GET("/projects/:project_id/blocks", h.Project.Blocks)
			protected.GET("/blocks/:block_id", h.Project.ShowBlock)
			protected.GET("/blocks/:block_id/floors", h.Project.Floors)
			protected.GET("/units", h.Unit.Index)
			protected.GET("/units/status_summary", h.Unit.StatusSummary)
			protected.GET("/units/:unit_id", h.Unit.Show)
			protected.GET("/schemes", h.Scheme.Index)
			protected.GET("/schemes/:scheme_id", h.Scheme.Show)
			protected.GET("/schemes/:scheme_id/rows", h.Scheme.Rows)
			protected.GET("/cost_sheets", h.CostSheet.Index)
			protected.GET("/cost_sheets/:cost_sheet_id", h.CostSheet.Show)
			protected.GET("/cost_sheets/:cost_sheet_id/quotation", h.CostSheet.Quotation)
			protected.GET("/booking_orders", h.Booking.Index)
			protected.GET("/booking_orders/:booking_id", h.Booking.Show)
			protected.GET("/booking_orders/:booking_id/invoices", h.Booking.Invoices)
			protected.GET("/invoices", h.Booking.IndexInvoices)
			protected.GET("/invoices/:invoice_id", h.Booking.ShowInvoice)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Log collection KPIs daily. Read only, never touches pricing snapshots.
	worker.ScheduleEveryImmediate(24*time.Hour, func(ctx context.Context) error {
		report, err := svcs.Collection.Generate(ctx, repository.CollectionFilter{})
		if err != nil {
			return err
		}
		logger.Info("[Job] Collection summary",
			"invoiced", report.Summary.TotalInvoiced,
			"collected", report.Summary.TotalCollected,
			"outstanding", report.Summary.TotalOutstanding,
			"overdue", report.Summary.OverdueCount,
		)
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
