package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilabs/diagnostics-api/internal/config"
	domainRepo "github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/handler"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/middleware"
	"github.com/medilabs/diagnostics-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice      *handler.InvoiceHandler
	Receipt      *handler.ReceiptHandler
	Patient      *handler.PatientHandler
	Catalog      *handler.CatalogHandler
	Referral     *handler.ReferralHandler
	BankAccount  *handler.BankAccountHandler
	Notification *handler.NotificationHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	BranchRepo      domainRepo.BranchRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes, all behind JWT auth and branch resolution
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	v1.Use(middleware.BranchMiddleware(deps.BranchRepo))

	// Per-branch rate limiter
	rateLimiter := middleware.NewBranchRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	v1.Use(rateLimiter.Middleware())

	registerBillingRoutes(v1, h, deps)
	registerPatientRoutes(v1, h)
	registerCatalogRoutes(v1, h)
	registerReferralRoutes(v1, h)
	registerNotificationRoutes(v1, h)
	registerPrinterRoutes(v1, h)

	return router
}

func registerBillingRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	invoices := v1.Group("/invoices")
	invoices.Use(middleware.RequirePermission("manage-billing"))
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/summary", h.Invoice.Summary)
		// Invoice creation and payment both use idempotency middleware so an
		// accidental retry never double-bills a patient.
		invoices.POST("", idempotency, h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id/pay", idempotency, h.Invoice.Pay)
		invoices.GET("/:id/receipt", h.Receipt.DownloadPDF)
		invoices.GET("/:id/thermal-receipt", h.Receipt.DownloadThermal)
		invoices.POST("/:id/print", h.Receipt.Print)
	}

	// Combined create-and-pay for walk-in patients
	v1.POST("/patient-billing",
		middleware.RequirePermission("manage-billing"),
		idempotency,
		h.Invoice.WalkIn,
	)

	v1.GET("/organization-bank-accounts",
		middleware.RequirePermission("manage-billing"),
		h.BankAccount.List,
	)
}

func registerPatientRoutes(v1 *gin.RouterGroup, h *Handlers) {
	patients := v1.Group("/patients")
	patients.Use(middleware.RequirePermission("manage-patients"))
	{
		patients.GET("", h.Patient.List)
		patients.POST("", h.Patient.Create)
		patients.GET("/:id", h.Patient.Get)
		patients.PUT("/:id", h.Patient.Update)
	}
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	catalog := v1.Group("/catalog")
	catalog.Use(middleware.RequirePermission("manage-catalog"))
	{
		catalog.GET("", h.Catalog.List)
		catalog.POST("", h.Catalog.Create)
		catalog.POST("/import", h.Catalog.Import)
		catalog.GET("/:id", h.Catalog.Get)
		catalog.PUT("/:id", h.Catalog.Update)
	}
}

func registerReferralRoutes(v1 *gin.RouterGroup, h *Handlers) {
	providers := v1.Group("/referral-providers")
	providers.Use(middleware.RequirePermission("manage-billing"))
	{
		providers.GET("", h.Referral.List)
		providers.POST("", h.Referral.Create)
		providers.GET("/:id", h.Referral.Get)
		// Setting commission is a manager action, not a front-desk one.
		providers.PUT("/:id/commission",
			middleware.RequireRole("admin", "head-office", "super-admin"),
			h.Referral.SetCommission,
		)
	}
}

func registerNotificationRoutes(v1 *gin.RouterGroup, h *Handlers) {
	notifications := v1.Group("/notifications")
	notifications.Use(middleware.RequirePermission("manage-notifications"))
	{
		notifications.GET("", h.Notification.List)
		notifications.POST("/appointment-confirmation", h.Notification.SendAppointmentConfirmation)
		notifications.POST("/appointment-reminder", h.Notification.SendAppointmentReminder)
		notifications.POST("/results-ready", h.Notification.SendResultsReady)
		notifications.POST("/critical-alert", h.Notification.SendCriticalAlert)
		notifications.POST("/staff", h.Notification.SendStaffNotification)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printer := v1.Group("/printer")
	printer.Use(middleware.RequirePermission("manage-billing"))
	{
		printer.GET("/status", h.Receipt.Status)
		printer.POST("/test", h.Receipt.TestPrint)
	}
}
