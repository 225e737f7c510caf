package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/medilabs/diagnostics-api/internal/application/service"
	"github.com/medilabs/diagnostics-api/internal/config"
	"github.com/medilabs/diagnostics-api/internal/infrastructure/database"
	"github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/handler"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/routes"
	"github.com/medilabs/diagnostics-api/pkg/email"
	"github.com/medilabs/diagnostics-api/pkg/printer"
	"github.com/medilabs/diagnostics-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	invoiceItemRepo := repository.NewInvoiceItemRepository(db)
	bankAccountRepo := repository.NewBankAccountRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service. It renders the templates and delivers them
	// over SMTP.
	emailService := email.NewService(email.Config{
		SMTPHost:        cfg.Email.SMTPHost,
		SMTPPort:        cfg.Email.SMTPPort,
		SMTPUsername:    cfg.Email.SMTPUsername,
		SMTPPassword:    cfg.Email.SMTPPassword,
		FromName:        cfg.Email.FromName,
		FromEmail:       cfg.Email.FromEmail,
		LabQualityInbox: cfg.Email.LabQualityInbox,
	})

	// Initialize services
	notificationService := service.NewNotificationService(
		emailService,
		emailService,
		notificationRepo,
		patientRepo,
		userRepo,
		cfg.Center,
	)
	invoiceService := service.NewInvoiceService(invoiceRepo, invoiceItemRepo, catalogRepo, patientRepo, referralRepo)
	paymentService := service.NewPaymentService(invoiceRepo, bankAccountRepo, patientRepo, invoiceService, notificationService)
	patientService := service.NewPatientService(patientRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	referralService := service.NewReferralService(referralRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	receiptService := service.NewReceiptService(invoiceRepo, thermalPrinter, cfg.Center, cfg.Printer)

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice:      handler.NewInvoiceHandler(invoiceService, paymentService),
		Receipt:      handler.NewReceiptHandler(receiptService),
		Patient:      handler.NewPatientHandler(patientService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Referral:     handler.NewReferralHandler(referralService),
		BankAccount:  handler.NewBankAccountHandler(bankAccountRepo),
		Notification: handler.NewNotificationHandler(notificationService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		BranchRepo:      branchRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
