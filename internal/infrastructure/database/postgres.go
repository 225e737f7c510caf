package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/config"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Identity entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Reference data
		&entity.Branch{},
		&entity.CatalogItem{},
		&entity.ReferralProvider{},
		&entity.BankAccount{},

		// Patient and billing entities
		&entity.Patient{},
		&entity.Invoice{},
		&entity.InvoiceItem{},

		// System entities
		&entity.NotificationLog{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions,
// a main branch, reference catalog items, and the admin user).
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	permissions := []entity.Permission{
		{Name: "manage-billing", GuardName: "web"},
		{Name: "manage-catalog", GuardName: "web"},
		{Name: "manage-patients", GuardName: "web"},
		{Name: "manage-referrals", GuardName: "web"},
		{Name: "manage-notifications", GuardName: "web"},
		{Name: "view-reports", GuardName: "web"},
		{Name: "manage-users", GuardName: "web"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	seedRole(db, "super-admin", allPermissions)
	seedRole(db, "head-office", allPermissions)
	seedRole(db, "admin", allPermissions)
	seedRole(db, "cashier", pickPermissions(allPermissions,
		"manage-billing", "manage-patients", "manage-referrals", "manage-notifications"))
	seedRole(db, "lab-staff", pickPermissions(allPermissions,
		"manage-patients", "manage-notifications", "view-reports"))

	mainBranch := seedMainBranch(db)
	seedCatalog(db, mainBranch)
	seedBankAccounts(db)
	seedAdminUser(db, mainBranch)

	log.Println("Default data seeding completed")
	return nil
}

func seedRole(db *gorm.DB, name string, perms []entity.Permission) {
	var role entity.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		role = entity.Role{
			Name:        name,
			GuardName:   "web",
			Permissions: perms,
		}
		if err := db.Create(&role).Error; err != nil {
			log.Printf("Warning: failed to create %s role: %v", name, err)
		}
	}
}

func pickPermissions(all []entity.Permission, names ...string) []entity.Permission {
	var picked []entity.Permission
	for _, name := range names {
		for _, p := range all {
			if p.Name == name {
				picked = append(picked, p)
				break
			}
		}
	}
	return picked
}

func seedMainBranch(db *gorm.DB) *entity.Branch {
	var branch entity.Branch
	if err := db.Where("code = ?", "MAIN").First(&branch).Error; err == nil {
		return &branch
	}

	branch = entity.Branch{
		Name: "Main Branch",
		Code: "MAIN",
	}
	if err := db.Create(&branch).Error; err != nil {
		log.Printf("Warning: failed to create main branch: %v", err)
		return nil
	}
	return &branch
}

func seedCatalog(db *gorm.DB, branch *entity.Branch) {
	if branch == nil {
		return
	}

	// Prices are stored in the minor unit (kobo).
	items := []entity.CatalogItem{
		{Name: "Full Blood Count", Code: "FBC", Price: 800000, Active: true},
		{Name: "Lipid Panel", Code: "LIPID", Price: 1200000, Active: true},
		{Name: "Fasting Blood Sugar", Code: "FBS", Price: 350000, Active: true},
		{Name: "Liver Function Test", Code: "LFT", Price: 1500000, Active: true},
		{Name: "Chest X-Ray", Code: "CXR", Price: 1000000, Active: true},
		{Name: "Abdominal Ultrasound", Code: "USS-ABD", Price: 1800000, Active: true},
	}

	category := "Laboratory"
	imaging := "Imaging"
	items[0].Category = &category
	items[1].Category = &category
	items[2].Category = &category
	items[3].Category = &category
	items[4].Category = &imaging
	items[5].Category = &imaging

	for i := range items {
		var existing entity.CatalogItem
		if err := db.Where("code = ?", items[i].Code).First(&existing).Error; err != nil {
			items[i].BranchID = branch.ID
			if err := db.Create(&items[i]).Error; err != nil {
				log.Printf("Warning: failed to create catalog item %s: %v", items[i].Code, err)
			}
		}
	}
}

func seedBankAccounts(db *gorm.DB) {
	var count int64
	db.Model(&entity.BankAccount{}).Count(&count)
	if count > 0 {
		return
	}

	accountName := viper.GetString("BANK_ACCOUNT_NAME")
	bankName := viper.GetString("BANK_NAME")
	accountNumber := viper.GetString("BANK_ACCOUNT_NUMBER")
	if accountName == "" || bankName == "" || accountNumber == "" {
		return
	}

	account := entity.BankAccount{
		AccountName:        accountName,
		BankName:           bankName,
		AccountNumber:      accountNumber,
		IsDefaultReceiving: true,
	}
	if err := db.Create(&account).Error; err != nil {
		log.Printf("Warning: failed to create default bank account: %v", err)
	}
}

func seedAdminUser(db *gorm.DB, branch *entity.Branch) {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		return
	}

	var existingAdmin entity.User
	if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err == nil {
		log.Printf("Admin user already exists: %s", adminEmail)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: failed to hash admin password: %v", err)
		return
	}

	var saRole entity.Role
	if err := db.Where("name = ?", "super-admin").First(&saRole).Error; err != nil {
		log.Printf("Warning: super-admin role not found: %v", err)
		return
	}

	if adminName == "" {
		adminName = "Super Admin"
	}
	firstName := adminName
	lastName := ""
	for i, c := range adminName {
		if c == ' ' {
			firstName = adminName[:i]
			lastName = adminName[i+1:]
			break
		}
	}

	adminUser := entity.User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     adminEmail,
		Password:  string(hashedPassword),
		Roles:     []entity.Role{saRole},
	}
	if branch != nil {
		adminUser.BranchID = &branch.ID
	}
	if err := db.Create(&adminUser).Error; err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", adminEmail)
	}
}
