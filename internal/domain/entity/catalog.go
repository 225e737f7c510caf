package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogItem is one billable test or service from the pricing catalog.
type CatalogItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BranchID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Code      string         `gorm:"size:100;unique;not null" json:"code"`
	Category  *string        `gorm:"size:100" json:"category,omitempty"`
	Price     int64          `gorm:"not null" json:"-"` // Stored in kobo/cents, excluded from JSON
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch Branch `gorm:"foreignKey:BranchID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c CatalogItem) MarshalJSON() ([]byte, error) {
	type Alias CatalogItem
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(c),
		Price: float64(c.Price) / 100,
	})
}

// GetPriceDecimal returns the price as a decimal (for display)
func (c *CatalogItem) GetPriceDecimal() float64 {
	return float64(c.Price) / 100
}

// SetPriceFromDecimal sets the price from a decimal value
func (c *CatalogItem) SetPriceFromDecimal(price float64) {
	c.Price = int64(price * 100)
}

// BeforeCreate generates a UUID before creating a new catalog item
func (c *CatalogItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CatalogItem model
func (CatalogItem) TableName() string {
	return "catalog_items"
}
