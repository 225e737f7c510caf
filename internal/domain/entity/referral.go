package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralProvider is an external doctor or clinic that refers patients.
// Quick-added providers carry only a name; commission setup is a separate
// manager step, tracked by RequiresCommissionSetup.
type ReferralProvider struct {
	ID                      uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BranchID                uuid.UUID      `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name                    string         `gorm:"size:255;not null" json:"name"`
	Phone                   *string        `gorm:"size:50" json:"phone,omitempty"`
	Email                   *string        `gorm:"size:255" json:"email,omitempty"`
	CommissionRateBps       int            `gorm:"default:0" json:"commission_rate_bps"`
	RequiresCommissionSetup bool           `gorm:"default:false" json:"requires_commission_setup"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch   Branch    `gorm:"foreignKey:BranchID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:ReferralProviderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new referral provider
func (r *ReferralProvider) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReferralProvider model
func (ReferralProvider) TableName() string {
	return "referral_providers"
}
