package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankAccount is an organization account that can receive non-cash payments.
// The list is read-only for billing staff and maintained by finance.
type BankAccount struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	AccountName        string         `gorm:"size:255;not null" json:"account_name"`
	BankName           string         `gorm:"size:255;not null" json:"bank_name"`
	AccountNumber      string         `gorm:"size:50;not null" json:"account_number"`
	IsDefaultReceiving bool           `gorm:"default:false" json:"is_default_receiving"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new bank account
func (b *BankAccount) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BankAccount model
func (BankAccount) TableName() string {
	return "organization_bank_accounts"
}
