package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice is the central billing record: a patient, a set of priced catalog
// line items, and a one-way unpaid -> paid lifecycle. Payment fields are
// populated exactly once, when the invoice is paid.
type Invoice struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BranchID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"branch_id"`
	PatientID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	PatientName        string             `gorm:"size:255;not null" json:"patient_name"`
	ReferralProviderID *uuid.UUID         `gorm:"type:uuid;index" json:"referral_provider_id,omitempty"`
	CreatedByID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedByName      string             `gorm:"size:255" json:"created_by_name"`
	InvoiceNo          string             `gorm:"size:100;unique;not null" json:"invoice_no"`
	Status             enum.InvoiceStatus `gorm:"default:0;index" json:"status"`
	SubTotal           int64              `gorm:"default:0" json:"-"` // Stored in kobo/cents, excluded from JSON
	DiscountPct        int                `gorm:"default:0" json:"discount_percentage"`
	DiscountAmount     int64              `gorm:"default:0" json:"-"` // Stored in kobo/cents, excluded from JSON
	Total              int64              `gorm:"default:0" json:"-"` // Stored in kobo/cents, excluded from JSON

	// Payment metadata, set when the invoice transitions to paid.
	PaymentMethod          *enum.PaymentMethod `gorm:"size:20" json:"payment_method,omitempty"`
	PaymentDetails         *PaymentDetails     `gorm:"type:jsonb" json:"payment_details,omitempty"`
	ReceivingBankAccountID *uuid.UUID          `gorm:"type:uuid" json:"receiving_bank_account_id,omitempty"`
	ReceiptNo              *string             `gorm:"size:100;uniqueIndex" json:"receipt_no,omitempty"`
	PaidAt                 *time.Time          `json:"paid_at,omitempty"`
	PaidByID               *uuid.UUID          `gorm:"type:uuid" json:"paid_by_id,omitempty"`
	PaidByName             *string             `gorm:"size:255" json:"paid_by_name,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch           Branch            `gorm:"foreignKey:BranchID" json:"-"`
	Patient          Patient           `gorm:"foreignKey:PatientID" json:"-"`
	ReferralProvider *ReferralProvider `gorm:"foreignKey:ReferralProviderID" json:"referral_provider,omitempty"`
	BankAccount      *BankAccount      `gorm:"foreignKey:ReceivingBankAccountID" json:"bank_account,omitempty"`
	Items            []InvoiceItem     `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		DiscountAmount float64 `json:"discount_amount"`
		Total          float64 `json:"total"`
	}{
		Alias:          Alias(i),
		SubTotal:       float64(i.SubTotal) / 100,
		DiscountAmount: float64(i.DiscountAmount) / 100,
		Total:          float64(i.Total) / 100,
	})
}

// IsPaid reports whether the invoice has reached its terminal state.
func (i *Invoice) IsPaid() bool {
	return i.Status == enum.InvoiceStatusPaid
}

// GetTotalDecimal returns the total as a decimal
func (i *Invoice) GetTotalDecimal() float64 {
	return float64(i.Total) / 100
}

// GetSubTotalDecimal returns the subtotal as a decimal
func (i *Invoice) GetSubTotalDecimal() float64 {
	return float64(i.SubTotal) / 100
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one priced test or service on an invoice. Name, code and
// unit price are denormalized from the catalog at creation time so later
// catalog edits do not rewrite history.
type InvoiceItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	CatalogItemID uuid.UUID      `gorm:"type:uuid;not null;index" json:"catalog_item_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Code          string         `gorm:"size:100" json:"code"`
	Quantity      int            `gorm:"not null;default:1" json:"quantity"`
	UnitPrice     int64          `gorm:"not null" json:"-"` // Stored in kobo/cents, excluded from JSON
	Total         int64          `gorm:"not null" json:"-"` // Stored in kobo/cents, excluded from JSON
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice     Invoice     `gorm:"foreignKey:InvoiceID" json:"-"`
	CatalogItem CatalogItem `gorm:"foreignKey:CatalogItemID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(it),
		UnitPrice: float64(it.UnitPrice) / 100,
		Total:     float64(it.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// PaymentDetails carries the method-specific reference fields captured at
// payment time. Cash payments leave it empty.
type PaymentDetails struct {
	CardLastFour   string `json:"card_last_four,omitempty"`
	TransactionRef string `json:"transaction_ref,omitempty"`
	TransferRef    string `json:"transfer_ref,omitempty"`
	SendingBank    string `json:"sending_bank,omitempty"`
}

// Scan implements the sql.Scanner interface for PaymentDetails
func (pd *PaymentDetails) Scan(value interface{}) error {
	if value == nil {
		*pd = PaymentDetails{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentDetails: unsupported type")
	}

	return json.Unmarshal(bytes, pd)
}

// Value implements the driver.Valuer interface for PaymentDetails
func (pd PaymentDetails) Value() (driver.Value, error) {
	return json.Marshal(pd)
}
