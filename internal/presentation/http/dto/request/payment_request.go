package request

import "github.com/google/uuid"

// PaymentDetailsRequest carries the method-specific reference fields
type PaymentDetailsRequest struct {
	CardLastFour   string `json:"card_last_four" binding:"omitempty,len=4"`
	TransactionRef string `json:"transaction_ref" binding:"omitempty,max=100"`
	TransferRef    string `json:"transfer_ref" binding:"omitempty,max=100"`
	SendingBank    string `json:"sending_bank" binding:"omitempty,max=100"`
}

// PayInvoiceRequest represents a payment collection request
type PayInvoiceRequest struct {
	Method                 string                `json:"method" binding:"required"`
	Details                PaymentDetailsRequest `json:"details"`
	ReceivingBankAccountID *uuid.UUID            `json:"receiving_bank_account_id"`
}

// WalkInPatientRequest registers a patient inline during walk-in billing
type WalkInPatientRequest struct {
	FirstName string  `json:"first_name" binding:"required,min=1,max=255"`
	LastName  string  `json:"last_name" binding:"omitempty,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// WalkInItemRequest is a line item on a walk-in bill. Unlike the invoice
// flow, the front desk may override the unit price for ad hoc services.
type WalkInItemRequest struct {
	CatalogItemID uuid.UUID `json:"catalog_item_id" binding:"required"`
	Quantity      int       `json:"quantity" binding:"min=1"`
	UnitPrice     *float64  `json:"unit_price" binding:"omitempty,min=0"`
}

// WalkInBillRequest represents the combined create-and-pay request used at
// the front desk.
type WalkInBillRequest struct {
	PatientID              *uuid.UUID            `json:"patient_id"`
	NewPatient             *WalkInPatientRequest `json:"new_patient"`
	ReferralProviderID     *uuid.UUID            `json:"referral_provider_id"`
	DiscountPct            int                   `json:"discount_percentage" binding:"min=0,max=100"`
	Items                  []WalkInItemRequest   `json:"items" binding:"required,min=1,dive"`
	Method                 string                `json:"method" binding:"required"`
	Details                PaymentDetailsRequest `json:"details"`
	ReceivingBankAccountID *uuid.UUID            `json:"receiving_bank_account_id"`
}
