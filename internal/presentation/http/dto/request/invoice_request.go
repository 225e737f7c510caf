package request

import "github.com/google/uuid"

// InvoiceItemRequest represents one catalog item on an invoice request
type InvoiceItemRequest struct {
	CatalogItemID uuid.UUID `json:"catalog_item_id" binding:"required"`
	Quantity      int       `json:"quantity" binding:"omitempty,min=1"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	PatientID          uuid.UUID            `json:"patient_id" binding:"required"`
	ReferralProviderID *uuid.UUID           `json:"referral_provider_id"`
	DiscountPct        int                  `json:"discount_percentage" binding:"min=0,max=100"`
	Items              []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	PatientID string `form:"patient_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Limit     int    `form:"limit"` // For cursor-based pagination
}
