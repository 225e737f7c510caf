package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/enum"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListWithCursor(ctx context.Context, params *InvoiceCursorFilterParams) ([]entity.Invoice, error)
	// MarkPaid applies the payment fields with a conditional update guarded
	// on status still being unpaid. Returns false when another session won
	// the race (or the invoice was already paid).
	MarkPaid(ctx context.Context, id uuid.UUID, payment *entity.Invoice) (bool, error)
	PaymentSummary(ctx context.Context, from, to time.Time) (*PaymentSummary, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	PatientID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// InvoiceCursorFilterParams contains cursor-based filtering for invoice queries
type InvoiceCursorFilterParams struct {
	Cursor    *pagination.CursorParams
	Search    string
	Status    *enum.InvoiceStatus
	PatientID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// PaymentSummary aggregates billing activity for the dashboard's periodic
// refresh (amounts in kobo/cents).
type PaymentSummary struct {
	InvoiceCount  int64 `json:"invoice_count"`
	UnpaidCount   int64 `json:"unpaid_count"`
	PaidCount     int64 `json:"paid_count"`
	BilledTotal   int64 `json:"billed_total"`
	CollectedCash int64 `json:"collected_cash"`
	CollectedBank int64 `json:"collected_bank"`
}

// InvoiceItemRepository defines the interface for invoice line-item operations
type InvoiceItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.InvoiceItem) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error)
}
