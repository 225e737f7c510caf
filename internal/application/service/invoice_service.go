package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"github.com/medilabs/diagnostics-api/pkg/utils"
)

// InvoiceService handles invoice creation and queries
type InvoiceService struct {
	invoiceRepo     repository.InvoiceRepository
	invoiceItemRepo repository.InvoiceItemRepository
	catalogRepo     repository.CatalogRepository
	patientRepo     repository.PatientRepository
	referralRepo    repository.ReferralRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	invoiceItemRepo repository.InvoiceItemRepository,
	catalogRepo repository.CatalogRepository,
	patientRepo repository.PatientRepository,
	referralRepo repository.ReferralRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		invoiceItemRepo: invoiceItemRepo,
		catalogRepo:     catalogRepo,
		patientRepo:     patientRepo,
		referralRepo:    referralRepo,
	}
}

// InvoiceItemInput represents one requested catalog item on an invoice.
// UnitPrice is an optional minor-unit override used by the walk-in flow for
// ad hoc pricing; when nil the catalog price applies.
type InvoiceItemInput struct {
	CatalogItemID uuid.UUID
	Quantity      int
	UnitPrice     *int64
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	UserID             uuid.UUID
	UserName           string
	PatientID          uuid.UUID
	ReferralProviderID *uuid.UUID
	DiscountPct        int
	Items              []InvoiceItemInput
}

// ComputeAmounts derives the discount amount and final total from a subtotal
// in the minor unit. Discount is floored to the nearest kobo/cent so the
// center never gives away fractions.
func ComputeAmounts(subTotal int64, discountPct int) (discountAmount, total int64) {
	discountAmount = subTotal * int64(discountPct) / 100
	total = subTotal - discountAmount
	return discountAmount, total
}

// CreateInvoice creates a new unpaid invoice. Totals are always recomputed
// server-side from catalog prices (or an explicit per-line override); client
// submitted totals are never trusted. Duplicate catalog items in the request
// collapse into the first occurrence.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	branchID, ok := infraRepo.GetBranchID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Branch context required")
	}

	if len(input.Items) == 0 {
		return nil, apperror.ErrEmptyInvoice
	}

	if input.DiscountPct < 0 || input.DiscountPct > 100 {
		return nil, apperror.NewUnprocessableError("Discount percentage must be between 0 and 100")
	}

	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	if input.ReferralProviderID != nil {
		provider, err := s.referralRepo.GetByID(ctx, *input.ReferralProviderID)
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, apperror.NewNotFoundError("Referral provider")
		}
	}

	// Collapse duplicate catalog items, first occurrence wins.
	seen := make(map[uuid.UUID]bool, len(input.Items))
	items := make([]InvoiceItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		if seen[item.CatalogItemID] {
			continue
		}
		seen[item.CatalogItemID] = true
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items = append(items, item)
	}

	// Batch fetch all catalog items in one query (prevents N+1)
	catalogIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		catalogIDs[i] = item.CatalogItemID
	}

	catalogItems, err := s.catalogRepo.GetByIDs(ctx, catalogIDs)
	if err != nil {
		return nil, err
	}

	catalogMap := make(map[uuid.UUID]*entity.CatalogItem, len(catalogItems))
	for i := range catalogItems {
		catalogMap[catalogItems[i].ID] = &catalogItems[i]
	}

	var subTotal int64
	invoiceItems := make([]entity.InvoiceItem, 0, len(items))

	for _, item := range items {
		catalogItem, exists := catalogMap[item.CatalogItemID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Catalog item %s", item.CatalogItemID))
		}
		if !catalogItem.Active {
			return nil, apperror.NewUnprocessableError(fmt.Sprintf("Catalog item %s is inactive", catalogItem.Code))
		}

		unitPrice := catalogItem.Price
		if item.UnitPrice != nil {
			if *item.UnitPrice < 0 {
				return nil, apperror.NewUnprocessableError(fmt.Sprintf("Unit price override for %s cannot be negative", catalogItem.Code))
			}
			unitPrice = *item.UnitPrice
		}

		itemTotal := unitPrice * int64(item.Quantity)
		subTotal += itemTotal

		invoiceItems = append(invoiceItems, entity.InvoiceItem{
			CatalogItemID: catalogItem.ID,
			Name:          catalogItem.Name,
			Code:          catalogItem.Code,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			Total:         itemTotal,
		})
	}

	discountAmount, total := ComputeAmounts(subTotal, input.DiscountPct)

	invoice := &entity.Invoice{
		BranchID:           branchID,
		PatientID:          patient.ID,
		PatientName:        patient.FullName(),
		ReferralProviderID: input.ReferralProviderID,
		CreatedByID:        input.UserID,
		CreatedByName:      input.UserName,
		InvoiceNo:          utils.GenerateInvoiceNo(),
		SubTotal:           subTotal,
		DiscountPct:        input.DiscountPct,
		DiscountAmount:     discountAmount,
		Total:              total,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	for i := range invoiceItems {
		invoiceItems[i].InvoiceID = invoice.ID
	}

	if err := s.invoiceItemRepo.CreateBatch(ctx, invoiceItems); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// GetInvoice retrieves an invoice with its line items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListInvoicesWithCursor lists invoices with cursor-based pagination
func (s *InvoiceService) ListInvoicesWithCursor(ctx context.Context, params *repository.InvoiceCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Invoice], error) {
	invoices, err := s.invoiceRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(invoices, params.Cursor.Limit,
		func(i entity.Invoice) string { return i.ID.String() },
		func(i entity.Invoice) time.Time { return i.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// BillingSummary aggregates billing activity for a period. A zero from/to
// defaults to the trailing 30 days.
func (s *InvoiceService) BillingSummary(ctx context.Context, from, to time.Time) (*repository.PaymentSummary, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if from.After(to) {
		return nil, apperror.NewBadRequestError("Invalid date range")
	}
	return s.invoiceRepo.PaymentSummary(ctx, from, to)
}
