package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/enum"
	domainRepo "github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Preload("Patient").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Scopes(BranchScope(ctx)).First(&invoice, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Preload("Patient").
		Preload("ReferralProvider").
		Preload("BankAccount").
		Preload("Items").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(BranchScope(ctx))

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ? OR patient_name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Patient").
		Order(sortBy + " " + sortOrder).
		Find(&invoices).Error

	return invoices, total, err
}

// ListWithCursor returns invoices using cursor-based pagination
func (r *invoiceRepository) ListWithCursor(ctx context.Context, params *domainRepo.InvoiceCursorFilterParams) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(BranchScope(ctx))

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ? OR patient_name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Patient").
		Order("created_at ASC, id ASC").
		Find(&invoices).Error

	return invoices, err
}

// MarkPaid applies payment fields guarded on the invoice still being unpaid.
// The WHERE clause on status makes concurrent payment attempts safe: exactly
// one session observes RowsAffected == 1.
func (r *invoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, payment *entity.Invoice) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(BranchScope(ctx)).
		Where("id = ? AND status = ?", id, enum.InvoiceStatusUnpaid).
		Updates(map[string]interface{}{
			"status":                    enum.InvoiceStatusPaid,
			"payment_method":            payment.PaymentMethod,
			"payment_details":           payment.PaymentDetails,
			"receiving_bank_account_id": payment.ReceivingBankAccountID,
			"receipt_no":                payment.ReceiptNo,
			"paid_at":                   payment.PaidAt,
			"paid_by_id":                payment.PaidByID,
			"paid_by_name":              payment.PaidByName,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *invoiceRepository) PaymentSummary(ctx context.Context, from, to time.Time) (*domainRepo.PaymentSummary, error) {
	var summary domainRepo.PaymentSummary

	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(BranchScope(ctx)).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Select(`COUNT(*) AS invoice_count,
			COUNT(*) FILTER (WHERE status = 0) AS unpaid_count,
			COUNT(*) FILTER (WHERE status = 1) AS paid_count,
			COALESCE(SUM(total), 0) AS billed_total,
			COALESCE(SUM(total) FILTER (WHERE status = 1 AND payment_method = 'cash'), 0) AS collected_cash,
			COALESCE(SUM(total) FILTER (WHERE status = 1 AND payment_method <> 'cash'), 0) AS collected_bank`).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

type invoiceItemRepository struct {
	db *gorm.DB
}

// NewInvoiceItemRepository creates a new invoice item repository
func NewInvoiceItemRepository(db *gorm.DB) domainRepo.InvoiceItemRepository {
	return &invoiceItemRepository{db: db}
}

func (r *invoiceItemRepository) CreateBatch(ctx context.Context, items []entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *invoiceItemRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error) {
	var items []entity.InvoiceItem
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
