package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"github.com/medilabs/diagnostics-api/pkg/utils"
)

// CatalogService manages the test and service price list
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// CreateCatalogItemInput represents the create catalog item input
type CreateCatalogItemInput struct {
	Name     string
	Code     string
	Category *string
	Price    float64
	Active   bool
}

// CreateCatalogItem adds a test or service to the price list
func (s *CatalogService) CreateCatalogItem(ctx context.Context, input *CreateCatalogItemInput) (*entity.CatalogItem, error) {
	branchID, ok := infraRepo.GetBranchID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Branch context required")
	}

	if input.Price < 0 {
		return nil, apperror.NewUnprocessableError("Price cannot be negative")
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = utils.GenerateCatalogCode()
	}

	existing, err := s.catalogRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Catalog item code '%s' already exists", code))
	}

	item := &entity.CatalogItem{
		BranchID: branchID,
		Name:     strings.TrimSpace(input.Name),
		Code:     code,
		Category: input.Category,
		Price:    utils.ToMinorUnits(input.Price),
		Active:   input.Active,
	}

	if err := s.catalogRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateCatalogItemInput represents updatable catalog fields
type UpdateCatalogItemInput struct {
	Name     *string
	Category *string
	Price    *float64
	Active   *bool
}

// UpdateCatalogItem updates a catalog item. Price changes only affect
// invoices created afterwards; existing invoices keep their captured prices.
func (s *CatalogService) UpdateCatalogItem(ctx context.Context, id uuid.UUID, input *UpdateCatalogItemInput) (*entity.CatalogItem, error) {
	item, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Catalog item")
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		item.Category = input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewUnprocessableError("Price cannot be negative")
		}
		item.Price = utils.ToMinorUnits(*input.Price)
	}
	if input.Active != nil {
		item.Active = *input.Active
	}

	if err := s.catalogRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetCatalogItem retrieves a catalog item by ID
func (s *CatalogService) GetCatalogItem(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error) {
	item, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Catalog item")
	}
	return item, nil
}

// ListCatalog lists catalog items with optional search
func (s *CatalogService) ListCatalog(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) (*pagination.PaginatedResult[entity.CatalogItem], error) {
	items, total, err := s.catalogRepo.List(ctx, params, search, activeOnly)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// ImportCatalogRow represents a single row from the import file
type ImportCatalogRow struct {
	Name     string
	Code     string
	Category string
	Price    float64
	Active   bool
}

// ImportResult contains the result of a catalog import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportCatalog validates and bulk-creates catalog items from parsed import
// rows. Rows with problems are reported individually; valid rows still load.
func (s *CatalogService) ImportCatalog(ctx context.Context, rows []ImportCatalogRow) (*ImportResult, error) {
	branchID, ok := infraRepo.GetBranchID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Branch context required")
	}

	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// Track codes seen in this import batch to detect duplicates within the file
	seenCodes := make(map[string]int) // code -> row number

	var validItems []entity.CatalogItem

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header, data starts at row 2

		if strings.TrimSpace(row.Name) == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}

		if row.Price < 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "price", Message: "Price cannot be negative"})
			continue
		}

		code := strings.TrimSpace(row.Code)
		if code == "" {
			code = utils.GenerateCatalogCode()
		}

		if prevRow, exists := seenCodes[code]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", code, prevRow),
			})
			continue
		}

		existing, err := s.catalogRepo.GetByCode(ctx, code)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "code", Message: "Error checking code: " + err.Error()})
			continue
		}
		if existing != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Catalog item code '%s' already exists", code),
			})
			continue
		}

		seenCodes[code] = rowNum

		item := entity.CatalogItem{
			BranchID: branchID,
			Name:     strings.TrimSpace(row.Name),
			Code:     code,
			Price:    utils.ToMinorUnits(row.Price),
			Active:   row.Active,
		}
		if category := strings.TrimSpace(row.Category); category != "" {
			item.Category = &category
		}

		validItems = append(validItems, item)
	}

	if len(validItems) > 0 {
		if err := s.catalogRepo.CreateBatch(ctx, validItems); err != nil {
			return nil, err
		}
	}

	result.Successful = len(validItems)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors
	return result, nil
}
