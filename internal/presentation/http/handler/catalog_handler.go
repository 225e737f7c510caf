package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/application/service"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/request"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/response"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"github.com/xuri/excelize/v2"
)

// maxImportFileSize caps catalog import uploads at 5 MB
const maxImportFileSize = 5 << 20

// CatalogHandler handles price list HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles listing catalog items with optional search
func (h *CatalogHandler) List(c *gin.Context) {
	var filter request.CatalogFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 15
	}

	params := &pagination.PaginationParams{Page: page, PerPage: perPage}

	result, err := h.catalogService.ListCatalog(c.Request.Context(), params, filter.Search, filter.ActiveOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Catalog retrieved successfully", result)
}

// Create handles adding a test or service to the price list
func (h *CatalogHandler) Create(c *gin.Context) {
	var req request.CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	item, err := h.catalogService.CreateCatalogItem(c.Request.Context(), &service.CreateCatalogItemInput{
		Name:     req.Name,
		Code:     req.Code,
		Category: req.Category,
		Price:    req.Price,
		Active:   active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Catalog item created successfully", item)
}

// Update handles updating a catalog item
func (h *CatalogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid catalog item ID")
		return
	}

	var req request.UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.UpdateCatalogItem(c.Request.Context(), id, &service.UpdateCatalogItemInput{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Active:   req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog item updated successfully", item)
}

// Get handles getting a single catalog item
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid catalog item ID")
		return
	}

	item, err := h.catalogService.GetCatalogItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog item retrieved successfully", item)
}

// Import handles bulk catalog import from an uploaded xlsx file.
// Expected columns: Name | Code | Category | Price | Active. Row 1 is the
// header and is skipped.
func (h *CatalogHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded. Use multipart form field 'file'")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		response.BadRequest(c, "File too large (max 5MB)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		response.BadRequest(c, "Invalid Excel file")
		return
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		response.BadRequest(c, "Excel file has no sheets")
		return
	}

	fileRows, err := workbook.GetRows(sheets[0])
	if err != nil {
		response.BadRequest(c, "Failed to read Excel rows")
		return
	}
	if len(fileRows) < 2 {
		response.BadRequest(c, "Excel file has no data rows")
		return
	}

	rows := make([]service.ImportCatalogRow, 0, len(fileRows)-1)
	for _, cells := range fileRows[1:] {
		rows = append(rows, parseImportRow(cells))
	}

	result, err := h.catalogService.ImportCatalog(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog import completed", result)
}

func parseImportRow(cells []string) service.ImportCatalogRow {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	row := service.ImportCatalogRow{
		Name:     cell(0),
		Code:     cell(1),
		Category: cell(2),
		Active:   true,
	}

	if priceStr := cell(3); priceStr != "" {
		// Strip currency grouping commas that Excel may carry along.
		priceStr = strings.ReplaceAll(priceStr, ",", "")
		if price, err := strconv.ParseFloat(priceStr, 64); err == nil {
			row.Price = price
		} else {
			row.Price = -1 // surfaces as a per-row price error
		}
	}

	if activeStr := strings.ToLower(cell(4)); activeStr != "" {
		row.Active = activeStr == "true" || activeStr == "yes" || activeStr == "1"
	}

	return row
}
