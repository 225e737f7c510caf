package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/application/service"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/enum"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/request"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/response"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"github.com/medilabs/diagnostics-api/pkg/utils"
)

// InvoiceHandler handles invoice and payment HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	paymentService *service.PaymentService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, paymentService *service.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
	}
}

// List handles listing invoices (supports both page-based and cursor-based pagination)
func (h *InvoiceHandler) List(c *gin.Context) {
	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c)
		return
	}

	var filter request.InvoiceFilterRequest
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

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}
	applyInvoiceFilters(&filter, func(status *enum.InvoiceStatus, patientID *uuid.UUID, start, end *time.Time) {
		params.Status = status
		params.PatientID = patientID
		params.StartDate = start
		params.EndDate = end
	})

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// listWithCursor handles listing invoices with cursor-based pagination
func (h *InvoiceHandler) listWithCursor(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	direction := c.DefaultQuery("direction", "next")

	params := &repository.InvoiceCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search: filter.Search,
	}
	applyInvoiceFilters(&filter, func(status *enum.InvoiceStatus, patientID *uuid.UUID, start, end *time.Time) {
		params.Status = status
		params.PatientID = patientID
		params.StartDate = start
		params.EndDate = end
	})

	result, err := h.invoiceService.ListInvoicesWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Invoices retrieved successfully", result)
}

// applyInvoiceFilters parses the shared optional filters from the query
// string. Unparseable values are ignored rather than rejected.
func applyInvoiceFilters(filter *request.InvoiceFilterRequest, set func(*enum.InvoiceStatus, *uuid.UUID, *time.Time, *time.Time)) {
	var status *enum.InvoiceStatus
	if filter.Status != "" {
		if parsed, ok := enum.ParseInvoiceStatus(filter.Status); ok {
			status = &parsed
		}
	}

	var patientID *uuid.UUID
	if filter.PatientID != "" {
		if id, err := uuid.Parse(filter.PatientID); err == nil {
			patientID = &id
		}
	}

	var start, end *time.Time
	if filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			start = &t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			end = &t
		}
	}

	set(status, patientID, start, end)
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		UserID:             *userID,
		UserName:           GetUserName(c),
		PatientID:          req.PatientID,
		ReferralProviderID: req.ReferralProviderID,
		DiscountPct:        req.DiscountPct,
		Items:              invoiceItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles getting a single invoice with its line items
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Pay handles collecting payment on an unpaid invoice
func (h *InvoiceHandler) Pay(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.paymentService.CollectPayment(c.Request.Context(), &service.CollectPaymentInput{
		UserID:                 *userID,
		UserName:               GetUserName(c),
		InvoiceID:              id,
		Method:                 req.Method,
		Details:                paymentDetails(&req.Details),
		ReceivingBankAccountID: req.ReceivingBankAccountID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment collected successfully", invoice)
}

// WalkIn handles the combined create-and-pay flow for walk-in patients
func (h *InvoiceHandler) WalkIn(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.WalkInBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.WalkInBillInput{
		UserID:                 *userID,
		UserName:               GetUserName(c),
		PatientID:              req.PatientID,
		ReferralProviderID:     req.ReferralProviderID,
		DiscountPct:            req.DiscountPct,
		Items:                  walkInItemInputs(req.Items),
		Method:                 req.Method,
		Details:                paymentDetails(&req.Details),
		ReceivingBankAccountID: req.ReceivingBankAccountID,
	}
	if req.NewPatient != nil {
		input.NewPatient = &service.WalkInPatientInput{
			FirstName: req.NewPatient.FirstName,
			LastName:  req.NewPatient.LastName,
			Phone:     req.NewPatient.Phone,
			Email:     req.NewPatient.Email,
		}
	}

	invoice, err := h.paymentService.CreateWalkInBill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Walk-in bill created and paid successfully", invoice)
}

// Summary handles the billing summary for the dashboard
func (h *InvoiceHandler) Summary(c *gin.Context) {
	var from, to time.Time
	if s := c.Query("start_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			from = t
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			// Include the whole end day.
			to = t.Add(24*time.Hour - time.Second)
		}
	}

	summary, err := h.invoiceService.BillingSummary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing summary retrieved successfully", summary)
}

func invoiceItemInputs(items []request.InvoiceItemRequest) []service.InvoiceItemInput {
	out := make([]service.InvoiceItemInput, len(items))
	for i, item := range items {
		out[i] = service.InvoiceItemInput{
			CatalogItemID: item.CatalogItemID,
			Quantity:      item.Quantity,
		}
	}
	return out
}

func walkInItemInputs(items []request.WalkInItemRequest) []service.InvoiceItemInput {
	out := make([]service.InvoiceItemInput, len(items))
	for i, item := range items {
		out[i] = service.InvoiceItemInput{
			CatalogItemID: item.CatalogItemID,
			Quantity:      item.Quantity,
		}
		if item.UnitPrice != nil {
			minor := utils.ToMinorUnits(*item.UnitPrice)
			out[i].UnitPrice = &minor
		}
	}
	return out
}

func paymentDetails(req *request.PaymentDetailsRequest) entity.PaymentDetails {
	return entity.PaymentDetails{
		CardLastFour:   req.CardLastFour,
		TransactionRef: req.TransactionRef,
		TransferRef:    req.TransferRef,
		SendingBank:    req.SendingBank,
	}
}

// parseIntQuery is a small helper kept for route handlers that read numeric
// query params outside bound structs.
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
