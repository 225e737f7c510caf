package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/application/service"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/request"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/response"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// ReferralHandler handles referral provider HTTP requests
type ReferralHandler struct {
	referralService *service.ReferralService
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referralService *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// List handles listing referral providers
func (h *ReferralHandler) List(c *gin.Context) {
	params := &pagination.PaginationParams{
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 15),
	}

	result, err := h.referralService.ListReferralProviders(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Referral providers retrieved successfully", result)
}

// Create handles registering a referral provider. Omitting the commission
// rate is allowed so the front desk can quick-add a provider mid-billing.
func (h *ReferralHandler) Create(c *gin.Context) {
	var req request.CreateReferralProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	provider, err := h.referralService.CreateReferralProvider(c.Request.Context(), &service.CreateReferralInput{
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		CommissionRateBps: req.CommissionRateBps,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Referral provider created successfully", provider)
}

// Get handles getting a single referral provider
func (h *ReferralHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid referral provider ID")
		return
	}

	provider, err := h.referralService.GetReferralProvider(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Referral provider retrieved successfully", provider)
}

// SetCommission handles setting the commission rate, clearing the pending
// setup flag left by quick-add.
func (h *ReferralHandler) SetCommission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid referral provider ID")
		return
	}

	var req request.SetCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	provider, err := h.referralService.SetCommission(c.Request.Context(), id, req.CommissionRateBps)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission rate updated successfully", provider)
}
