package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/response"
)

// BankAccountHandler handles organization bank account HTTP requests.
// The list is seeded reference data; there are no mutation endpoints.
type BankAccountHandler struct {
	bankAccountRepo repository.BankAccountRepository
}

// NewBankAccountHandler creates a new bank account handler
func NewBankAccountHandler(bankAccountRepo repository.BankAccountRepository) *BankAccountHandler {
	return &BankAccountHandler{bankAccountRepo: bankAccountRepo}
}

// List handles listing the organization's receiving bank accounts
func (h *BankAccountHandler) List(c *gin.Context) {
	accounts, err := h.bankAccountRepo.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bank accounts retrieved successfully", accounts)
}
