package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/application/service"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/response"
)

// ReceiptHandler handles receipt rendering and printing HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// DownloadPDF handles downloading the receipt as a PDF document
func (h *ReceiptHandler) DownloadPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	data, filename, err := h.receiptService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/pdf", data)
}

// DownloadThermal handles downloading the receipt as fixed-width text sized
// for a thermal paper roll.
func (h *ReceiptHandler) DownloadThermal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	paperSize := c.DefaultQuery("paper_size", "80mm")

	body, filename, err := h.receiptService.RenderThermal(c.Request.Context(), id, paperSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/plain; charset=utf-8", []byte(body))
}

// Print handles sending the receipt to the configured thermal printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	receipt, err := h.receiptService.PrintReceipt(c.Request.Context(), id)
	if err != nil {
		// The receipt data is still useful to the caller when the printer is
		// offline; return it alongside the error message.
		if receipt != nil {
			c.JSON(503, response.APIResponse{
				Success: false,
				Message: "Printer unavailable; receipt data returned",
				Data:    receipt,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", receipt)
}

// Status handles reporting printer connection status
func (h *ReceiptHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.receiptService.GetPrinterStatus())
}

// TestPrint handles sending a test page to the printer
func (h *ReceiptHandler) TestPrint(c *gin.Context) {
	receipt, err := h.receiptService.TestPrint()
	if err != nil {
		c.JSON(503, response.APIResponse{
			Success: false,
			Message: "Printer unavailable; test page data returned",
			Data:    receipt,
		})
		return
	}

	response.OK(c, "Test page sent to printer", receipt)
}
