package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"

	appconfig "github.com/medilabs/diagnostics-api/internal/config"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/printer"

	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptService renders receipts for paid invoices: PDF for email and
// archive, fixed-width text for thermal paper, and raw ESC/POS for direct
// printing.
type ReceiptService struct {
	invoiceRepo repository.InvoiceRepository
	printer     printer.Printer
	center      appconfig.CenterConfig
	printerCfg  appconfig.PrinterConfig
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	invoiceRepo repository.InvoiceRepository,
	p printer.Printer,
	center appconfig.CenterConfig,
	printerCfg appconfig.PrinterConfig,
) *ReceiptService {
	return &ReceiptService{
		invoiceRepo: invoiceRepo,
		printer:     p,
		center:      center,
		printerCfg:  printerCfg,
	}
}

// BuildReceipt composes the printable receipt from a paid invoice. Unpaid
// invoices have no receipt.
func (s *ReceiptService) BuildReceipt(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if !invoice.IsPaid() {
		return nil, apperror.ErrReceiptUnavailable
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			CenterName: s.center.Name,
			Address:    s.center.Address,
			Phone:      s.center.Phone,
		},
		InvoiceNo:   invoice.InvoiceNo,
		Patient:     invoice.PatientName,
		SubTotal:    float64(invoice.SubTotal) / 100,
		DiscountPct: invoice.DiscountPct,
		Discount:    float64(invoice.DiscountAmount) / 100,
		Total:       float64(invoice.Total) / 100,
	}

	if invoice.ReceiptNo != nil {
		receipt.ReceiptNo = *invoice.ReceiptNo
	}
	if invoice.PaidAt != nil {
		receipt.Date = invoice.PaidAt.Format("2006-01-02 15:04")
	}
	if invoice.PaidByName != nil {
		receipt.Cashier = *invoice.PaidByName
	}
	if invoice.PaymentMethod != nil {
		receipt.PaymentMethod = invoice.PaymentMethod.String()
	}
	if invoice.BankAccount != nil {
		receipt.BankAccount = fmt.Sprintf("%s %s", invoice.BankAccount.BankName, invoice.BankAccount.AccountNumber)
	}

	for _, item := range invoice.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
		})
	}

	return receipt, nil
}

// RenderPDF renders the receipt as an A4 PDF document.
func (s *ReceiptService) RenderPDF(ctx context.Context, invoiceID uuid.UUID) ([]byte, string, error) {
	receipt, err := s.BuildReceipt(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}

	cfg := config.NewBuilder().
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		Build()

	m := maroto.New(cfg)

	s.addPDFHeader(m, receipt)
	s.addPDFDetails(m, receipt)
	s.addPDFItems(m, receipt)
	s.addPDFTotals(m, receipt)

	doc, err := m.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate receipt PDF: %w", err)
	}

	filename := fmt.Sprintf("receipt-%s.pdf", receipt.InvoiceNo)
	return doc.GetBytes(), filename, nil
}

func (s *ReceiptService) addPDFHeader(m core.Maroto, r *entity.Receipt) {
	m.AddRow(30,
		col.New(6).Add(
			text.New(r.Header.CenterName, props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
			text.New(r.Header.Address, props.Text{
				Size:  9,
				Top:   8,
				Align: align.Left,
			}),
			text.New(r.Header.Phone, props.Text{
				Size:  9,
				Top:   13,
				Align: align.Left,
			}),
		),
		col.New(6).Add(
			text.New("RECEIPT", props.Text{
				Size:  20,
				Style: fontstyle.Bold,
				Align: align.Right,
			}),
			text.New(fmt.Sprintf("# %s", r.ReceiptNo), props.Text{
				Size:  10,
				Top:   8,
				Align: align.Right,
			}),
		),
	)

	m.AddRow(5, line.NewCol(12))
}

func (s *ReceiptService) addPDFDetails(m core.Maroto, r *entity.Receipt) {
	m.AddRow(20,
		col.New(6).Add(
			text.New(fmt.Sprintf("Invoice #: %s", r.InvoiceNo), props.Text{
				Size:  10,
				Align: align.Left,
			}),
			text.New(fmt.Sprintf("Patient: %s", r.Patient), props.Text{
				Size:  10,
				Top:   5,
				Align: align.Left,
			}),
			text.New(fmt.Sprintf("Cashier: %s", r.Cashier), props.Text{
				Size:  10,
				Top:   10,
				Align: align.Left,
			}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Paid: %s", r.Date), props.Text{
				Size:  10,
				Align: align.Right,
			}),
			text.New(fmt.Sprintf("Method: %s", r.PaymentMethod), props.Text{
				Size:  10,
				Top:   5,
				Align: align.Right,
			}),
			text.New(r.BankAccount, props.Text{
				Size:  10,
				Top:   10,
				Align: align.Right,
			}),
		),
	)

	m.AddRow(5, line.NewCol(12))
}

func (s *ReceiptService) addPDFItems(m core.Maroto, r *entity.Receipt) {
	m.AddRow(8,
		col.New(6).Add(text.New("Test / Service", props.Text{Size: 10, Style: fontstyle.Bold})),
		col.New(2).Add(text.New("Qty", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New("Price", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New("Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
	)

	m.AddRow(2, line.NewCol(12))

	for _, item := range r.Items {
		m.AddRow(7,
			col.New(6).Add(text.New(item.Name, props.Text{Size: 9})),
			col.New(2).Add(text.New(strconv.Itoa(item.Quantity), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(formatMoney(item.UnitPrice), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(formatMoney(item.Total), props.Text{Size: 9, Align: align.Right})),
		)
	}

	m.AddRow(3, line.NewCol(12))
}

func (s *ReceiptService) addPDFTotals(m core.Maroto, r *entity.Receipt) {
	m.AddRow(6,
		col.New(8),
		col.New(2).Add(text.New("Subtotal:", props.Text{Size: 10, Align: align.Right})),
		col.New(2).Add(text.New(formatMoney(r.SubTotal), props.Text{Size: 10, Align: align.Right})),
	)

	if r.Discount > 0 {
		m.AddRow(6,
			col.New(8),
			col.New(2).Add(text.New(fmt.Sprintf("Discount (%d%%):", r.DiscountPct), props.Text{Size: 10, Align: align.Right})),
			col.New(2).Add(text.New("-"+formatMoney(r.Discount), props.Text{Size: 10, Align: align.Right})),
		)
	}

	m.AddRow(8,
		col.New(8),
		col.New(2).Add(text.New("TOTAL:", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New(formatMoney(r.Total), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right})),
	)
}

// RenderThermal renders the receipt as fixed-width text sized for thermal
// paper. Supported paper sizes map to character columns (57mm/58mm -> 32,
// 76mm -> 42, 80mm -> 48, 110mm -> 64).
func (s *ReceiptService) RenderThermal(ctx context.Context, invoiceID uuid.UUID, paperSize string) (string, string, error) {
	width, err := printer.Columns(paperSize)
	if err != nil {
		return "", "", apperror.NewBadRequestError(err.Error())
	}

	receipt, err := s.BuildReceipt(ctx, invoiceID)
	if err != nil {
		return "", "", err
	}

	body := FormatReceiptText(receipt, width)
	filename := fmt.Sprintf("thermal-%s-receipt-%s.txt", paperSize, receipt.InvoiceNo)
	return body, filename, nil
}

// PrintReceipt sends the receipt to the configured thermal printer using the
// paper size from configuration.
func (s *ReceiptService) PrintReceipt(ctx context.Context, invoiceID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	width, err := printer.Columns(s.printerCfg.PaperSize)
	if err != nil {
		width = 48
	}

	data := FormatReceiptESCPOS(receipt, width)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (invoice %s): %v", invoiceID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	PaperSize  string `json:"paper_size"`
}

// GetPrinterStatus returns printer connection status.
func (s *ReceiptService) GetPrinterStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerCfg.Type != "none" && s.printerCfg.Type != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerCfg.Type,
		PaperSize:  s.printerCfg.PaperSize,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when no
// printer is attached.
func (s *ReceiptService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			CenterName: "PRINTER TEST",
			Address:    s.center.Address,
			Phone:      s.center.Phone,
		},
		InvoiceNo: "TEST-001",
		ReceiptNo: "TEST-001",
		Date:      "Test Date",
		Cashier:   "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		SubTotal: 20.00,
		Total:    20.00,
	}

	width, err := printer.Columns(s.printerCfg.PaperSize)
	if err != nil {
		width = 48
	}

	data := FormatReceiptESCPOS(receipt, width)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// FormatReceiptText renders a receipt as plain fixed-width text.
func FormatReceiptText(r *entity.Receipt, width int) string {
	doc := printer.NewTextDocument(width)

	doc.CenterLine(r.Header.CenterName)
	if r.Header.Address != "" {
		doc.CenterLine(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.CenterLine(r.Header.Phone)
	}

	doc.Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Patient != "" {
		doc.KeyValue("Patient:", r.Patient)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}
	if r.BankAccount != "" {
		doc.KeyValue("Account:", r.BankAccount)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, formatMoney(item.Total))
		if item.Quantity > 1 {
			doc.LineF("  @ %s each", formatMoney(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", formatMoney(r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue(fmt.Sprintf("Discount (%d%%):", r.DiscountPct), "-"+formatMoney(r.Discount))
	}
	doc.KeyValue("TOTAL:", formatMoney(r.Total))

	doc.Separator('-')

	doc.Blank().
		CenterLine("Thank you for choosing us.").
		CenterLine("Get well soon!")

	return doc.String()
}

// FormatReceiptESCPOS converts a Receipt into ESC/POS bytes at the given
// character width.
func FormatReceiptESCPOS(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.CenterName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Patient != "" {
		doc.KeyValue("Patient:", r.Patient)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, formatMoney(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", formatMoney(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", formatMoney(r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue(fmt.Sprintf("Discount (%d%%):", r.DiscountPct), "-"+formatMoney(r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", formatMoney(r.Total)).
		SetBold(false)

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for choosing us.").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// formatMoney renders a decimal amount with thousands separators, e.g.
// 8000.0 -> "8,000.00".
func formatMoney(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], parts[1]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var sb strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}

	out := sb.String() + "." + decPart
	if neg {
		return "-" + out
	}
	return out
}
