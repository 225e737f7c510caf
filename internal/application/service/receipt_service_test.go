package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	appconfig "github.com/medilabs/diagnostics-api/internal/config"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePrinter struct {
	mu        sync.Mutex
	jobs      [][]byte
	connected bool
	failErr   error
}

func (p *capturePrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *capturePrinter) IsConnected() bool { return p.connected }

func (p *capturePrinter) Close() error { return nil }

type receiptTestEnv struct {
	*paymentTestEnv
	svc     *ReceiptService
	printer *capturePrinter
}

func newReceiptTestEnv(t *testing.T) *receiptTestEnv {
	t.Helper()

	base := newPaymentTestEnv(t)
	capture := &capturePrinter{connected: true}

	return &receiptTestEnv{
		paymentTestEnv: base,
		svc: NewReceiptService(
			base.invoiceRepo,
			capture,
			appconfig.CenterConfig{
				Name:    "MediLabs Diagnostics",
				Address: "12 Hospital Road, Lagos",
				Phone:   "+234 800 000 0000",
			},
			appconfig.PrinterConfig{Type: "network", Address: "10.0.0.5:9100", PaperSize: "80mm"},
		),
		printer: capture,
	}
}

func (e *receiptTestEnv) createPaidInvoice(t *testing.T) *entity.Invoice {
	t.Helper()
	invoice := e.createUnpaidInvoice(t)
	paid, err := e.paymentTestEnv.svc.CollectPayment(e.ctx, &CollectPaymentInput{
		UserID:    uuid.New(),
		UserName:  "Ada Cashier",
		InvoiceID: invoice.ID,
		Method:    "cash",
	})
	require.NoError(t, err)
	e.waitForReceipt(t)
	return paid
}

func TestBuildReceiptRequiresPaidInvoice(t *testing.T) {
	env := newReceiptTestEnv(t)
	invoice := env.createUnpaidInvoice(t)

	_, err := env.svc.BuildReceipt(env.ctx, invoice.ID)
	assert.ErrorIs(t, err, apperror.ErrReceiptUnavailable)

	_, err = env.svc.BuildReceipt(env.ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestBuildReceiptFields(t *testing.T) {
	env := newReceiptTestEnv(t)
	paid := env.createPaidInvoice(t)

	receipt, err := env.svc.BuildReceipt(env.ctx, paid.ID)
	require.NoError(t, err)

	assert.Equal(t, "MediLabs Diagnostics", receipt.Header.CenterName)
	assert.Equal(t, paid.InvoiceNo, receipt.InvoiceNo)
	assert.Equal(t, *paid.ReceiptNo, receipt.ReceiptNo)
	assert.Equal(t, "Ada Cashier", receipt.Cashier)
	assert.Equal(t, "Jane Doe", receipt.Patient)
	assert.Equal(t, "cash", receipt.PaymentMethod)
	assert.InDelta(t, 8000.00, receipt.Total, 0.001)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Full Blood Count", receipt.Items[0].Name)
}

func TestRenderPDF(t *testing.T) {
	env := newReceiptTestEnv(t)
	paid := env.createPaidInvoice(t)

	data, filename, err := env.svc.RenderPDF(env.ctx, paid.ID)
	require.NoError(t, err)

	assert.Equal(t, "receipt-"+paid.InvoiceNo+".pdf", filename)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data[:5]), "%PDF-"), "output must be a PDF document")
}

func TestRenderThermalWidths(t *testing.T) {
	env := newReceiptTestEnv(t)
	paid := env.createPaidInvoice(t)

	widths := map[string]int{
		"57mm":  32,
		"58mm":  32,
		"76mm":  42,
		"80mm":  48,
		"110mm": 64,
	}

	for paperSize, want := range widths {
		t.Run(paperSize, func(t *testing.T) {
			body, filename, err := env.svc.RenderThermal(env.ctx, paid.ID, paperSize)
			require.NoError(t, err)

			assert.Equal(t, "thermal-"+paperSize+"-receipt-"+paid.InvoiceNo+".txt", filename)
			assert.Contains(t, body, "MediLabs Diagnostics")
			assert.Contains(t, body, paid.InvoiceNo)

			for _, line := range strings.Split(body, "\n") {
				assert.LessOrEqual(t, len(line), want, "line exceeds paper width: %q", line)
			}
			assert.Contains(t, body, strings.Repeat("-", want))
		})
	}
}

func TestRenderThermalRejectsUnknownPaperSize(t *testing.T) {
	env := newReceiptTestEnv(t)
	paid := env.createPaidInvoice(t)

	_, _, err := env.svc.RenderThermal(env.ctx, paid.ID, "210mm")
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestPrintReceipt(t *testing.T) {
	env := newReceiptTestEnv(t)
	paid := env.createPaidInvoice(t)

	receipt, err := env.svc.PrintReceipt(env.ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, paid.InvoiceNo, receipt.InvoiceNo)

	require.Len(t, env.printer.jobs, 1)
	job := env.printer.jobs[0]
	assert.Equal(t, []byte{0x1B, 0x40}, job[:2], "job must start with ESC @ init")
	assert.Contains(t, string(job), paid.InvoiceNo)
}

func TestPrintReceiptPropagatesPrinterError(t *testing.T) {
	env := newReceiptTestEnv(t)
	paid := env.createPaidInvoice(t)
	env.printer.failErr = assert.AnError

	receipt, err := env.svc.PrintReceipt(env.ctx, paid.ID)
	require.Error(t, err)
	assert.NotNil(t, receipt, "receipt data still returned so the caller can fall back")
}

func TestGetPrinterStatus(t *testing.T) {
	env := newReceiptTestEnv(t)

	status := env.svc.GetPrinterStatus()
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "network", status.Type)
	assert.Equal(t, "80mm", status.PaperSize)
}

func TestFormatReceiptTextLayout(t *testing.T) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			CenterName: "MediLabs Diagnostics",
			Phone:      "+234 800 000 0000",
		},
		InvoiceNo:     "INV-ABCD1234",
		ReceiptNo:     "RCP-ABCD1234",
		Date:          "2026-08-29 10:15",
		Patient:       "Jane Doe",
		Cashier:       "Ada Cashier",
		PaymentMethod: "cash",
		Items: []entity.ReceiptItem{
			{Name: "Full Blood Count", Quantity: 1, UnitPrice: 8000, Total: 8000},
			{Name: "Lipid Panel", Quantity: 2, UnitPrice: 12000, Total: 24000},
		},
		SubTotal:    32000,
		DiscountPct: 10,
		Discount:    3200,
		Total:       28800,
	}

	body := FormatReceiptText(receipt, 32)

	assert.Contains(t, body, "MediLabs Diagnostics")
	assert.Contains(t, body, "RCP-ABCD1234")
	assert.Contains(t, body, "Discount (10%):")
	assert.Contains(t, body, "-3,200.00")
	assert.Contains(t, body, "28,800.00")
	assert.Contains(t, body, "@ 12,000.00 each")

	for _, line := range strings.Split(body, "\n") {
		assert.LessOrEqual(t, len(line), 32)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0.00"},
		{8000, "8,000.00"},
		{1234567.5, "1,234,567.50"},
		{-350, "-350.00"},
		{999.99, "999.99"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.amount))
	}
}
