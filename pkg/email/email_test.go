package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(Config{
		FromName:        "MediLabs Diagnostics",
		FromEmail:       "noreply@medilabs.example",
		LabQualityInbox: "lab-quality@medilabs.example",
	})
}

func TestPaymentReceiptMessage(t *testing.T) {
	svc := newTestService()

	msg, err := svc.PaymentReceipt("jane@example.com", PaymentReceiptData{
		PatientName:   "Jane Doe",
		CenterName:    "MediLabs Diagnostics",
		InvoiceNo:     "INV-1A2B3C4D",
		ReceiptNo:     "RCP-AA11BB22",
		PaymentMethod: "cash",
		PaidAt:        "12 Mar 2026 14:05",
		Items:         []ReceiptLine{{Name: "Full Blood Count", Quantity: 1, Total: "8,000.00"}},
		SubTotal:      "8,000.00",
		Total:         "8,000.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Payment Receipt RCP-AA11BB22 - MediLabs Diagnostics", msg.Subject)
	assert.Contains(t, msg.HTML, "INV-1A2B3C4D")
	assert.Contains(t, msg.HTML, "Full Blood Count")
	assert.NotContains(t, msg.HTML, "Discount")
	assert.Empty(t, msg.CC)
}

func TestPaymentReceiptIncludesDiscountRow(t *testing.T) {
	svc := newTestService()

	msg, err := svc.PaymentReceipt("jane@example.com", PaymentReceiptData{
		PatientName: "Jane Doe",
		CenterName:  "MediLabs Diagnostics",
		InvoiceNo:   "INV-1A2B3C4D",
		ReceiptNo:   "RCP-AA11BB22",
		SubTotal:    "10,000.00",
		Discount:    "1,000.00",
		Total:       "9,000.00",
	})
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Discount")
	assert.Contains(t, msg.HTML, "-1,000.00")
}

func TestCriticalResultAlertCopiesLabQualityInbox(t *testing.T) {
	svc := newTestService()

	msg, err := svc.CriticalResultAlert("dr.ade@example.com", CriticalResultData{
		CenterName:  "MediLabs Diagnostics",
		PatientName: "John Smith",
		PatientNo:   "PT-00042",
		TestName:    "Potassium",
		Finding:     "7.2 mmol/L (critical high)",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"lab-quality@medilabs.example"}, msg.CC)
	assert.Equal(t, "CRITICAL RESULT: Potassium for John Smith", msg.Subject)
	assert.Contains(t, msg.HTML, "7.2 mmol/L")
}

func TestStaffNotificationPriorityTags(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		priority string
		prefix   string
	}{
		{"urgent", "[URGENT] "},
		{"high", "[HIGH] "},
		{"normal", ""},
		{"", ""},
	}

	for _, tt := range tests {
		msg, err := svc.StaffNotification("staff@medilabs.example", StaffNotificationData{
			CenterName:    "MediLabs Diagnostics",
			RecipientName: "Ada",
			Priority:      tt.priority,
			Title:         "Stock low on reagent kits",
			Body:          "Reorder before Friday.",
		})
		require.NoError(t, err)
		assert.Equal(t, tt.prefix+"Stock low on reagent kits", msg.Subject)
	}
}

func TestAppointmentEmailsRenderTests(t *testing.T) {
	svc := newTestService()

	data := AppointmentData{
		PatientName: "Jane Doe",
		CenterName:  "MediLabs Diagnostics",
		BranchName:  "Ikeja Branch",
		ScheduledAt: "14 Mar 2026 09:00",
		Tests:       []string{"Lipid Panel", "Fasting Glucose"},
	}

	confirm, err := svc.AppointmentConfirmation("jane@example.com", data)
	require.NoError(t, err)
	assert.Contains(t, confirm.HTML, "Lipid Panel")
	assert.Contains(t, confirm.Subject, "Appointment Confirmed")

	remind, err := svc.AppointmentReminder("jane@example.com", data)
	require.NoError(t, err)
	assert.Contains(t, remind.Subject, "Appointment Reminder")
	assert.Contains(t, remind.HTML, "Ikeja Branch")
}

func TestBuildHTMLEmailHeaders(t *testing.T) {
	svc := newTestService()

	body := svc.buildHTMLEmail(Message{
		To:      "jane@example.com",
		CC:      []string{"lab-quality@medilabs.example"},
		Subject: "Payment Receipt",
		HTML:    "<p>hello</p>",
	})

	s := string(body)
	assert.True(t, strings.HasPrefix(s, "From: MediLabs Diagnostics <noreply@medilabs.example>\r\n"))
	assert.Contains(t, s, "Cc: lab-quality@medilabs.example\r\n")
	assert.Contains(t, s, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	assert.True(t, strings.HasSuffix(s, "<p>hello</p>"))
}
