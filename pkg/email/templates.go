package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// AppointmentData carries the fields for confirmation and reminder emails.
type AppointmentData struct {
	PatientName string
	CenterName  string
	BranchName  string
	ScheduledAt string
	Tests       []string
}

// ResultsReadyData carries the fields for the results-ready email.
type ResultsReadyData struct {
	PatientName string
	CenterName  string
	InvoiceNo   string
	Tests       []string
}

// ReceiptLine is one invoice item on the payment receipt email.
type ReceiptLine struct {
	Name     string
	Quantity int
	Total    string
}

// PaymentReceiptData carries the fields for the payment receipt email.
type PaymentReceiptData struct {
	PatientName   string
	CenterName    string
	InvoiceNo     string
	ReceiptNo     string
	PaymentMethod string
	PaidAt        string
	Items         []ReceiptLine
	SubTotal      string
	Discount      string
	Total         string
}

// CriticalResultData carries the fields for the critical result alert.
type CriticalResultData struct {
	CenterName  string
	PatientName string
	PatientNo   string
	TestName    string
	Finding     string
	ReferredBy  string
}

// StaffNotificationData carries the fields for internal staff notifications.
type StaffNotificationData struct {
	CenterName    string
	RecipientName string
	Priority      string // normal, high, urgent
	Title         string
	Body          string
}

// AppointmentConfirmation renders the appointment confirmation email.
func (s *Service) AppointmentConfirmation(to string, data AppointmentData) (Message, error) {
	html, err := render("appointment_confirmation", appointmentConfirmationTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Appointment Confirmed - %s", data.CenterName),
		HTML:    html,
	}, nil
}

// AppointmentReminder renders the appointment reminder email.
func (s *Service) AppointmentReminder(to string, data AppointmentData) (Message, error) {
	html, err := render("appointment_reminder", appointmentReminderTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Appointment Reminder - %s", data.CenterName),
		HTML:    html,
	}, nil
}

// ResultsReady renders the results-ready email.
func (s *Service) ResultsReady(to string, data ResultsReadyData) (Message, error) {
	html, err := render("results_ready", resultsReadyTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your Test Results Are Ready - %s", data.CenterName),
		HTML:    html,
	}, nil
}

// PaymentReceipt renders the payment receipt email.
func (s *Service) PaymentReceipt(to string, data PaymentReceiptData) (Message, error) {
	html, err := render("payment_receipt", paymentReceiptTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Payment Receipt %s - %s", data.ReceiptNo, data.CenterName),
		HTML:    html,
	}, nil
}

// CriticalResultAlert renders the critical result alert. The lab quality
// inbox is always copied so alerts never depend on a single mailbox.
func (s *Service) CriticalResultAlert(to string, data CriticalResultData) (Message, error) {
	html, err := render("critical_result_alert", criticalResultTemplate, data)
	if err != nil {
		return Message{}, err
	}
	msg := Message{
		To:      to,
		Subject: fmt.Sprintf("CRITICAL RESULT: %s for %s", data.TestName, data.PatientName),
		HTML:    html,
	}
	if s.config.LabQualityInbox != "" {
		msg.CC = []string{s.config.LabQualityInbox}
	}
	return msg, nil
}

// StaffNotification renders an internal staff notification. High and urgent
// priorities are tagged in the subject line.
func (s *Service) StaffNotification(to string, data StaffNotificationData) (Message, error) {
	html, err := render("staff_notification", staffNotificationTemplate, data)
	if err != nil {
		return Message{}, err
	}
	subject := data.Title
	switch strings.ToLower(data.Priority) {
	case "urgent":
		subject = "[URGENT] " + subject
	case "high":
		subject = "[HIGH] " + subject
	}
	return Message{
		To:      to,
		Subject: subject,
		HTML:    html,
	}, nil
}

func render(name, tmpl string, data interface{}) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}

const emailHeader = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
                    <tr>
                        <td style="background: linear-gradient(135deg, #0ea5e9 0%, #0369a1 100%); padding: 32px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 26px; font-weight: 600;">{{.CenterName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 36px 30px;">
`

const emailFooter = `
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f8fafc; padding: 20px 30px; text-align: center;">
                            <p style="color: #94a3b8; font-size: 13px; margin: 0;">This is an automated message. Please do not reply directly to this email.</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`

const appointmentConfirmationTemplate = emailHeader + `
<h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 22px;">Appointment Confirmed</h2>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Dear {{.PatientName}},</p>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    Your appointment at <strong>{{.BranchName}}</strong> has been confirmed for <strong>{{.ScheduledAt}}</strong>.
</p>
{{if .Tests}}
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Scheduled tests:</p>
<ul style="color: #4a5568; font-size: 15px; line-height: 1.8;">
    {{range .Tests}}<li>{{.}}</li>{{end}}
</ul>
{{end}}
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Please arrive 15 minutes early with a valid ID.</p>
` + emailFooter

const appointmentReminderTemplate = emailHeader + `
<h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 22px;">Appointment Reminder</h2>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Dear {{.PatientName}},</p>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    This is a reminder of your upcoming appointment at <strong>{{.BranchName}}</strong> on <strong>{{.ScheduledAt}}</strong>.
</p>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    If you need to reschedule, please contact the branch ahead of your appointment time.
</p>
` + emailFooter

const resultsReadyTemplate = emailHeader + `
<h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 22px;">Your Results Are Ready</h2>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Dear {{.PatientName}},</p>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    The results for invoice <strong>{{.InvoiceNo}}</strong> are now ready for collection.
</p>
{{if .Tests}}
<ul style="color: #4a5568; font-size: 15px; line-height: 1.8;">
    {{range .Tests}}<li>{{.}}</li>{{end}}
</ul>
{{end}}
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    You can collect a printed copy at the front desk with your invoice number.
</p>
` + emailFooter

const paymentReceiptTemplate = emailHeader + `
<h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 22px;">Payment Receipt</h2>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Dear {{.PatientName}},</p>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    Thank you for your payment. Receipt <strong>{{.ReceiptNo}}</strong> for invoice <strong>{{.InvoiceNo}}</strong>, paid via {{.PaymentMethod}} on {{.PaidAt}}.
</p>
<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    {{range .Items}}
    <tr>
        <td style="color: #4a5568; font-size: 15px; padding: 6px 0; border-bottom: 1px solid #e2e8f0;">{{.Quantity}}x {{.Name}}</td>
        <td style="color: #4a5568; font-size: 15px; padding: 6px 0; border-bottom: 1px solid #e2e8f0; text-align: right;">{{.Total}}</td>
    </tr>
    {{end}}
    <tr>
        <td style="color: #4a5568; font-size: 15px; padding: 6px 0;">Subtotal</td>
        <td style="color: #4a5568; font-size: 15px; padding: 6px 0; text-align: right;">{{.SubTotal}}</td>
    </tr>
    {{if .Discount}}
    <tr>
        <td style="color: #4a5568; font-size: 15px; padding: 6px 0;">Discount</td>
        <td style="color: #4a5568; font-size: 15px; padding: 6px 0; text-align: right;">-{{.Discount}}</td>
    </tr>
    {{end}}
    <tr>
        <td style="color: #1a1a2e; font-size: 16px; font-weight: 600; padding: 10px 0; border-top: 2px solid #1a1a2e;">Total</td>
        <td style="color: #1a1a2e; font-size: 16px; font-weight: 600; padding: 10px 0; border-top: 2px solid #1a1a2e; text-align: right;">{{.Total}}</td>
    </tr>
</table>
` + emailFooter

const criticalResultTemplate = emailHeader + `
<h2 style="color: #b91c1c; margin: 0 0 20px 0; font-size: 22px;">Critical Result Alert</h2>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    A critical result has been flagged and requires immediate clinical attention.
</p>
<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
    <tr><td style="color: #718096; font-size: 14px; padding: 6px 0;">Patient</td><td style="color: #1a1a2e; font-size: 15px; padding: 6px 0;">{{.PatientName}} ({{.PatientNo}})</td></tr>
    <tr><td style="color: #718096; font-size: 14px; padding: 6px 0;">Test</td><td style="color: #1a1a2e; font-size: 15px; padding: 6px 0;">{{.TestName}}</td></tr>
    <tr><td style="color: #718096; font-size: 14px; padding: 6px 0;">Finding</td><td style="color: #b91c1c; font-size: 15px; font-weight: 600; padding: 6px 0;">{{.Finding}}</td></tr>
    {{if .ReferredBy}}<tr><td style="color: #718096; font-size: 14px; padding: 6px 0;">Referred by</td><td style="color: #1a1a2e; font-size: 15px; padding: 6px 0;">{{.ReferredBy}}</td></tr>{{end}}
</table>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">
    Acknowledge this alert through the lab workstation as soon as possible.
</p>
` + emailFooter

const staffNotificationTemplate = emailHeader + `
<h2 style="color: #1a1a2e; margin: 0 0 20px 0; font-size: 22px;">{{.Title}}</h2>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">Hello {{.RecipientName}},</p>
<p style="color: #4a5568; font-size: 16px; line-height: 1.6;">{{.Body}}</p>
` + emailFooter
