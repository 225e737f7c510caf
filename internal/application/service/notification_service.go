package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	appconfig "github.com/medilabs/diagnostics-api/internal/config"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/email"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// mailTransport abstracts SMTP delivery so the dispatch and audit logic can
// be tested without a mail server.
type mailTransport interface {
	Send(msg email.Message) error
}

// NotificationService dispatches patient and staff emails. Every attempt is
// recorded in the notification log, success or failure; delivery problems
// never propagate to the calling workflow.
type NotificationService struct {
	renderer         *email.Service
	transport        mailTransport
	notificationRepo repository.NotificationRepository
	patientRepo      repository.PatientRepository
	userRepo         repository.UserRepository
	center           appconfig.CenterConfig
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	renderer *email.Service,
	transport mailTransport,
	notificationRepo repository.NotificationRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
	center appconfig.CenterConfig,
) *NotificationService {
	return &NotificationService{
		renderer:         renderer,
		transport:        transport,
		notificationRepo: notificationRepo,
		patientRepo:      patientRepo,
		userRepo:         userRepo,
		center:           center,
	}
}

// dispatch sends a rendered message and records the outcome.
func (s *NotificationService) dispatch(ctx context.Context, template string, msg email.Message) *entity.NotificationLog {
	logEntry := &entity.NotificationLog{
		Template:  template,
		Recipient: msg.To,
		Subject:   msg.Subject,
		Status:    entity.NotificationStatusSent,
	}

	if err := s.transport.Send(msg); err != nil {
		logEntry.Status = entity.NotificationStatusFailed
		logEntry.Detail = err.Error()
		log.Printf("Email delivery failed (%s to %s): %v", template, msg.To, err)
	}

	if err := s.notificationRepo.Create(ctx, logEntry); err != nil {
		log.Printf("Failed to record notification log (%s to %s): %v", template, msg.To, err)
	}

	return logEntry
}

// SendPaymentReceipt emails the receipt for a paid invoice to the patient.
// Invoked asynchronously after payment; a patient without an email address
// is simply skipped.
func (s *NotificationService) SendPaymentReceipt(ctx context.Context, invoice *entity.Invoice) {
	if invoice == nil || invoice.Patient.Email == nil || *invoice.Patient.Email == "" {
		return
	}

	data := email.PaymentReceiptData{
		PatientName: invoice.PatientName,
		CenterName:  s.center.Name,
		InvoiceNo:   invoice.InvoiceNo,
		SubTotal:    formatMoney(float64(invoice.SubTotal) / 100),
		Total:       formatMoney(float64(invoice.Total) / 100),
	}
	if invoice.DiscountAmount > 0 {
		data.Discount = formatMoney(float64(invoice.DiscountAmount) / 100)
	}
	if invoice.ReceiptNo != nil {
		data.ReceiptNo = *invoice.ReceiptNo
	}
	if invoice.PaymentMethod != nil {
		data.PaymentMethod = invoice.PaymentMethod.String()
	}
	if invoice.PaidAt != nil {
		data.PaidAt = invoice.PaidAt.Format("02 Jan 2006 15:04")
	}
	for _, item := range invoice.Items {
		data.Items = append(data.Items, email.ReceiptLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    formatMoney(float64(item.Total) / 100),
		})
	}

	msg, err := s.renderer.PaymentReceipt(*invoice.Patient.Email, data)
	if err != nil {
		log.Printf("Failed to render payment receipt email for invoice %s: %v", invoice.InvoiceNo, err)
		return
	}

	s.dispatch(ctx, "payment_receipt", msg)
}

// AppointmentEmailInput carries the fields for confirmation/reminder emails
type AppointmentEmailInput struct {
	PatientID   uuid.UUID
	BranchName  string
	ScheduledAt time.Time
	Tests       []string
}

// SendAppointmentConfirmation emails an appointment confirmation to a patient
func (s *NotificationService) SendAppointmentConfirmation(ctx context.Context, input *AppointmentEmailInput) (*entity.NotificationLog, error) {
	return s.sendAppointmentEmail(ctx, input, "appointment_confirmation")
}

// SendAppointmentReminder emails an appointment reminder to a patient
func (s *NotificationService) SendAppointmentReminder(ctx context.Context, input *AppointmentEmailInput) (*entity.NotificationLog, error) {
	return s.sendAppointmentEmail(ctx, input, "appointment_reminder")
}

func (s *NotificationService) sendAppointmentEmail(ctx context.Context, input *AppointmentEmailInput, template string) (*entity.NotificationLog, error) {
	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	if patient.Email == nil || *patient.Email == "" {
		return nil, apperror.NewUnprocessableError("Patient has no email address on record")
	}

	branchName := input.BranchName
	if branchName == "" {
		branchName = s.center.Name
	}

	data := email.AppointmentData{
		PatientName: patient.FullName(),
		CenterName:  s.center.Name,
		BranchName:  branchName,
		ScheduledAt: input.ScheduledAt.Format("02 Jan 2006 15:04"),
		Tests:       input.Tests,
	}

	var msg email.Message
	if template == "appointment_reminder" {
		msg, err = s.renderer.AppointmentReminder(*patient.Email, data)
	} else {
		msg, err = s.renderer.AppointmentConfirmation(*patient.Email, data)
	}
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, template, msg), nil
}

// ResultsReadyInput carries the fields for the results-ready email
type ResultsReadyInput struct {
	PatientID uuid.UUID
	InvoiceNo string
	Tests     []string
}

// SendResultsReady notifies a patient that their test results are available
func (s *NotificationService) SendResultsReady(ctx context.Context, input *ResultsReadyInput) (*entity.NotificationLog, error) {
	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	if patient.Email == nil || *patient.Email == "" {
		return nil, apperror.NewUnprocessableError("Patient has no email address on record")
	}

	msg, err := s.renderer.ResultsReady(*patient.Email, email.ResultsReadyData{
		PatientName: patient.FullName(),
		CenterName:  s.center.Name,
		InvoiceNo:   input.InvoiceNo,
		Tests:       input.Tests,
	})
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, "results_ready", msg), nil
}

// CriticalAlertInput carries the fields for the critical result alert
type CriticalAlertInput struct {
	RecipientEmail string
	PatientID      uuid.UUID
	TestName       string
	Finding        string
	ReferredBy     string
}

// SendCriticalResultAlert alerts a clinician about a critical result. The
// lab quality inbox is always copied.
func (s *NotificationService) SendCriticalResultAlert(ctx context.Context, input *CriticalAlertInput) (*entity.NotificationLog, error) {
	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	msg, err := s.renderer.CriticalResultAlert(input.RecipientEmail, email.CriticalResultData{
		CenterName:  s.center.Name,
		PatientName: patient.FullName(),
		PatientNo:   patient.PatientNo,
		TestName:    input.TestName,
		Finding:     input.Finding,
		ReferredBy:  input.ReferredBy,
	})
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, "critical_result_alert", msg), nil
}

// StaffNotificationInput carries the fields for internal staff notifications
type StaffNotificationInput struct {
	UserID   uuid.UUID
	Priority string
	Title    string
	Body     string
}

// SendStaffNotification emails an internal notification to a staff member
func (s *NotificationService) SendStaffNotification(ctx context.Context, input *StaffNotificationInput) (*entity.NotificationLog, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	msg, err := s.renderer.StaffNotification(user.Email, email.StaffNotificationData{
		CenterName:    s.center.Name,
		RecipientName: user.FirstName,
		Priority:      input.Priority,
		Title:         input.Title,
		Body:          input.Body,
	})
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, "staff_notification", msg), nil
}

// ListNotifications returns the audit trail, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, params *pagination.PaginationParams, template, status string) (*pagination.PaginatedResult[entity.NotificationLog], error) {
	logs, total, err := s.notificationRepo.List(ctx, params, template, status)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(logs, pag), nil
}
