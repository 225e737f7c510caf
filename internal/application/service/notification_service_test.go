package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	appconfig "github.com/medilabs/diagnostics-api/internal/config"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/email"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notificationTestEnv struct {
	*paymentTestEnv
	svc       *NotificationService
	transport *fakeTransport
	logs      *fakeNotificationRepo
	users     *fakeUserRepo
}

func newNotificationTestEnv(t *testing.T) *notificationTestEnv {
	t.Helper()

	base := newPaymentTestEnv(t)
	transport := &fakeTransport{}
	logs := &fakeNotificationRepo{}
	users := newFakeUserRepo()

	renderer := email.NewService(email.Config{
		FromName:        "MediLabs Diagnostics",
		FromEmail:       "billing@medilabs.example",
		LabQualityInbox: "lab-quality@medilabs.example",
	})

	return &notificationTestEnv{
		paymentTestEnv: base,
		svc: NewNotificationService(
			renderer,
			transport,
			logs,
			base.patientRepo,
			users,
			appconfig.CenterConfig{Name: "MediLabs Diagnostics"},
		),
		transport: transport,
		logs:      logs,
		users:     users,
	}
}

func (e *notificationTestEnv) addPatientWithEmail(t *testing.T, addr string) *entity.Patient {
	t.Helper()
	patient := e.addPatient(t)
	patient.Email = &addr
	require.NoError(t, e.patientRepo.Update(e.ctx, patient))
	return patient
}

func TestSendPaymentReceiptAuditsSuccess(t *testing.T) {
	env := newNotificationTestEnv(t)
	patient := env.addPatientWithEmail(t, "jane.doe@example.com")
	_ = patient

	invoice := env.createUnpaidInvoiceFor(t, patient)
	paid := env.payInvoice(t, invoice)

	env.svc.SendPaymentReceipt(env.ctx, paid)

	sent := env.transport.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane.doe@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, "Payment Receipt")
	assert.Contains(t, sent[0].Subject, paid.InvoiceNo)

	require.Len(t, env.logs.logs, 1)
	logEntry := env.logs.logs[0]
	assert.Equal(t, "payment_receipt", logEntry.Template)
	assert.Equal(t, entity.NotificationStatusSent, logEntry.Status)
	assert.Equal(t, "jane.doe@example.com", logEntry.Recipient)
}

func TestSendPaymentReceiptAuditsFailure(t *testing.T) {
	env := newNotificationTestEnv(t)
	patient := env.addPatientWithEmail(t, "jane.doe@example.com")

	invoice := env.createUnpaidInvoiceFor(t, patient)
	paid := env.payInvoice(t, invoice)

	env.transport.failErr = assert.AnError

	// Delivery failures are audited, never surfaced.
	env.svc.SendPaymentReceipt(env.ctx, paid)

	require.Len(t, env.logs.logs, 1)
	logEntry := env.logs.logs[0]
	assert.Equal(t, entity.NotificationStatusFailed, logEntry.Status)
	assert.NotEmpty(t, logEntry.Detail)
}

func TestSendPaymentReceiptSkipsPatientWithoutEmail(t *testing.T) {
	env := newNotificationTestEnv(t)
	patient := env.addPatient(t)

	invoice := env.createUnpaidInvoiceFor(t, patient)
	paid := env.payInvoice(t, invoice)

	env.svc.SendPaymentReceipt(env.ctx, paid)

	assert.Empty(t, env.transport.sentMessages())
	assert.Empty(t, env.logs.logs)
}

func TestSendAppointmentConfirmation(t *testing.T) {
	env := newNotificationTestEnv(t)
	patient := env.addPatientWithEmail(t, "jane.doe@example.com")

	logEntry, err := env.svc.SendAppointmentConfirmation(env.ctx, &AppointmentEmailInput{
		PatientID:   patient.ID,
		BranchName:  "Ikeja Branch",
		ScheduledAt: time.Date(2026, 9, 3, 9, 30, 0, 0, time.UTC),
		Tests:       []string{"Full Blood Count", "Lipid Panel"},
	})
	require.NoError(t, err)
	assert.Equal(t, "appointment_confirmation", logEntry.Template)
	assert.Equal(t, entity.NotificationStatusSent, logEntry.Status)

	sent := env.transport.sentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "Appointment Confirmed")
	assert.Contains(t, sent[0].HTML, "Ikeja Branch")
	assert.Contains(t, sent[0].HTML, "Full Blood Count")
}

func TestSendAppointmentReminderRequiresEmail(t *testing.T) {
	env := newNotificationTestEnv(t)
	patient := env.addPatient(t)

	_, err := env.svc.SendAppointmentReminder(env.ctx, &AppointmentEmailInput{
		PatientID:   patient.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = env.svc.SendAppointmentReminder(env.ctx, &AppointmentEmailInput{
		PatientID:   uuid.New(),
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestSendResultsReady(t *testing.T) {
	env := newNotificationTestEnv(t)
	patient := env.addPatientWithEmail(t, "jane.doe@example.com")

	logEntry, err := env.svc.SendResultsReady(env.ctx, &ResultsReadyInput{
		PatientID: patient.ID,
		InvoiceNo: "INV-ABCD1234",
		Tests:     []string{"Thyroid Function"},
	})
	require.NoError(t, err)
	assert.Equal(t, "results_ready", logEntry.Template)

	sent := env.transport.sentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "Your Test Results Are Ready")
}

func TestSendCriticalResultAlertCopiesLabQuality(t *testing.T) {
	env := newNotificationTestEnv(t)
	patient := env.addPatientWithEmail(t, "jane.doe@example.com")

	logEntry, err := env.svc.SendCriticalResultAlert(env.ctx, &CriticalAlertInput{
		RecipientEmail: "dr.bello@clinic.example",
		PatientID:      patient.ID,
		TestName:       "Potassium",
		Finding:        "7.1 mmol/L",
		ReferredBy:     "Dr. Bello",
	})
	require.NoError(t, err)
	assert.Equal(t, "critical_result_alert", logEntry.Template)

	sent := env.transport.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "dr.bello@clinic.example", sent[0].To)
	assert.Contains(t, sent[0].CC, "lab-quality@medilabs.example")
	assert.Contains(t, sent[0].Subject, "CRITICAL RESULT")
	assert.Contains(t, sent[0].Subject, "Potassium")
}

func TestSendStaffNotificationPriorityTag(t *testing.T) {
	env := newNotificationTestEnv(t)
	user := &entity.User{
		ID:        uuid.New(),
		FirstName: "Ngozi",
		LastName:  "Eze",
		Email:     "ngozi.eze@medilabs.example",
	}
	env.users.users[user.ID] = user

	logEntry, err := env.svc.SendStaffNotification(env.ctx, &StaffNotificationInput{
		UserID:   user.ID,
		Priority: "urgent",
		Title:    "Reconciliation mismatch",
		Body:     "Cash drawer total does not match collected payments.",
	})
	require.NoError(t, err)
	assert.Equal(t, "staff_notification", logEntry.Template)

	sent := env.transport.sentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "[URGENT]")
	assert.Contains(t, sent[0].Subject, "Reconciliation mismatch")
}

func TestListNotificationsFilters(t *testing.T) {
	env := newNotificationTestEnv(t)

	env.logs.logs = []entity.NotificationLog{
		{Template: "payment_receipt", Status: entity.NotificationStatusSent},
		{Template: "payment_receipt", Status: entity.NotificationStatusFailed},
		{Template: "results_ready", Status: entity.NotificationStatusSent},
	}

	result, err := env.svc.ListNotifications(env.ctx, &pagination.PaginationParams{Page: 1, PerPage: 20}, "payment_receipt", entity.NotificationStatusFailed)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, entity.NotificationStatusFailed, result.Items[0].Status)
}
