package request

import "github.com/google/uuid"

// AppointmentEmailRequest represents an appointment confirmation or reminder
// request.
type AppointmentEmailRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	BranchName  string    `json:"branch_name" binding:"omitempty,max=255"`
	ScheduledAt string    `json:"scheduled_at" binding:"required"`
	Tests       []string  `json:"tests"`
}

// ResultsReadyRequest represents a results-ready notification request
type ResultsReadyRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	InvoiceNo string    `json:"invoice_no" binding:"omitempty,max=100"`
	Tests     []string  `json:"tests"`
}

// CriticalAlertRequest represents a critical result alert request
type CriticalAlertRequest struct {
	RecipientEmail string    `json:"recipient_email" binding:"required,email"`
	PatientID      uuid.UUID `json:"patient_id" binding:"required"`
	TestName       string    `json:"test_name" binding:"required,max=255"`
	Finding        string    `json:"finding" binding:"required,max=500"`
	ReferredBy     string    `json:"referred_by" binding:"omitempty,max=255"`
}

// StaffNotificationRequest represents an internal staff notification request
type StaffNotificationRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Priority string    `json:"priority" binding:"omitempty,oneof=normal high urgent"`
	Title    string    `json:"title" binding:"required,max=255"`
	Body     string    `json:"body" binding:"required"`
}
