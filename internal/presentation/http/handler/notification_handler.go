package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medilabs/diagnostics-api/internal/application/service"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/request"
	"github.com/medilabs/diagnostics-api/internal/presentation/http/dto/response"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// NotificationHandler handles notification dispatch and audit HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles listing the notification audit trail
func (h *NotificationHandler) List(c *gin.Context) {
	params := &pagination.PaginationParams{
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 15),
	}

	result, err := h.notificationService.ListNotifications(c.Request.Context(), params, c.Query("template"), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Notifications retrieved successfully", result)
}

// SendAppointmentConfirmation handles dispatching an appointment confirmation
func (h *NotificationHandler) SendAppointmentConfirmation(c *gin.Context) {
	h.sendAppointmentEmail(c, false)
}

// SendAppointmentReminder handles dispatching an appointment reminder
func (h *NotificationHandler) SendAppointmentReminder(c *gin.Context) {
	h.sendAppointmentEmail(c, true)
}

func (h *NotificationHandler) sendAppointmentEmail(c *gin.Context, reminder bool) {
	var req request.AppointmentEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		response.BadRequest(c, "scheduled_at must be RFC3339, e.g. 2026-09-03T09:30:00Z")
		return
	}

	input := &service.AppointmentEmailInput{
		PatientID:   req.PatientID,
		BranchName:  req.BranchName,
		ScheduledAt: scheduledAt,
		Tests:       req.Tests,
	}

	var logEntry interface{}
	if reminder {
		logEntry, err = h.notificationService.SendAppointmentReminder(c.Request.Context(), input)
	} else {
		logEntry, err = h.notificationService.SendAppointmentConfirmation(c.Request.Context(), input)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification dispatched", logEntry)
}

// SendResultsReady handles dispatching a results-ready notification
func (h *NotificationHandler) SendResultsReady(c *gin.Context) {
	var req request.ResultsReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	logEntry, err := h.notificationService.SendResultsReady(c.Request.Context(), &service.ResultsReadyInput{
		PatientID: req.PatientID,
		InvoiceNo: req.InvoiceNo,
		Tests:     req.Tests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification dispatched", logEntry)
}

// SendCriticalAlert handles dispatching a critical result alert
func (h *NotificationHandler) SendCriticalAlert(c *gin.Context) {
	var req request.CriticalAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	logEntry, err := h.notificationService.SendCriticalResultAlert(c.Request.Context(), &service.CriticalAlertInput{
		RecipientEmail: req.RecipientEmail,
		PatientID:      req.PatientID,
		TestName:       req.TestName,
		Finding:        req.Finding,
		ReferredBy:     req.ReferredBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification dispatched", logEntry)
}

// SendStaffNotification handles dispatching an internal staff notification
func (h *NotificationHandler) SendStaffNotification(c *gin.Context) {
	var req request.StaffNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	logEntry, err := h.notificationService.SendStaffNotification(c.Request.Context(), &service.StaffNotificationInput{
		UserID:   req.UserID,
		Priority: priority,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Notification dispatched", logEntry)
}
