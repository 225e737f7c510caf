package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification delivery outcomes.
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationLog is the audit row written for every email attempt,
// success or failure. Notifications are best-effort and never retried,
// so this table is the only durable record of what went out.
type NotificationLog struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Template  string    `gorm:"size:100;not null;index" json:"template"`
	Recipient string    `gorm:"size:255;not null" json:"recipient"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Status    string    `gorm:"size:20;not null;index" json:"status"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"` // provider message id or error text
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName returns the table name for NotificationLog
func (NotificationLog) TableName() string {
	return "notification_logs"
}
