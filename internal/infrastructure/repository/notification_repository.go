package repository

import (
	"context"

	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	domainRepo "github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification log repository
func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, log *entity.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *notificationRepository) List(ctx context.Context, params *pagination.PaginationParams, template, status string) ([]entity.NotificationLog, int64, error) {
	var logs []entity.NotificationLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.NotificationLog{})

	if template != "" {
		query = query.Where("template = ?", template)
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&logs).Error

	return logs, total, err
}
