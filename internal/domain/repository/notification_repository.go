package repository

import (
	"context"

	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// NotificationRepository persists the email audit trail.
type NotificationRepository interface {
	Create(ctx context.Context, log *entity.NotificationLog) error
	List(ctx context.Context, params *pagination.PaginationParams, template, status string) ([]entity.NotificationLog, int64, error)
}
