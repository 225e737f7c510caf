package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// ReferralRepository defines the interface for referral provider operations
type ReferralRepository interface {
	Create(ctx context.Context, provider *entity.ReferralProvider) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReferralProvider, error)
	Update(ctx context.Context, provider *entity.ReferralProvider) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.ReferralProvider, int64, error)
}
