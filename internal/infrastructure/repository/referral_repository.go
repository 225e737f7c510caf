package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	domainRepo "github.com/medilabs/diagnostics-api/internal/domain/repository"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"gorm.io/gorm"
)

type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new referral provider repository
func NewReferralRepository(db *gorm.DB) domainRepo.ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, provider *entity.ReferralProvider) error {
	return r.db.WithContext(ctx).Create(provider).Error
}

func (r *referralRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReferralProvider, error) {
	var provider entity.ReferralProvider
	err := r.db.WithContext(ctx).Scopes(BranchScope(ctx)).First(&provider, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &provider, err
}

func (r *referralRepository) Update(ctx context.Context, provider *entity.ReferralProvider) error {
	return r.db.WithContext(ctx).Save(provider).Error
}

func (r *referralRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.ReferralProvider, int64, error) {
	var providers []entity.ReferralProvider
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ReferralProvider{}).Scopes(BranchScope(ctx))

	if search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&providers).Error

	return providers, total, err
}
