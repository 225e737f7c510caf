package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// CatalogRepository defines the interface for test/service catalog operations
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	CreateBatch(ctx context.Context, items []entity.CatalogItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.CatalogItem, error)
	GetByCode(ctx context.Context, code string) (*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.CatalogItem, int64, error)
}
