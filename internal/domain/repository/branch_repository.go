package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
)

// BranchRepository defines the interface for branch data operations
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	GetByCode(ctx context.Context, code string) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	List(ctx context.Context) ([]entity.Branch, error)
}
