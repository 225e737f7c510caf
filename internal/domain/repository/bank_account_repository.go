package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
)

// BankAccountRepository defines the interface for organization bank account
// lookups. The list is reference data; billing never mutates it.
type BankAccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BankAccount, error)
	List(ctx context.Context) ([]entity.BankAccount, error)
}
