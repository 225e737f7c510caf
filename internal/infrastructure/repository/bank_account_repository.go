package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	domainRepo "github.com/medilabs/diagnostics-api/internal/domain/repository"
	"gorm.io/gorm"
)

type bankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository creates a new bank account repository.
// Bank accounts are organization-wide reference data, not branch-scoped.
func NewBankAccountRepository(db *gorm.DB) domainRepo.BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BankAccount, error) {
	var account entity.BankAccount
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *bankAccountRepository) List(ctx context.Context) ([]entity.BankAccount, error) {
	var accounts []entity.BankAccount
	err := r.db.WithContext(ctx).
		Order("is_default_receiving DESC, account_name ASC").
		Find(&accounts).Error
	return accounts, err
}
