package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// ReferralService manages referring doctors and facilities
type ReferralService struct {
	referralRepo repository.ReferralRepository
}

// NewReferralService creates a new referral service
func NewReferralService(referralRepo repository.ReferralRepository) *ReferralService {
	return &ReferralService{referralRepo: referralRepo}
}

// CreateReferralInput represents the create referral provider input
type CreateReferralInput struct {
	Name              string
	Phone             *string
	Email             *string
	CommissionRateBps *int
}

// CreateReferralProvider registers a referral provider. When no commission
// rate is supplied (the quick-add path while a patient waits at the counter)
// the provider is flagged for later commission setup.
func (s *ReferralService) CreateReferralProvider(ctx context.Context, input *CreateReferralInput) (*entity.ReferralProvider, error) {
	branchID, ok := infraRepo.GetBranchID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Branch context required")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewUnprocessableError("Provider name is required")
	}

	provider := &entity.ReferralProvider{
		BranchID:                branchID,
		Name:                    strings.TrimSpace(input.Name),
		Phone:                   input.Phone,
		Email:                   input.Email,
		RequiresCommissionSetup: true,
	}

	if input.CommissionRateBps != nil {
		if *input.CommissionRateBps < 0 || *input.CommissionRateBps > 10000 {
			return nil, apperror.NewUnprocessableError("Commission rate must be between 0 and 10000 basis points")
		}
		provider.CommissionRateBps = *input.CommissionRateBps
		provider.RequiresCommissionSetup = false
	}

	if err := s.referralRepo.Create(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// SetCommission records a provider's commission rate and clears the pending
// setup flag.
func (s *ReferralService) SetCommission(ctx context.Context, id uuid.UUID, rateBps int) (*entity.ReferralProvider, error) {
	if rateBps < 0 || rateBps > 10000 {
		return nil, apperror.NewUnprocessableError("Commission rate must be between 0 and 10000 basis points")
	}

	provider, err := s.referralRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperror.NewNotFoundError("Referral provider")
	}

	provider.CommissionRateBps = rateBps
	provider.RequiresCommissionSetup = false

	if err := s.referralRepo.Update(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// GetReferralProvider retrieves a referral provider by ID
func (s *ReferralService) GetReferralProvider(ctx context.Context, id uuid.UUID) (*entity.ReferralProvider, error) {
	provider, err := s.referralRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperror.NewNotFoundError("Referral provider")
	}
	return provider, nil
}

// ListReferralProviders lists referral providers with optional search
func (s *ReferralService) ListReferralProviders(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.ReferralProvider], error) {
	providers, total, err := s.referralRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(providers, pag), nil
}
