package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/internal/domain/repository"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
	"github.com/medilabs/diagnostics-api/pkg/utils"
)

// PatientService manages patient registration and lookup
type PatientService struct {
	patientRepo repository.PatientRepository
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo repository.PatientRepository) *PatientService {
	return &PatientService{patientRepo: patientRepo}
}

// CreatePatientInput represents the register patient input
type CreatePatientInput struct {
	FirstName   string
	LastName    string
	Email       *string
	Phone       *string
	DateOfBirth *time.Time
}

// CreatePatient registers a new patient with a generated patient number
func (s *PatientService) CreatePatient(ctx context.Context, input *CreatePatientInput) (*entity.Patient, error) {
	branchID, ok := infraRepo.GetBranchID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Branch context required")
	}

	if strings.TrimSpace(input.FirstName) == "" {
		return nil, apperror.NewUnprocessableError("First name is required")
	}

	patient := &entity.Patient{
		BranchID:    branchID,
		PatientNo:   utils.GeneratePatientNo(),
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		Email:       input.Email,
		Phone:       input.Phone,
		DateOfBirth: input.DateOfBirth,
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// UpdatePatientInput represents updatable patient fields
type UpdatePatientInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	DateOfBirth *time.Time
}

// UpdatePatient updates a patient's contact details
func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, input *UpdatePatientInput) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	if input.FirstName != nil {
		patient.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		patient.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		patient.Email = input.Email
	}
	if input.Phone != nil {
		patient.Phone = input.Phone
	}
	if input.DateOfBirth != nil {
		patient.DateOfBirth = input.DateOfBirth
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// GetPatient retrieves a patient by ID
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	return patient, nil
}

// ListPatients lists patients with optional search over name, number and phone
func (s *PatientService) ListPatients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Patient], error) {
	patients, total, err := s.patientRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(patients, pag), nil
}
