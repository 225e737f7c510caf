package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medilabs/diagnostics-api/internal/domain/entity"
	"github.com/medilabs/diagnostics-api/pkg/pagination"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	GetByPatientNo(ctx context.Context, patientNo string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Patient, int64, error)
}
