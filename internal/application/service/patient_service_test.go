package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	infraRepo "github.com/medilabs/diagnostics-api/internal/infrastructure/repository"
	"github.com/medilabs/diagnostics-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatientTestEnv(t *testing.T) (*PatientService, context.Context) {
	t.Helper()
	return NewPatientService(newFakePatientRepo()), infraRepo.WithBranch(context.Background(), uuid.New())
}

func TestCreatePatientGeneratesPatientNo(t *testing.T) {
	svc, ctx := newPatientTestEnv(t)

	emailAddr := "jane.doe@example.com"
	patient, err := svc.CreatePatient(ctx, &CreatePatientInput{
		FirstName: "  Jane ",
		LastName:  "Doe",
		Email:     &emailAddr,
	})
	require.NoError(t, err)

	assert.Contains(t, patient.PatientNo, "PT-")
	assert.Equal(t, "Jane", patient.FirstName)
	assert.Equal(t, "Jane Doe", patient.FullName())
}

func TestCreatePatientRequiresFirstName(t *testing.T) {
	svc, ctx := newPatientTestEnv(t)

	_, err := svc.CreatePatient(ctx, &CreatePatientInput{FirstName: "   "})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestCreatePatientRequiresBranchContext(t *testing.T) {
	svc, _ := newPatientTestEnv(t)

	_, err := svc.CreatePatient(context.Background(), &CreatePatientInput{FirstName: "Jane"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestUpdatePatient(t *testing.T) {
	svc, ctx := newPatientTestEnv(t)

	patient, err := svc.CreatePatient(ctx, &CreatePatientInput{FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	phone := "+2348012345678"
	updated, err := svc.UpdatePatient(ctx, patient.ID, &UpdatePatientInput{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
	assert.Equal(t, patient.PatientNo, updated.PatientNo, "patient number never changes")

	_, err = svc.UpdatePatient(ctx, uuid.New(), &UpdatePatientInput{Phone: &phone})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestGetPatientNotFound(t *testing.T) {
	svc, ctx := newPatientTestEnv(t)

	_, err := svc.GetPatient(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
