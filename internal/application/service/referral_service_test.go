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

func newReferralTestEnv(t *testing.T) (*ReferralService, context.Context) {
	t.Helper()
	return NewReferralService(newFakeReferralRepo()), infraRepo.WithBranch(context.Background(), uuid.New())
}

func TestQuickAddReferralProviderFlagsCommissionSetup(t *testing.T) {
	svc, ctx := newReferralTestEnv(t)

	provider, err := svc.CreateReferralProvider(ctx, &CreateReferralInput{
		Name: "Dr. Bello",
	})
	require.NoError(t, err)

	assert.True(t, provider.RequiresCommissionSetup, "quick-add must flag the provider for later commission setup")
	assert.Equal(t, 0, provider.CommissionRateBps)
}

func TestCreateReferralProviderWithCommission(t *testing.T) {
	svc, ctx := newReferralTestEnv(t)

	rate := 500
	provider, err := svc.CreateReferralProvider(ctx, &CreateReferralInput{
		Name:              "City Clinic",
		CommissionRateBps: &rate,
	})
	require.NoError(t, err)

	assert.False(t, provider.RequiresCommissionSetup)
	assert.Equal(t, 500, provider.CommissionRateBps)
}

func TestCreateReferralProviderRequiresName(t *testing.T) {
	svc, ctx := newReferralTestEnv(t)

	_, err := svc.CreateReferralProvider(ctx, &CreateReferralInput{Name: "  "})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestSetCommissionClearsSetupFlag(t *testing.T) {
	svc, ctx := newReferralTestEnv(t)

	provider, err := svc.CreateReferralProvider(ctx, &CreateReferralInput{Name: "Dr. Bello"})
	require.NoError(t, err)
	require.True(t, provider.RequiresCommissionSetup)

	updated, err := svc.SetCommission(ctx, provider.ID, 750)
	require.NoError(t, err)

	assert.Equal(t, 750, updated.CommissionRateBps)
	assert.False(t, updated.RequiresCommissionSetup)
}

func TestSetCommissionValidatesRange(t *testing.T) {
	svc, ctx := newReferralTestEnv(t)

	provider, err := svc.CreateReferralProvider(ctx, &CreateReferralInput{Name: "Dr. Bello"})
	require.NoError(t, err)

	for _, rate := range []int{-1, 10001} {
		_, err := svc.SetCommission(ctx, provider.ID, rate)
		require.Error(t, err)
		assert.Equal(t, 422, apperror.GetAppError(err).Code)
	}

	_, err = svc.SetCommission(ctx, uuid.New(), 500)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
