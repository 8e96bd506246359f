package services

import (
	"context"
	"testing"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFYConfigService(t *testing.T) *FYConfigService {
	t.Helper()
	return NewFYConfigService(repositories.NewFYConfigRepository(newTestDB(t)))
}

func TestFYConfigUniquePerFiscalYear(t *testing.T) {
	svc := newFYConfigService(t)
	ctx := context.Background()
	input := &FYConfigInput{
		FY: "FY25",
		Quarters: []models.QuarterConfig{
			{Name: "Q1", StartDate: "01-04-2025", EndDate: "30-06-2025"},
		},
	}

	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	_, err = svc.Create(ctx, input)
	assert.ErrorIs(t, err, ErrFYConfigExists)
}

func TestFYConfigLookupByFY(t *testing.T) {
	svc := newFYConfigService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &FYConfigInput{
		FY: "FY25",
		Quarters: []models.QuarterConfig{
			{Name: "Q1", StartDate: "01-04-2025", EndDate: "30-06-2025"},
			{Name: "Q2", StartDate: "01-07-2025", EndDate: "30-09-2025"},
		},
	})
	require.NoError(t, err)

	found, err := svc.GetByFY(ctx, "FY25")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Len(t, found.Quarters, 2)

	// Absent fiscal year is nil, not an error
	missing, err := svc.GetByFY(ctx, "FY99")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFYConfigUpdateAndDelete(t *testing.T) {
	svc := newFYConfigService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &FYConfigInput{FY: "FY25"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &FYConfigInput{
		FY:       "FY25",
		Quarters: []models.QuarterConfig{{Name: "Q1", StartDate: "01-04-2025", EndDate: "30-06-2025"}},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Quarters, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrFYConfigNotFound)
}
