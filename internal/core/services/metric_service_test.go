package services

import (
	"context"
	"testing"

	"opspulse/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricService(t *testing.T) *MetricService {
	t.Helper()
	return NewMetricService(repositories.NewMetricRepository(newTestDB(t)))
}

func TestDefineMetricNameIsUnique(t *testing.T) {
	svc := newMetricService(t)
	ctx := context.Background()
	input := &MetricInput{Name: "Availability", Baseline: 90, Target: 95, Unit: "%"}

	_, err := svc.Define(ctx, input, 1)
	require.NoError(t, err)

	_, err = svc.Define(ctx, input, 1)
	assert.ErrorIs(t, err, ErrMetricNameTaken)
}

func TestMetricLifecycle(t *testing.T) {
	svc := newMetricService(t)
	ctx := context.Background()

	metric, err := svc.Define(ctx, &MetricInput{Name: "Latency", Baseline: 100, Target: 200, Unit: "ms"}, 1)
	require.NoError(t, err)

	got, err := svc.Get(ctx, metric.ID)
	require.NoError(t, err)
	assert.Equal(t, "Latency", got.Name)

	updated, err := svc.Update(ctx, metric.ID, &MetricInput{Name: "Latency p99", Baseline: 100, Target: 250, Unit: "ms"})
	require.NoError(t, err)
	assert.Equal(t, "Latency p99", updated.Name)
	assert.InDelta(t, 250, updated.Target, 1e-9)

	require.NoError(t, svc.Delete(ctx, metric.ID))
	_, err = svc.Get(ctx, metric.ID)
	assert.ErrorIs(t, err, ErrMetricNotFound)
}

func TestMetricUpdateOntoTakenName(t *testing.T) {
	svc := newMetricService(t)
	ctx := context.Background()

	_, err := svc.Define(ctx, &MetricInput{Name: "Availability", Baseline: 90, Target: 95}, 1)
	require.NoError(t, err)
	latency, err := svc.Define(ctx, &MetricInput{Name: "Latency", Baseline: 100, Target: 200}, 1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, latency.ID, &MetricInput{Name: "Availability", Baseline: 100, Target: 200})
	assert.ErrorIs(t, err, ErrMetricNameTaken)
}

func TestMetricNotFound(t *testing.T) {
	svc := newMetricService(t)

	_, err := svc.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrMetricNotFound)

	err = svc.Delete(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrMetricNotFound)
}
