package services

import (
	"context"
	"errors"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Metric service errors
var (
	ErrMetricNotFound  = errors.New("metric not found")
	ErrMetricNameTaken = errors.New("metric name already exists")
)

// MetricService handles the metric definition registry
type MetricService struct {
	metricRepo repositories.MetricRepository
}

// NewMetricService creates a new metric service
func NewMetricService(metricRepo repositories.MetricRepository) *MetricService {
	return &MetricService{metricRepo: metricRepo}
}

// MetricInput represents metric definition input
type MetricInput struct {
	Name          string  `json:"name"`
	Baseline      float64 `json:"baseline"`
	Target        float64 `json:"target"`
	Unit          string  `json:"unit"`
	ActualFormula string  `json:"actual_formula"`
}

// Define creates a metric definition
func (s *MetricService) Define(ctx context.Context, input *MetricInput, createdBy uint) (*models.MetricDefinition, error) {
	metric := &models.MetricDefinition{
		Name:          input.Name,
		Baseline:      input.Baseline,
		Target:        input.Target,
		Unit:          input.Unit,
		ActualFormula: input.ActualFormula,
		CreatedBy:     createdBy,
	}
	if err := s.metricRepo.Create(ctx, metric); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMetricNameTaken
		}
		return nil, err
	}
	return metric, nil
}

// Get gets a metric definition by ID
func (s *MetricService) Get(ctx context.Context, id uint) (*models.MetricDefinition, error) {
	metric, err := s.metricRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMetricNotFound
		}
		return nil, err
	}
	return metric, nil
}

// List lists all metric definitions
func (s *MetricService) List(ctx context.Context) ([]*models.MetricDefinition, error) {
	return s.metricRepo.List(ctx)
}

// Update updates a metric definition
func (s *MetricService) Update(ctx context.Context, id uint, input *MetricInput) (*models.MetricDefinition, error) {
	metric, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	metric.Name = input.Name
	metric.Baseline = input.Baseline
	metric.Target = input.Target
	metric.Unit = input.Unit
	metric.ActualFormula = input.ActualFormula

	if err := s.metricRepo.Update(ctx, metric); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMetricNameTaken
		}
		return nil, err
	}
	return metric, nil
}

// Delete deletes a metric definition. Historical weekly reports are
// unaffected: they carry point-in-time copies, not live links.
func (s *MetricService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.metricRepo.Delete(ctx, id)
}
