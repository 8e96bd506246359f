package repositories

import (
	"context"

	"opspulse/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// metricRepository implements MetricRepository interface
type metricRepository struct {
	db *gorm.DB
}

// NewMetricRepository creates a new metric repository
func NewMetricRepository(db *gorm.DB) MetricRepository {
	return &metricRepository{db: db}
}

// Create creates a metric definition. The unique name index rejects
// duplicates atomically with gorm.ErrDuplicatedKey.
func (r *metricRepository) Create(ctx context.Context, metric *models.MetricDefinition) error {
	return r.db.WithContext(ctx).Create(metric).Error
}

// GetByID gets a metric definition by ID
func (r *metricRepository) GetByID(ctx context.Context, id uint) (*models.MetricDefinition, error) {
	var metric models.MetricDefinition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&metric).Error
	if err != nil {
		return nil, err
	}
	return &metric, nil
}

// Update updates a metric definition
func (r *metricRepository) Update(ctx context.Context, metric *models.MetricDefinition) error {
	return r.db.WithContext(ctx).Save(metric).Error
}

// Delete deletes a metric definition. Historical reports keep their
// point-in-time copies.
func (r *metricRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.MetricDefinition{}, id).Error
}

// List lists all metric definitions
func (r *metricRepository) List(ctx context.Context) ([]*models.MetricDefinition, error) {
	var metrics []*models.MetricDefinition
	if err := r.db.WithContext(ctx).Order("name").Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}
