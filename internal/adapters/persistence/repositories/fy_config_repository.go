package repositories

import (
	"context"

	"opspulse/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// fyConfigRepository implements FYConfigRepository interface
type fyConfigRepository struct {
	db *gorm.DB
}

// NewFYConfigRepository creates a new fiscal-year config repository
func NewFYConfigRepository(db *gorm.DB) FYConfigRepository {
	return &fyConfigRepository{db: db}
}

// Create creates an FY config. The unique fy index rejects duplicates
// atomically with gorm.ErrDuplicatedKey.
func (r *fyConfigRepository) Create(ctx context.Context, config *models.FYConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

// GetByID gets an FY config by ID
func (r *fyConfigRepository) GetByID(ctx context.Context, id uint) (*models.FYConfig, error) {
	var config models.FYConfig
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// GetByFY gets an FY config by fiscal-year identifier
func (r *fyConfigRepository) GetByFY(ctx context.Context, fy string) (*models.FYConfig, error) {
	var config models.FYConfig
	err := r.db.WithContext(ctx).Where("fy = ?", fy).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Update updates an FY config
func (r *fyConfigRepository) Update(ctx context.Context, config *models.FYConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

// Delete deletes an FY config
func (r *fyConfigRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FYConfig{}, id).Error
}

// List lists all FY configs
func (r *fyConfigRepository) List(ctx context.Context) ([]*models.FYConfig, error) {
	var configs []*models.FYConfig
	if err := r.db.WithContext(ctx).Order("fy").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}
