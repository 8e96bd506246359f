package services

import (
	"context"
	"errors"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// FY config service errors
var (
	ErrFYConfigNotFound = errors.New("fy config not found")
	ErrFYConfigExists   = errors.New("fy config already exists for this fiscal year")
)

// FYConfigService handles fiscal-year configuration
type FYConfigService struct {
	fyRepo repositories.FYConfigRepository
}

// NewFYConfigService creates a new FY config service
func NewFYConfigService(fyRepo repositories.FYConfigRepository) *FYConfigService {
	return &FYConfigService{fyRepo: fyRepo}
}

// FYConfigInput represents FY config input
type FYConfigInput struct {
	FY       string                 `json:"fy"`
	Quarters []models.QuarterConfig `json:"quarters"`
}

// Create creates an FY config
func (s *FYConfigService) Create(ctx context.Context, input *FYConfigInput) (*models.FYConfig, error) {
	config := &models.FYConfig{
		FY:       input.FY,
		Quarters: input.Quarters,
	}
	if err := s.fyRepo.Create(ctx, config); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFYConfigExists
		}
		return nil, err
	}
	return config, nil
}

// Get gets an FY config by ID
func (s *FYConfigService) Get(ctx context.Context, id uint) (*models.FYConfig, error) {
	config, err := s.fyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFYConfigNotFound
		}
		return nil, err
	}
	return config, nil
}

// GetByFY gets an FY config by fiscal-year identifier, nil when absent
func (s *FYConfigService) GetByFY(ctx context.Context, fy string) (*models.FYConfig, error) {
	config, err := s.fyRepo.GetByFY(ctx, fy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return config, nil
}

// List lists all FY configs
func (s *FYConfigService) List(ctx context.Context) ([]*models.FYConfig, error) {
	return s.fyRepo.List(ctx)
}

// Update updates an FY config
func (s *FYConfigService) Update(ctx context.Context, id uint, input *FYConfigInput) (*models.FYConfig, error) {
	config, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	config.FY = input.FY
	config.Quarters = input.Quarters

	if err := s.fyRepo.Update(ctx, config); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFYConfigExists
		}
		return nil, err
	}
	return config, nil
}

// Delete deletes an FY config
func (s *FYConfigService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.fyRepo.Delete(ctx, id)
}
