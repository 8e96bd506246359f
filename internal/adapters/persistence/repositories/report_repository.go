package repositories

import (
	"context"

	"opspulse/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reportRepository implements ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create creates a weekly report. The unique composite-key index rejects
// a second report for the same week atomically with gorm.ErrDuplicatedKey.
func (r *reportRepository) Create(ctx context.Context, report *models.WeeklyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetByID gets a weekly report by ID
func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.WeeklyReport, error) {
	var report models.WeeklyReport
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Update updates a weekly report
func (r *reportRepository) Update(ctx context.Context, report *models.WeeklyReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// Delete hard deletes a weekly report, no cascade
func (r *reportRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.WeeklyReport{}, id).Error
}

// List lists weekly reports matching the filter, newest week first
func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]*models.WeeklyReport, error) {
	var reports []*models.WeeklyReport
	query := r.db.WithContext(ctx).Order("week_end DESC")
	if filter.FY != "" {
		query = query.Where("fy = ?", filter.FY)
	}
	if filter.Quarter != "" {
		query = query.Where("quarter = ?", filter.Quarter)
	}
	if filter.WeekDate != "" {
		query = query.Where("week_date = ?", filter.WeekDate)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Latest returns the most recently dated weekly report
func (r *reportRepository) Latest(ctx context.Context) (*models.WeeklyReport, error) {
	var report models.WeeklyReport
	err := r.db.WithContext(ctx).Order("week_end DESC").First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpsertDraft inserts or overwrites the single draft owned by
// (created_by, fy, quarter, week_date) in one atomic statement.
func (r *reportRepository) UpsertDraft(ctx context.Context, draft *models.ReportDraft) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "created_by"},
			{Name: "fy"},
			{Name: "quarter"},
			{Name: "week_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"metrics", "updated_at"}),
	}).Create(draft).Error
}

// GetDraft gets the draft owned by one principal for one composite key
func (r *reportRepository) GetDraft(ctx context.Context, userID uint, fy, quarter, weekDate string) (*models.ReportDraft, error) {
	var draft models.ReportDraft
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND fy = ? AND quarter = ? AND week_date = ?", userID, fy, quarter, weekDate).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// DeleteDraft deletes the draft owned by one principal for one composite key
func (r *reportRepository) DeleteDraft(ctx context.Context, userID uint, fy, quarter, weekDate string) error {
	return r.db.WithContext(ctx).
		Where("created_by = ? AND fy = ? AND quarter = ? AND week_date = ?", userID, fy, quarter, weekDate).
		Delete(&models.ReportDraft{}).Error
}
