package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Report service errors
var (
	ErrReportNotFound  = errors.New("weekly report not found")
	ErrReportExists    = errors.New("a report for this week already exists")
	ErrInvalidWeekDate = errors.New("invalid week date, expected DD-MM-YYYY")
	ErrNoReports       = errors.New("no reports found")
)

// WeekDateLayout is the wire format of week-ending dates
const WeekDateLayout = "02-01-2006"

// ReportService handles the weekly report lifecycle: draft autosave,
// commit, update, delete, quarterly aggregation and the dashboard
// snapshot.
type ReportService struct {
	reportRepo repositories.ReportRepository
	metricRepo repositories.MetricRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repositories.ReportRepository, metricRepo repositories.MetricRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		metricRepo: metricRepo,
	}
}

// ReportKey is the (fiscal-year, quarter, week-ending date) composite key
type ReportKey struct {
	FY       string `json:"fy"`
	Quarter  string `json:"quarter"`
	WeekDate string `json:"week_date"`
}

// MetricValueInput represents one submitted metric value
type MetricValueInput struct {
	MetricID uint    `json:"metric_id"`
	Value    float64 `json:"value"`
	Comment  string  `json:"comment"`
}

// ComputeStatus classifies a value against baseline and target.
// This is the single authoritative rule for every status derivation:
// value >= target is green, value strictly above baseline is amber,
// everything else (value == baseline included) is red. A target at or
// below the baseline still resolves, green winning first.
func ComputeStatus(value, baseline, target float64) string {
	switch {
	case value >= target:
		return models.StatusGreen
	case value > baseline:
		return models.StatusAmber
	default:
		return models.StatusRed
	}
}

// parseWeekDate validates and parses a week-ending date
func parseWeekDate(weekDate string) (time.Time, error) {
	t, err := time.Parse(WeekDateLayout, weekDate)
	if err != nil {
		return time.Time{}, ErrInvalidWeekDate
	}
	return t, nil
}

// snapshotValues resolves each submitted value against its metric
// definition, copying baseline, target and unit at write time and
// computing the status.
func (s *ReportService) snapshotValues(ctx context.Context, values []MetricValueInput) (models.MetricValueList, error) {
	snapshot := make(models.MetricValueList, 0, len(values))
	for _, v := range values {
		metric, err := s.metricRepo.GetByID(ctx, v.MetricID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("metric %d: %w", v.MetricID, ErrMetricNotFound)
			}
			return nil, err
		}
		snapshot = append(snapshot, models.MetricValue{
			MetricID: metric.ID,
			Name:     metric.Name,
			Value:    v.Value,
			Comment:  v.Comment,
			Baseline: metric.Baseline,
			Target:   metric.Target,
			Unit:     metric.Unit,
			Status:   ComputeStatus(v.Value, metric.Baseline, metric.Target),
		})
	}
	return snapshot, nil
}

// SaveDraft upserts the single draft owned by (principal, key).
// Idempotent: repeated calls with identical input leave storage
// equivalent.
func (s *ReportService) SaveDraft(ctx context.Context, user *models.User, key ReportKey, values []MetricValueInput) error {
	if _, err := parseWeekDate(key.WeekDate); err != nil {
		return err
	}

	metrics := make(models.MetricValueList, 0, len(values))
	for _, v := range values {
		metrics = append(metrics, models.MetricValue{
			MetricID: v.MetricID,
			Value:    v.Value,
			Comment:  v.Comment,
		})
	}

	return s.reportRepo.UpsertDraft(ctx, &models.ReportDraft{
		FY:        key.FY,
		Quarter:   key.Quarter,
		WeekDate:  key.WeekDate,
		Metrics:   metrics,
		CreatedBy: user.ID,
	})
}

// GetDraft returns the principal's draft for the key, or nil when
// absent. A missing draft is not an error.
func (s *ReportService) GetDraft(ctx context.Context, user *models.User, key ReportKey) (*models.ReportDraft, error) {
	draft, err := s.reportRepo.GetDraft(ctx, user.ID, key.FY, key.Quarter, key.WeekDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return draft, nil
}

// Commit creates the weekly report for the key. Fails with
// ErrReportExists when the key is already committed; on success the
// principal's draft for the key is superseded and deleted.
func (s *ReportService) Commit(ctx context.Context, user *models.User, key ReportKey, values []MetricValueInput) (*models.WeeklyReport, error) {
	weekEnd, err := parseWeekDate(key.WeekDate)
	if err != nil {
		return nil, err
	}

	metrics, err := s.snapshotValues(ctx, values)
	if err != nil {
		return nil, err
	}

	report := &models.WeeklyReport{
		FY:        key.FY,
		Quarter:   key.Quarter,
		WeekDate:  key.WeekDate,
		WeekEnd:   weekEnd,
		Metrics:   metrics,
		CreatedBy: user.ID,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReportExists
		}
		return nil, err
	}

	// Commit supersedes the draft
	if err := s.reportRepo.DeleteDraft(ctx, user.ID, key.FY, key.Quarter, key.WeekDate); err != nil {
		log.Printf("⚠️ Failed to delete superseded draft for report %d: %v", report.ID, err)
	}

	log.Printf("✅ Weekly report committed: %s %s %s", key.FY, key.Quarter, key.WeekDate)

	return report, nil
}

// Get gets a weekly report by ID
func (s *ReportService) Get(ctx context.Context, id uint) (*models.WeeklyReport, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// Update re-snapshots the metric values of an existing report and may
// move it to a new key. Moving onto a key held by a different report
// fails with ErrReportExists.
func (s *ReportService) Update(ctx context.Context, id uint, key ReportKey, values []MetricValueInput) (*models.WeeklyReport, error) {
	weekEnd, err := parseWeekDate(key.WeekDate)
	if err != nil {
		return nil, err
	}

	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics, err := s.snapshotValues(ctx, values)
	if err != nil {
		return nil, err
	}

	report.FY = key.FY
	report.Quarter = key.Quarter
	report.WeekDate = key.WeekDate
	report.WeekEnd = weekEnd
	report.Metrics = metrics

	if err := s.reportRepo.Update(ctx, report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReportExists
		}
		return nil, err
	}
	return report, nil
}

// Delete hard deletes a weekly report. No cascade: other reports and
// aggregates are unaffected, and the composite key becomes free again.
func (s *ReportService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.reportRepo.Delete(ctx, id)
}

// List lists weekly reports matching the filter, newest week first
func (s *ReportService) List(ctx context.Context, filter repositories.ReportFilter) ([]*models.WeeklyReport, error) {
	return s.reportRepo.List(ctx, filter)
}

// QuarterlySummary aggregates the weekly reports of one (fy, quarter)
type QuarterlySummary struct {
	FY      string               `json:"fy"`
	Quarter string               `json:"quarter"`
	Metrics []models.MetricValue `json:"metrics"`
}

// AggregateQuarterly groups weekly reports by (fy, quarter) and computes
// the arithmetic mean of each metric across the weeks where it appears.
// Weeks missing a metric are excluded from that metric's mean, not
// counted as zero. Baseline, target and unit come from the first
// encountered snapshot; the stored status is not recomputed here.
func (s *ReportService) AggregateQuarterly(ctx context.Context, fy, quarter string) ([]QuarterlySummary, error) {
	reports, err := s.reportRepo.List(ctx, repositories.ReportFilter{FY: fy, Quarter: quarter})
	if err != nil {
		return nil, err
	}

	type metricAgg struct {
		first  models.MetricValue
		values []float64
	}
	type group struct {
		fy      string
		quarter string
		metrics map[uint]*metricAgg
		order   []uint
	}

	groups := make(map[string]*group)
	var groupOrder []string

	for _, report := range reports {
		gkey := report.FY + "_" + report.Quarter
		g, ok := groups[gkey]
		if !ok {
			g = &group{fy: report.FY, quarter: report.Quarter, metrics: make(map[uint]*metricAgg)}
			groups[gkey] = g
			groupOrder = append(groupOrder, gkey)
		}
		for _, mv := range report.Metrics {
			agg, ok := g.metrics[mv.MetricID]
			if !ok {
				agg = &metricAgg{first: mv}
				g.metrics[mv.MetricID] = agg
				g.order = append(g.order, mv.MetricID)
			}
			agg.values = append(agg.values, mv.Value)
		}
	}

	sort.Strings(groupOrder)

	summaries := make([]QuarterlySummary, 0, len(groups))
	for _, gkey := range groupOrder {
		g := groups[gkey]
		summary := QuarterlySummary{FY: g.fy, Quarter: g.quarter}
		for _, metricID := range g.order {
			agg := g.metrics[metricID]
			sum := 0.0
			for _, v := range agg.values {
				sum += v
			}
			mean := sum / float64(len(agg.values))
			summary.Metrics = append(summary.Metrics, models.MetricValue{
				MetricID: metricID,
				Name:     agg.first.Name,
				Value:    mean,
				Baseline: agg.first.Baseline,
				Target:   agg.first.Target,
				Unit:     agg.first.Unit,
				Status:   agg.first.Status,
				Comment:  fmt.Sprintf("Average of %d weekly reports", len(agg.values)),
			})
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// WeekInfo describes the week of the dashboard snapshot
type WeekInfo struct {
	Date       string `json:"date"`
	FY         string `json:"fy"`
	Quarter    string `json:"quarter"`
	WeekNumber int    `json:"week_number"`
}

// DashboardSummary tallies metric statuses
type DashboardSummary struct {
	Total int `json:"total"`
	Green int `json:"green"`
	Amber int `json:"amber"`
	Red   int `json:"red"`
}

// DashboardSnapshot is the service metrics dashboard payload
type DashboardSnapshot struct {
	WeekInfo WeekInfo             `json:"week_info"`
	Metrics  []models.MetricValue `json:"metrics"`
	Summary  DashboardSummary     `json:"summary"`
}

// Snapshot reads the most recently dated weekly report and recomputes
// each metric's status against the latest definition where one still
// exists; deleted definitions fall back to the stored snapshot. The week
// number is the ISO week of the week-ending date.
func (s *ReportService) Snapshot(ctx context.Context) (*DashboardSnapshot, error) {
	latest, err := s.reportRepo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoReports
		}
		return nil, err
	}

	metrics := make([]models.MetricValue, len(latest.Metrics))
	copy(metrics, latest.Metrics)

	summary := DashboardSummary{Total: len(metrics)}
	for i := range metrics {
		if def, err := s.metricRepo.GetByID(ctx, metrics[i].MetricID); err == nil {
			metrics[i].Baseline = def.Baseline
			metrics[i].Target = def.Target
			metrics[i].Status = ComputeStatus(metrics[i].Value, def.Baseline, def.Target)
		}
		switch metrics[i].Status {
		case models.StatusGreen:
			summary.Green++
		case models.StatusAmber:
			summary.Amber++
		case models.StatusRed:
			summary.Red++
		}
	}

	_, weekNumber := latest.WeekEnd.ISOWeek()

	return &DashboardSnapshot{
		WeekInfo: WeekInfo{
			Date:       latest.WeekDate,
			FY:         latest.FY,
			Quarter:    latest.Quarter,
			WeekNumber: weekNumber,
		},
		Metrics: metrics,
		Summary: summary,
	}, nil
}
