package services

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/adapters/persistence/repositories"
	"opspulse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type exportFixture struct {
	cfg *config.Config
	svc *ExportService
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)

	user := &models.User{Email: "reporter@bt.com", Name: "Reporter", Password: "x", Role: "SDadmin"}
	require.NoError(t, db.Create(user).Error)

	metricRepo := repositories.NewMetricRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	metrics := NewMetricService(metricRepo)
	reports := NewReportService(reportRepo, metricRepo)

	metric, err := metrics.Define(context.Background(), &MetricInput{Name: "Availability", Baseline: 90, Target: 95, Unit: "%"}, user.ID)
	require.NoError(t, err)
	_, err = reports.Commit(context.Background(), user,
		ReportKey{FY: "FY25", Quarter: "Q1", WeekDate: "05-04-2025"},
		[]MetricValueInput{{MetricID: metric.ID, Value: 96.5, Comment: "steady"}})
	require.NoError(t, err)

	return &exportFixture{cfg: cfg, svc: NewExportService(reportRepo, cfg)}
}

// artifactPath maps the public URL back to the file on disk
func (f *exportFixture) artifactPath(url string) string {
	return filepath.Join(f.cfg.Export.Dir, filepath.Base(url))
}

func TestExportUnsupportedFormat(t *testing.T) {
	f := newExportFixture(t)

	_, err := f.svc.Export(context.Background(), &ExportInput{Format: "xml"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportWithoutMatchingReports(t *testing.T) {
	f := newExportFixture(t)

	_, err := f.svc.Export(context.Background(), &ExportInput{FY: "FY99", Format: "csv"})
	assert.ErrorIs(t, err, ErrNoReports)
}

func TestExportCSV(t *testing.T) {
	f := newExportFixture(t)

	result, err := f.svc.Export(context.Background(), &ExportInput{FY: "FY25", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "csv", result.Format)
	assert.Empty(t, result.Note)
	assert.True(t, strings.HasPrefix(result.URL, "/downloads/"))

	file, err := os.Open(f.artifactPath(result.URL))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "FY", records[0][0])
	assert.Equal(t, "FY25", records[1][0])
	assert.Equal(t, "Availability", records[1][3])
	assert.Equal(t, "green", records[1][8])
}

func TestExportXLSX(t *testing.T) {
	f := newExportFixture(t)

	result, err := f.svc.Export(context.Background(), &ExportInput{Format: "xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", result.Format)

	book, err := excelize.OpenFile(f.artifactPath(result.URL))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Report")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Metric Name", rows[0][3])
	assert.Equal(t, "Availability", rows[1][3])
}

func TestExportExcelAliasesToXLSX(t *testing.T) {
	f := newExportFixture(t)

	result, err := f.svc.Export(context.Background(), &ExportInput{Format: "excel"})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", result.Format)
}

func TestExportPDFWithoutRendererFallsBackToHTML(t *testing.T) {
	f := newExportFixture(t)

	result, err := f.svc.Export(context.Background(), &ExportInput{Format: "pdf"})
	require.NoError(t, err)

	// No renderer configured: the artifact is honest HTML, not a fake PDF
	assert.Equal(t, "html", result.Format)
	assert.NotEmpty(t, result.Note)
	assert.True(t, strings.HasSuffix(result.URL, ".html"))

	content, err := os.ReadFile(f.artifactPath(result.URL))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Availability")
}

func TestExportLeavesNoPartialFiles(t *testing.T) {
	f := newExportFixture(t)

	_, err := f.svc.Export(context.Background(), &ExportInput{Format: "csv"})
	require.NoError(t, err)

	entries, err := os.ReadDir(f.cfg.Export.Dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file: %s", e.Name())
	}
}
