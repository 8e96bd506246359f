package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"opspulse/internal/adapters/persistence/repositories"
	"opspulse/internal/config"
	"opspulse/internal/pkg/export"

	"github.com/google/uuid"
)

// Export service errors
var (
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrRendererUnavailable = errors.New("pdf renderer unavailable")
)

// ExportService renders report sets to downloadable artifacts
type ExportService struct {
	reportRepo repositories.ReportRepository
	renderer   *export.PDFRenderer
	cfg        *config.Config
}

// NewExportService creates a new export service
func NewExportService(reportRepo repositories.ReportRepository, cfg *config.Config) *ExportService {
	var renderer *export.PDFRenderer
	if cfg.Export.RendererURL != "" {
		renderer = export.NewPDFRenderer(cfg.Export.RendererURL)
	}
	return &ExportService{
		reportRepo: reportRepo,
		renderer:   renderer,
		cfg:        cfg,
	}
}

// ExportInput represents an export request
type ExportInput struct {
	FY       string `json:"fy"`
	Quarter  string `json:"quarter"`
	WeekDate string `json:"week_date"`
	Format   string `json:"format"`
}

// ExportResult carries the published artifact location. Format reflects
// the format actually written; Note is set when the pipeline had to fall
// back from the requested format.
type ExportResult struct {
	URL    string `json:"url"`
	Format string `json:"format"`
	Note   string `json:"note,omitempty"`
}

// Export flattens the matching reports to tabular rows and renders them
// in the requested format. The artifact is written to a temporary path
// and only published (renamed) on full success, so a failed export never
// leaves a partial file at the returned URL.
func (s *ExportService) Export(ctx context.Context, input *ExportInput) (*ExportResult, error) {
	// 1. Collect rows
	reports, err := s.reportRepo.List(ctx, repositories.ReportFilter{
		FY:       input.FY,
		Quarter:  input.Quarter,
		WeekDate: input.WeekDate,
	})
	if err != nil {
		return nil, err
	}

	var rows []export.Row
	for _, report := range reports {
		for _, mv := range report.Metrics {
			rows = append(rows, export.Row{
				FY:       report.FY,
				Quarter:  report.Quarter,
				WeekDate: report.WeekDate,
				Metric:   mv.Name,
				Value:    mv.Value,
				Baseline: mv.Baseline,
				Target:   mv.Target,
				Unit:     mv.Unit,
				Status:   mv.Status,
				Comment:  mv.Comment,
			})
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoReports
	}

	// 2. Render into memory
	format := strings.ToLower(input.Format)
	if format == "excel" {
		format = "xlsx"
	}

	var buf bytes.Buffer
	note := ""
	switch format {
	case "csv":
		err = export.WriteCSV(&buf, rows)
	case "xlsx":
		err = export.WriteXLSX(&buf, rows)
	case "pdf":
		if s.renderer != nil {
			var html bytes.Buffer
			if err := export.WriteHTML(&html, rows); err != nil {
				return nil, err
			}
			pdf, rerr := s.renderer.RenderHTML(ctx, html.String())
			if rerr != nil {
				log.Printf("⚠️ PDF renderer failed: %v", rerr)
				return nil, ErrRendererUnavailable
			}
			buf.Write(pdf)
		} else {
			// No renderer configured: fall back to the styled HTML
			// document and say so instead of mislabeling the output.
			err = export.WriteHTML(&buf, rows)
			format = "html"
			note = "PDF renderer not configured; report exported as HTML"
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, input.Format)
	}
	if err != nil {
		return nil, err
	}

	// 3. Publish atomically under a fresh name
	if err := os.MkdirAll(s.cfg.Export.Dir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("report_%s.%s", uuid.New().String(), format)
	finalPath := filepath.Join(s.cfg.Export.Dir, name)
	tmpPath := finalPath + ".tmp"

	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}

	log.Printf("✅ Report exported: %s (%d rows)", name, len(rows))

	return &ExportResult{
		URL:    path.Join(s.cfg.Export.PublicPath, name),
		Format: format,
		Note:   note,
	}, nil
}
