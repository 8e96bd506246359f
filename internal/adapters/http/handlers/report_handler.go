package handlers

import (
	"errors"

	"opspulse/internal/adapters/http/middleware"
	"opspulse/internal/adapters/persistence/repositories"
	"opspulse/internal/core/services"
	"opspulse/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles weekly report, draft, aggregation, dashboard and
// export endpoints
type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// ReportBody represents a report or draft payload
type ReportBody struct {
	FY       string                      `json:"fy"`
	Quarter  string                      `json:"quarter"`
	WeekDate string                      `json:"week_date"`
	Metrics  []services.MetricValueInput `json:"metrics"`
}

func (b *ReportBody) key() services.ReportKey {
	return services.ReportKey{FY: b.FY, Quarter: b.Quarter, WeekDate: b.WeekDate}
}

func (b *ReportBody) validate() string {
	switch {
	case b.FY == "":
		return "Fiscal year is required"
	case b.Quarter == "":
		return "Quarter is required"
	case b.WeekDate == "":
		return "Week date is required"
	}
	return ""
}

// SaveDraft autosaves a draft for the current principal's week
// @Summary Save report draft
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReportBody true "Draft payload"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/draft [put]
func (h *ReportHandler) SaveDraft(c *fiber.Ctx) error {
	var body ReportBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := body.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	user := middleware.Principal(c)
	if err := h.reportService.SaveDraft(c.Context(), user, body.key(), body.Metrics); err != nil {
		if errors.Is(err, services.ErrInvalidWeekDate) {
			return response.BadRequest(c, "Invalid week date, expected DD-MM-YYYY")
		}
		return response.InternalServerError(c, "Failed to save draft")
	}

	return response.Success(c, "Draft saved", nil)
}

// GetDraft returns the current principal's draft for a week, if any
// @Summary Get report draft
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param fy query string true "Fiscal year"
// @Param quarter query string true "Quarter"
// @Param week_date query string true "Week date DD-MM-YYYY"
// @Success 200 {object} response.Response
// @Router /reports/draft [get]
func (h *ReportHandler) GetDraft(c *fiber.Ctx) error {
	key := services.ReportKey{
		FY:       c.Query("fy"),
		Quarter:  c.Query("quarter"),
		WeekDate: c.Query("week_date"),
	}
	if key.FY == "" || key.Quarter == "" || key.WeekDate == "" {
		return response.BadRequest(c, "fy, quarter and week_date are required")
	}

	user := middleware.Principal(c)
	draft, err := h.reportService.GetDraft(c.Context(), user, key)
	if err != nil {
		return response.InternalServerError(c, "Failed to get draft")
	}

	// No draft is a normal answer, not an error
	return response.Success(c, "", draft)
}

// Commit commits a weekly report
// @Summary Commit weekly report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReportBody true "Report payload"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reports [post]
func (h *ReportHandler) Commit(c *fiber.Ctx) error {
	var body ReportBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := body.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}
	if len(body.Metrics) == 0 {
		return response.BadRequest(c, "At least one metric value is required")
	}

	user := middleware.Principal(c)
	report, err := h.reportService.Commit(c.Context(), user, body.key(), body.Metrics)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWeekDate):
			return response.BadRequest(c, "Invalid week date, expected DD-MM-YYYY")
		case errors.Is(err, services.ErrMetricNotFound):
			return response.BadRequest(c, "Unknown metric in report")
		case errors.Is(err, services.ErrReportExists):
			return response.Conflict(c, "A report for this week already exists")
		default:
			return response.InternalServerError(c, "Failed to commit report")
		}
	}

	return response.Created(c, "Report committed", report)
}

// Get gets a weekly report by ID
// @Summary Get weekly report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	reportID, err := c.ParamsInt("id")
	if err != nil || reportID < 1 {
		return response.BadRequest(c, "Invalid report ID")
	}

	report, err := h.reportService.Get(c.Context(), uint(reportID))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return response.NotFound(c, "Report not found")
		}
		return response.InternalServerError(c, "Failed to get report")
	}

	return response.Success(c, "", report)
}

// List lists weekly reports, optionally filtered
// @Summary List weekly reports
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param fy query string false "Fiscal year"
// @Param quarter query string false "Quarter"
// @Param week_date query string false "Week date DD-MM-YYYY"
// @Success 200 {object} response.Response
// @Router /reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.reportService.List(c.Context(), repositories.ReportFilter{
		FY:       c.Query("fy"),
		Quarter:  c.Query("quarter"),
		WeekDate: c.Query("week_date"),
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list reports")
	}
	return response.Success(c, "", reports)
}

// Update updates a committed weekly report
// @Summary Update weekly report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param body body ReportBody true "Report payload"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /reports/{id} [put]
func (h *ReportHandler) Update(c *fiber.Ctx) error {
	reportID, err := c.ParamsInt("id")
	if err != nil || reportID < 1 {
		return response.BadRequest(c, "Invalid report ID")
	}

	var body ReportBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := body.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	report, err := h.reportService.Update(c.Context(), uint(reportID), body.key(), body.Metrics)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			return response.NotFound(c, "Report not found")
		case errors.Is(err, services.ErrInvalidWeekDate):
			return response.BadRequest(c, "Invalid week date, expected DD-MM-YYYY")
		case errors.Is(err, services.ErrMetricNotFound):
			return response.BadRequest(c, "Unknown metric in report")
		case errors.Is(err, services.ErrReportExists):
			return response.Conflict(c, "Another report already occupies this week")
		default:
			return response.InternalServerError(c, "Failed to update report")
		}
	}

	return response.Success(c, "Report updated", report)
}

// Delete deletes a weekly report
// @Summary Delete weekly report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	reportID, err := c.ParamsInt("id")
	if err != nil || reportID < 1 {
		return response.BadRequest(c, "Invalid report ID")
	}

	if err := h.reportService.Delete(c.Context(), uint(reportID)); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			return response.NotFound(c, "Report not found")
		}
		return response.InternalServerError(c, "Failed to delete report")
	}

	return response.Success(c, "Report deleted", nil)
}

// Quarterly aggregates weekly reports into per-quarter summaries
// @Summary Quarterly aggregation
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param fy query string false "Fiscal year"
// @Param quarter query string false "Quarter"
// @Success 200 {object} response.Response
// @Router /reports/quarterly [get]
func (h *ReportHandler) Quarterly(c *fiber.Ctx) error {
	summaries, err := h.reportService.AggregateQuarterly(c.Context(), c.Query("fy"), c.Query("quarter"))
	if err != nil {
		return response.InternalServerError(c, "Failed to aggregate reports")
	}
	return response.Success(c, "", summaries)
}

// Dashboard returns the latest-week dashboard snapshot
// @Summary Dashboard snapshot
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	snapshot, err := h.reportService.Snapshot(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoReports) {
			return response.NotFound(c, "No reports committed yet")
		}
		return response.InternalServerError(c, "Failed to build dashboard")
	}
	return response.Success(c, "", snapshot)
}

// Export renders matching reports to a downloadable artifact
// @Summary Export reports
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ExportInput true "Export request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var input services.ExportInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Format == "" {
		return response.BadRequest(c, "Export format is required")
	}

	result, err := h.exportService.Export(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFormat):
			return response.BadRequest(c, "Unsupported export format, expected csv, xlsx or pdf")
		case errors.Is(err, services.ErrNoReports):
			return response.NotFound(c, "No reports match the export filter")
		case errors.Is(err, services.ErrRendererUnavailable):
			return response.ServiceUnavailable(c, "PDF renderer unavailable")
		default:
			return response.InternalServerError(c, "Failed to export reports")
		}
	}

	return response.Success(c, "Export ready", result)
}
