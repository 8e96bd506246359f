package handlers

import (
	"errors"

	"opspulse/internal/adapters/http/middleware"
	"opspulse/internal/core/services"
	"opspulse/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MetricHandler handles metric definition endpoints
type MetricHandler struct {
	metricService *services.MetricService
}

// NewMetricHandler creates a new metric handler
func NewMetricHandler(metricService *services.MetricService) *MetricHandler {
	return &MetricHandler{metricService: metricService}
}

// Define creates a metric definition
// @Summary Define a metric
// @Tags Metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.MetricInput true "Metric definition"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /metrics [post]
func (h *MetricHandler) Define(c *fiber.Ctx) error {
	var input services.MetricInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Metric name is required")
	}

	user := middleware.Principal(c)
	metric, err := h.metricService.Define(c.Context(), &input, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrMetricNameTaken) {
			return response.Conflict(c, "A metric with this name already exists")
		}
		return response.InternalServerError(c, "Failed to define metric")
	}

	return response.Created(c, "Metric defined", metric)
}

// Get gets a metric definition by ID
// @Summary Get metric
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Metric ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /metrics/{id} [get]
func (h *MetricHandler) Get(c *fiber.Ctx) error {
	metricID, err := c.ParamsInt("id")
	if err != nil || metricID < 1 {
		return response.BadRequest(c, "Invalid metric ID")
	}

	metric, err := h.metricService.Get(c.Context(), uint(metricID))
	if err != nil {
		if errors.Is(err, services.ErrMetricNotFound) {
			return response.NotFound(c, "Metric not found")
		}
		return response.InternalServerError(c, "Failed to get metric")
	}

	return response.Success(c, "", metric)
}

// List lists all metric definitions
// @Summary List metrics
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /metrics [get]
func (h *MetricHandler) List(c *fiber.Ctx) error {
	metrics, err := h.metricService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list metrics")
	}
	return response.Success(c, "", metrics)
}

// Update updates a metric definition
// @Summary Update metric
// @Tags Metrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Metric ID"
// @Param body body services.MetricInput true "Metric definition"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /metrics/{id} [put]
func (h *MetricHandler) Update(c *fiber.Ctx) error {
	metricID, err := c.ParamsInt("id")
	if err != nil || metricID < 1 {
		return response.BadRequest(c, "Invalid metric ID")
	}

	var input services.MetricInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Metric name is required")
	}

	metric, err := h.metricService.Update(c.Context(), uint(metricID), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMetricNotFound):
			return response.NotFound(c, "Metric not found")
		case errors.Is(err, services.ErrMetricNameTaken):
			return response.Conflict(c, "A metric with this name already exists")
		default:
			return response.InternalServerError(c, "Failed to update metric")
		}
	}

	return response.Success(c, "Metric updated", metric)
}

// Delete deletes a metric definition
// @Summary Delete metric
// @Tags Metrics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Metric ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /metrics/{id} [delete]
func (h *MetricHandler) Delete(c *fiber.Ctx) error {
	metricID, err := c.ParamsInt("id")
	if err != nil || metricID < 1 {
		return response.BadRequest(c, "Invalid metric ID")
	}

	if err := h.metricService.Delete(c.Context(), uint(metricID)); err != nil {
		if errors.Is(err, services.ErrMetricNotFound) {
			return response.NotFound(c, "Metric not found")
		}
		return response.InternalServerError(c, "Failed to delete metric")
	}

	return response.Success(c, "Metric deleted", nil)
}
