package handlers

import (
	"errors"

	"opspulse/internal/core/services"
	"opspulse/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FYConfigHandler handles fiscal-year configuration endpoints
type FYConfigHandler struct {
	fyService *services.FYConfigService
}

// NewFYConfigHandler creates a new FY config handler
func NewFYConfigHandler(fyService *services.FYConfigService) *FYConfigHandler {
	return &FYConfigHandler{fyService: fyService}
}

// Create creates a fiscal-year configuration
// @Summary Create FY config
// @Tags FYConfig
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FYConfigInput true "FY config"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /fy-configs [post]
func (h *FYConfigHandler) Create(c *fiber.Ctx) error {
	var input services.FYConfigInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.FY == "" {
		return response.BadRequest(c, "Fiscal year is required")
	}

	config, err := h.fyService.Create(c.Context(), &input)
	if err != nil {
		if errors.Is(err, services.ErrFYConfigExists) {
			return response.Conflict(c, "A config for this fiscal year already exists")
		}
		return response.InternalServerError(c, "Failed to create FY config")
	}

	return response.Created(c, "FY config created", config)
}

// List lists fiscal-year configurations. When the fy query parameter is
// present a single config (or null) is returned instead.
// @Summary List FY configs
// @Tags FYConfig
// @Produce json
// @Security BearerAuth
// @Param fy query string false "Fiscal year"
// @Success 200 {object} response.Response
// @Router /fy-configs [get]
func (h *FYConfigHandler) List(c *fiber.Ctx) error {
	if fy := c.Query("fy"); fy != "" {
		config, err := h.fyService.GetByFY(c.Context(), fy)
		if err != nil {
			return response.InternalServerError(c, "Failed to get FY config")
		}
		return response.Success(c, "", config)
	}

	configs, err := h.fyService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list FY configs")
	}
	return response.Success(c, "", configs)
}

// Get gets a fiscal-year configuration by ID
// @Summary Get FY config
// @Tags FYConfig
// @Produce json
// @Security BearerAuth
// @Param id path int true "Config ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /fy-configs/{id} [get]
func (h *FYConfigHandler) Get(c *fiber.Ctx) error {
	configID, err := c.ParamsInt("id")
	if err != nil || configID < 1 {
		return response.BadRequest(c, "Invalid config ID")
	}

	config, err := h.fyService.Get(c.Context(), uint(configID))
	if err != nil {
		if errors.Is(err, services.ErrFYConfigNotFound) {
			return response.NotFound(c, "FY config not found")
		}
		return response.InternalServerError(c, "Failed to get FY config")
	}

	return response.Success(c, "", config)
}

// Update updates a fiscal-year configuration
// @Summary Update FY config
// @Tags FYConfig
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Config ID"
// @Param body body services.FYConfigInput true "FY config"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /fy-configs/{id} [put]
func (h *FYConfigHandler) Update(c *fiber.Ctx) error {
	configID, err := c.ParamsInt("id")
	if err != nil || configID < 1 {
		return response.BadRequest(c, "Invalid config ID")
	}

	var input services.FYConfigInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	config, err := h.fyService.Update(c.Context(), uint(configID), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFYConfigNotFound):
			return response.NotFound(c, "FY config not found")
		case errors.Is(err, services.ErrFYConfigExists):
			return response.Conflict(c, "A config for this fiscal year already exists")
		default:
			return response.InternalServerError(c, "Failed to update FY config")
		}
	}

	return response.Success(c, "FY config updated", config)
}

// Delete deletes a fiscal-year configuration
// @Summary Delete FY config
// @Tags FYConfig
// @Produce json
// @Security BearerAuth
// @Param id path int true "Config ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /fy-configs/{id} [delete]
func (h *FYConfigHandler) Delete(c *fiber.Ctx) error {
	configID, err := c.ParamsInt("id")
	if err != nil || configID < 1 {
		return response.BadRequest(c, "Invalid config ID")
	}

	if err := h.fyService.Delete(c.Context(), uint(configID)); err != nil {
		if errors.Is(err, services.ErrFYConfigNotFound) {
			return response.NotFound(c, "FY config not found")
		}
		return response.InternalServerError(c, "Failed to delete FY config")
	}

	return response.Success(c, "FY config deleted", nil)
}
