package handlers

import (
	"errors"
	"strings"

	"opspulse/internal/adapters/http/middleware"
	"opspulse/internal/core/services"
	"opspulse/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user and role management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers lists all users
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}
	return response.Success(c, "", users)
}

// ListRoles lists the role catalogue
// @Summary List roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles [get]
func (h *UserHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.userService.ListRoles(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list roles")
	}
	return response.Success(c, "", roles)
}

// UpdateUserRoles replaces a user's role assignment
// @Summary Update user roles
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserRolesInput true "Role assignment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/roles [put]
func (h *UserHandler) UpdateUserRoles(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UpdateUserRolesInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Role == "" {
		return response.BadRequest(c, "Primary role is required")
	}

	user, err := h.userService.UpdateUserRoles(c.Context(), uint(userID), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownRole):
			return response.BadRequest(c, "Unknown role name")
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update user roles")
		}
	}

	return response.Success(c, "User roles updated", user)
}

// RoleRequestBody represents a role request body
type RoleRequestBody struct {
	Role  string `json:"role"`
	Notes string `json:"notes"`
}

// RequestRole files a role request for the current principal
// @Summary Request a role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoleRequestBody true "Requested role"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/requests [post]
func (h *UserHandler) RequestRole(c *fiber.Ctx) error {
	user := middleware.Principal(c)

	var req RoleRequestBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Role == "" {
		return response.BadRequest(c, "Role is required")
	}

	request, err := h.userService.RequestRole(c.Context(), user, req.Role, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownRole):
			return response.BadRequest(c, "Unknown role name")
		case errors.Is(err, services.ErrRequestAlreadyExists):
			return response.Conflict(c, "A pending request for this role already exists")
		default:
			return response.InternalServerError(c, "Failed to create role request")
		}
	}

	return response.Created(c, "Role request submitted", request)
}

// ListRoleRequests lists role requests, optionally filtered by status
// @Summary List role requests
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending|approved|rejected"
// @Success 200 {object} response.Response
// @Router /roles/requests [get]
func (h *UserHandler) ListRoleRequests(c *fiber.Ctx) error {
	requests, err := h.userService.ListRoleRequests(c.Context(), c.Query("status"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list role requests")
	}
	return response.Success(c, "", requests)
}

// ListMyRoleRequests lists the current principal's role requests
// @Summary List my role requests
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles/requests/mine [get]
func (h *UserHandler) ListMyRoleRequests(c *fiber.Ctx) error {
	user := middleware.Principal(c)
	requests, err := h.userService.ListMyRoleRequests(c.Context(), user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list role requests")
	}
	return response.Success(c, "", requests)
}

// DecideRoleRequestBody represents an approval decision body
type DecideRoleRequestBody struct {
	Decision string `json:"decision"` // "approve" or "reject"
	Notes    string `json:"notes"`
}

// DecideRoleRequest approves or rejects a pending role request
// @Summary Decide a role request
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body DecideRoleRequestBody true "Decision"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/requests/{id} [patch]
func (h *UserHandler) DecideRoleRequest(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req DecideRoleRequestBody
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var approve bool
	switch strings.ToLower(req.Decision) {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return response.BadRequest(c, "Decision must be approve or reject")
	}

	approver := middleware.Principal(c)
	request, err := h.userService.DecideRoleRequest(c.Context(), uint(requestID), approve, approver, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return response.NotFound(c, "Role request not found")
		case errors.Is(err, services.ErrRequestDecided):
			return response.Conflict(c, "Role request already decided")
		default:
			return response.InternalServerError(c, "Failed to decide role request")
		}
	}

	return response.Success(c, "Role request "+request.Status, request)
}
