package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/adapters/persistence/repositories"
	"opspulse/internal/core/rbac"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFoundSvc      = errors.New("user not found")
	ErrUnknownRole          = errors.New("unknown role name")
	ErrRequestAlreadyExists = errors.New("a pending request for this role already exists")
	ErrRequestNotFound      = errors.New("role request not found")
	ErrRequestDecided       = errors.New("role request already decided")
	ErrInvalidDecision      = errors.New("decision must be approve or reject")
)

// UserService handles user and role management business logic
type UserService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// ListUsers lists all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

// ListRoles lists the role catalogue
func (s *UserService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.roleRepo.ListRoles(ctx)
}

// UpdateUserRolesInput represents role assignment input
type UpdateUserRolesInput struct {
	Role     string   `json:"role"`
	Roles    []string `json:"roles"`
	IsActive *bool    `json:"is_active"`
}

// UpdateUserRoles replaces a user's primary and additional roles.
// The primary role is always kept as a member of the additional set.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uint, input *UpdateUserRolesInput) (*models.UserResponse, error) {
	// 1. Validate role names against the closed catalogue
	if _, err := rbac.ParseRole(input.Role); err != nil {
		return nil, ErrUnknownRole
	}
	for _, name := range input.Roles {
		if _, err := rbac.ParseRole(name); err != nil {
			return nil, ErrUnknownRole
		}
	}

	// 2. Load user
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	// 3. Apply assignment, keeping the primary role inside the set
	user.Role = input.Role
	user.Roles = withRole(input.Roles, input.Role)
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Roles updated for %s: %s %v", user.Email, user.Role, user.Roles)

	return user.ToResponse(), nil
}

// RequestRole files a role request for the principal
func (s *UserService) RequestRole(ctx context.Context, user *models.User, roleName, notes string) (*models.RoleRequest, error) {
	if _, err := rbac.ParseRole(roleName); err != nil {
		return nil, ErrUnknownRole
	}

	key := fmt.Sprintf("%d:%s", user.ID, roleName)
	req := &models.RoleRequest{
		UserID:        user.ID,
		RequestedRole: roleName,
		Status:        models.RoleRequestPending,
		PendingKey:    &key,
		Notes:         notes,
	}
	if err := s.roleRepo.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRequestAlreadyExists
		}
		return nil, err
	}

	return req, nil
}

// ListRoleRequests lists role requests, optionally filtered by status
func (s *UserService) ListRoleRequests(ctx context.Context, status string) ([]*models.RoleRequest, error) {
	return s.roleRepo.ListRequests(ctx, status)
}

// ListMyRoleRequests lists the principal's own role requests
func (s *UserService) ListMyRoleRequests(ctx context.Context, userID uint) ([]*models.RoleRequest, error) {
	return s.roleRepo.ListRequestsByUser(ctx, userID)
}

// DecideRoleRequest approves or rejects a pending role request.
// Approval grants the requested role: it joins the user's additional
// set, and becomes the primary role when the user still has the bare
// default.
func (s *UserService) DecideRoleRequest(ctx context.Context, requestID uint, approve bool, approver *models.User, notes string) (*models.RoleRequest, error) {
	// 1. Load request
	req, err := s.roleRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.Status != models.RoleRequestPending {
		return nil, ErrRequestDecided
	}

	// 2. Record the decision and release the pending key
	now := time.Now()
	req.Status = models.RoleRequestRejected
	if approve {
		req.Status = models.RoleRequestApproved
	}
	req.PendingKey = nil
	req.DecisionDate = &now
	req.ApproverID = &approver.ID
	if notes != "" {
		req.Notes = notes
	}
	if err := s.roleRepo.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}

	// 3. On approval, grant the role
	if approve {
		user, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if user.Role == "user" {
			user.Role = req.RequestedRole
		}
		user.Roles = withRole(user.Roles, req.RequestedRole)
		user.Roles = withRole(user.Roles, user.Role)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("✅ Role %s granted to user %d", req.RequestedRole, req.UserID)
	}

	return req, nil
}

// withRole returns the list with the role appended if absent
func withRole(roles []string, role string) []string {
	for _, r := range roles {
		if r == role {
			return roles
		}
	}
	return append(roles, role)
}
