package repositories

import (
	"context"

	"opspulse/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// ListRoles lists the role catalogue
func (r *roleRepository) ListRoles(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	if err := r.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// GetRoleByName gets a role by name
func (r *roleRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole creates a role catalogue entry
func (r *roleRepository) CreateRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// CreateRequest creates a role request. The unique pending-key index
// rejects a second pending request for the same (user, role) atomically.
func (r *roleRepository) CreateRequest(ctx context.Context, req *models.RoleRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetRequestByID gets a role request by ID
func (r *roleRepository) GetRequestByID(ctx context.Context, id uint) (*models.RoleRequest, error) {
	var req models.RoleRequest
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateRequest updates a role request
func (r *roleRepository) UpdateRequest(ctx context.Context, req *models.RoleRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// ListRequests lists role requests, optionally filtered by status
func (r *roleRepository) ListRequests(ctx context.Context, status string) ([]*models.RoleRequest, error) {
	var requests []*models.RoleRequest
	query := r.db.WithContext(ctx).Preload("User").Order("request_date DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListRequestsByUser lists role requests for one user
func (r *roleRepository) ListRequestsByUser(ctx context.Context, userID uint) ([]*models.RoleRequest, error) {
	var requests []*models.RoleRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("request_date DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
