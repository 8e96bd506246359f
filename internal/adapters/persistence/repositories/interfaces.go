package repositories

import (
	"context"

	"opspulse/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}

// RoleRepository defines role catalogue and role request repository interface
type RoleRepository interface {
	ListRoles(ctx context.Context) ([]*models.Role, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	CreateRole(ctx context.Context, role *models.Role) error
	CreateRequest(ctx context.Context, req *models.RoleRequest) error
	GetRequestByID(ctx context.Context, id uint) (*models.RoleRequest, error)
	UpdateRequest(ctx context.Context, req *models.RoleRequest) error
	ListRequests(ctx context.Context, status string) ([]*models.RoleRequest, error)
	ListRequestsByUser(ctx context.Context, userID uint) ([]*models.RoleRequest, error)
}

// MetricRepository defines metric definition repository interface
type MetricRepository interface {
	Create(ctx context.Context, metric *models.MetricDefinition) error
	GetByID(ctx context.Context, id uint) (*models.MetricDefinition, error)
	Update(ctx context.Context, metric *models.MetricDefinition) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.MetricDefinition, error)
}

// ReportFilter narrows weekly report queries
type ReportFilter struct {
	FY       string
	Quarter  string
	WeekDate string
}

// ReportRepository defines weekly report and draft repository interface
type ReportRepository interface {
	Create(ctx context.Context, report *models.WeeklyReport) error
	GetByID(ctx context.Context, id uint) (*models.WeeklyReport, error)
	Update(ctx context.Context, report *models.WeeklyReport) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ReportFilter) ([]*models.WeeklyReport, error)
	Latest(ctx context.Context) (*models.WeeklyReport, error)

	UpsertDraft(ctx context.Context, draft *models.ReportDraft) error
	GetDraft(ctx context.Context, userID uint, fy, quarter, weekDate string) (*models.ReportDraft, error)
	DeleteDraft(ctx context.Context, userID uint, fy, quarter, weekDate string) error
}

// FYConfigRepository defines fiscal-year config repository interface
type FYConfigRepository interface {
	Create(ctx context.Context, config *models.FYConfig) error
	GetByID(ctx context.Context, id uint) (*models.FYConfig, error)
	GetByFY(ctx context.Context, fy string) (*models.FYConfig, error)
	Update(ctx context.Context, config *models.FYConfig) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.FYConfig, error)
}
