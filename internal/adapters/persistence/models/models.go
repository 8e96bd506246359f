package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Role Tables
// ============================================================

// StringList is a JSON-serialized list column
type StringList []string

// User represents users table. Email is the identity key and is
// immutable after creation.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Email      string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	Password   string     `gorm:"size:255;not null" json:"-"`
	Role       string     `gorm:"size:20;default:'user'" json:"role"`
	Roles      StringList `gorm:"serializer:json;type:text" json:"roles"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastLogin  *time.Time `json:"last_login"`
	LoginCount int        `gorm:"default:0" json:"login_count"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID         uint       `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Roles      []string   `json:"roles"`
	IsActive   bool       `json:"is_active"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	LoginCount int        `json:"login_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Roles:      u.Roles,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		LoginCount: u.LoginCount,
		CreatedAt:  u.CreatedAt,
	}
}

// Role represents the fixed role catalogue, seeded once at startup.
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:20;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}

// RoleRequest lifecycle statuses
const (
	RoleRequestPending  = "pending"
	RoleRequestApproved = "approved"
	RoleRequestRejected = "rejected"
)

// RoleRequest represents role_requests table.
//
// PendingKey holds "<user_id>:<role>" while the request is pending and is
// cleared on decision. The unique index on it enforces at most one pending
// request per (user, role) pair atomically; NULLs never collide, so decided
// requests for the same pair can accumulate.
type RoleRequest struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	RequestedRole string     `gorm:"size:20;not null" json:"requested_role"`
	Status        string     `gorm:"size:10;default:'pending'" json:"status"`
	PendingKey    *string    `gorm:"size:40;uniqueIndex" json:"-"`
	Notes         string     `gorm:"type:text" json:"notes"`
	RequestDate   time.Time  `gorm:"autoCreateTime" json:"request_date"`
	DecisionDate  *time.Time `json:"decision_date"`
	ApproverID    *uint      `json:"approver_id"`

	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Approver *User `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}

func (RoleRequest) TableName() string {
	return "role_requests"
}

// ============================================================
// Metrics & Report Tables
// ============================================================

// MetricDefinition represents metric_definitions table
type MetricDefinition struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Baseline      float64   `gorm:"not null" json:"baseline"`
	Target        float64   `gorm:"not null" json:"target"`
	Unit          string    `gorm:"size:20" json:"unit"`
	ActualFormula string    `gorm:"size:255" json:"actual_formula"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MetricDefinition) TableName() string {
	return "metric_definitions"
}

// Metric status values (traffic-light classification)
const (
	StatusGreen = "green"
	StatusAmber = "amber"
	StatusRed   = "red"
)

// MetricValue is embedded in WeeklyReport and ReportDraft. Baseline,
// target and unit are point-in-time copies from the MetricDefinition at
// write time, not live links.
type MetricValue struct {
	MetricID uint    `json:"metric_id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Comment  string  `json:"comment"`
	Baseline float64 `json:"baseline"`
	Target   float64 `json:"target"`
	Unit     string  `json:"unit"`
	Status   string  `json:"status"`
}

// MetricValueList is a JSON-serialized metric value column
type MetricValueList []MetricValue

// WeeklyReport represents weekly_reports table. The (fy, quarter,
// week_date) composite key is unique; WeekEnd is the parsed week date
// kept for ordering.
type WeeklyReport struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FY        string          `gorm:"column:fy;size:10;not null;uniqueIndex:idx_report_week,priority:1" json:"fy"`
	Quarter   string          `gorm:"size:10;not null;uniqueIndex:idx_report_week,priority:2" json:"quarter"`
	WeekDate  string          `gorm:"size:10;not null;uniqueIndex:idx_report_week,priority:3" json:"week_date"`
	WeekEnd   time.Time       `gorm:"index" json:"-"`
	Metrics   MetricValueList `gorm:"serializer:json;type:text" json:"metrics"`
	CreatedBy uint            `json:"created_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WeeklyReport) TableName() string {
	return "weekly_reports"
}

// ReportDraft represents report_drafts table. At most one draft per
// (principal, fy, quarter, week_date); superseded and deleted when the
// matching WeeklyReport is committed.
type ReportDraft struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FY        string          `gorm:"column:fy;size:10;not null;uniqueIndex:idx_draft_key,priority:2" json:"fy"`
	Quarter   string          `gorm:"size:10;not null;uniqueIndex:idx_draft_key,priority:3" json:"quarter"`
	WeekDate  string          `gorm:"size:10;not null;uniqueIndex:idx_draft_key,priority:4" json:"week_date"`
	Metrics   MetricValueList `gorm:"serializer:json;type:text" json:"metrics"`
	CreatedBy uint            `gorm:"not null;uniqueIndex:idx_draft_key,priority:1" json:"created_by"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ReportDraft) TableName() string {
	return "report_drafts"
}

// QuarterConfig is one quarter definition inside an FYConfig
type QuarterConfig struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// QuarterConfigList is a JSON-serialized quarter list column
type QuarterConfigList []QuarterConfig

// FYConfig represents fy_configs table, unique per fiscal-year identifier
type FYConfig struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	FY        string            `gorm:"column:fy;uniqueIndex;size:10;not null" json:"fy"`
	Quarters  QuarterConfigList `gorm:"serializer:json;type:text" json:"quarters"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FYConfig) TableName() string {
	return "fy_configs"
}

// AutoMigrate migrates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Role{},
		&RoleRequest{},
		&MetricDefinition{},
		&WeeklyReport{},
		&ReportDraft{},
		&FYConfig{},
	)
}
