package config

import (
	"errors"
	"log"

	"opspulse/internal/adapters/persistence/models"
	"opspulse/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// roleCatalogue is the fixed role catalogue, seeded once and never
// deleted at runtime.
var roleCatalogue = []models.Role{
	{Name: "user", Description: "Regular user with basic access"},
	{Name: "SDuser", Description: "Service Dashboard user with read-only access"},
	{Name: "SDadmin", Description: "Service Dashboard admin with full access"},
	{Name: "IDuser", Description: "IndusIT Dashboard user with read-only access"},
	{Name: "IDadmin", Description: "IndusIT Dashboard admin with full access"},
	{Name: "SCuser", Description: "Security Dashboard user with read-only access"},
	{Name: "SCadmin", Description: "Security Dashboard admin with full access"},
	{Name: "IRuser", Description: "Incident Dashboard user with read-only access"},
	{Name: "IRadmin", Description: "Incident Dashboard admin with full access"},
	{Name: "PRuser", Description: "Problem Dashboard user with read-only access"},
	{Name: "PRadmin", Description: "Problem Dashboard admin with full access"},
	{Name: "appadmin", Description: "Application admin with access to all dashboards and user management"},
	{Name: "superadmin", Description: "Super administrator with access to all systems and user management"},
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}
	if err := s.seedSuperadmin(); err != nil {
		log.Printf("⚠️ Superadmin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRoles seeds the role catalogue if entries don't exist
func (s *Seeder) seedRoles() error {
	for _, role := range roleCatalogue {
		role := role
		err := s.db.Create(&role).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
		log.Printf("✅ Created role: %s", role.Name)
	}
	return nil
}

// seedSuperadmin seeds the default superadmin user.
// For development only; in production create the account through a
// secure process and set SUPERADMIN_PASSWORD.
func (s *Seeder) seedSuperadmin() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "superadmin").Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(getEnv("SUPERADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:    getEnv("SUPERADMIN_EMAIL", "superadmin@bt.com"),
		Name:     "Super Admin",
		Password: hashedPassword,
		Role:     "superadmin",
		Roles:    models.StringList{"superadmin"},
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Superadmin user created: %s", admin.Email)
	return nil
}
