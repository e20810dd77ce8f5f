package pkg

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pesantren-digital/school-service/internal/config"
	"github.com/pesantren-digital/school-service/internal/models"
)

// InitDatabase opens the Postgres connection, tunes the pool, runs
// migrations and seeds reference data.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Environment == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrate(db); err != nil {
		return nil, err
	}
	if err := seed(db); err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Student{},
		&models.Subject{},
		&models.Attendance{},
		&models.Grade{},
		&models.Exam{},
		&models.Page{},
		&models.Facility{},
		&models.Project{},
		&models.Achievement{},
		&models.TeamMember{},
		&models.SiteSetting{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// The attendance upsert arbiter. NULLS NOT DISTINCT (Postgres 15+) makes
	// NULL subject_id values collide, so ON CONFLICT fires for subject-less
	// daily rows too; with the default semantics every daily resubmission
	// would insert a fresh row.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_key
		 ON attendances (student_id, date, subject_id) NULLS NOT DISTINCT`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to create attendance upsert index: %w", err)
	}
	return nil
}

// seed installs the permission catalog, the built-in roles and, when the
// SEED_ADMIN_* variables are set, an initial super_admin account. Seeding is
// idempotent.
func seed(db *gorm.DB) error {
	permissions := []models.Permission{
		{Name: models.PermManageUsers, DisplayName: "Manage users", Group: "identity"},
		{Name: models.PermManageRoles, DisplayName: "Manage roles", Group: "identity"},
		{Name: models.PermManageStudents, DisplayName: "Manage students", Group: "identity"},
		{Name: models.PermRecordAttendance, DisplayName: "Record attendance", Group: "academic"},
		{Name: models.PermViewReports, DisplayName: "View reports", Group: "academic"},
		{Name: models.PermManageGrades, DisplayName: "Manage grades", Group: "academic"},
		{Name: models.PermManageExams, DisplayName: "Manage exams", Group: "academic"},
		{Name: models.PermCreatePages, DisplayName: "Create pages", Group: "content"},
		{Name: models.PermEditPages, DisplayName: "Edit any page", Group: "content"},
		{Name: models.PermManageContent, DisplayName: "Manage site content", Group: "content"},
		{Name: models.PermManageSettings, DisplayName: "Manage site settings", Group: "content"},
	}
	for _, p := range permissions {
		if err := db.Where(models.Permission{Name: p.Name}).FirstOrCreate(&models.Permission{}, p).Error; err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", p.Name, err)
		}
	}

	roles := []models.Role{
		{Name: models.SuperAdminRole, DisplayName: "Super Administrator", Description: "Bypasses all role and permission checks"},
		{Name: "admin", DisplayName: "Administrator", Description: "School administration"},
		{Name: "teacher", DisplayName: "Teacher", Description: "Teaching staff"},
		{Name: models.StudentRole, DisplayName: "Student", Description: "Student self-service"},
	}
	for _, r := range roles {
		if err := db.Where(models.Role{Name: r.Name}).FirstOrCreate(&models.Role{}, r).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", r.Name, err)
		}
	}

	// Teacher role starts with the day-to-day academic permissions.
	var teacherRole models.Role
	if err := db.Where("name = ?", "teacher").First(&teacherRole).Error; err == nil {
		var teacherPerms []*models.Permission
		db.Where("name IN ?", []string{
			models.PermRecordAttendance,
			models.PermViewReports,
			models.PermManageGrades,
		}).Find(&teacherPerms)
		if len(teacherPerms) > 0 {
			_ = db.Model(&teacherRole).Association("Permissions").Append(teacherPerms)
		}
	}

	return seedAdmin(db)
}

func seedAdmin(db *gorm.DB) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	var superAdmin models.Role
	if err := db.Where("name = ?", models.SuperAdminRole).First(&superAdmin).Error; err != nil {
		return fmt.Errorf("super_admin role missing: %w", err)
	}
	return db.Model(&admin).Association("Roles").Append(&superAdmin)
}
