package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

type StudentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (s *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).Create(student).Error
}

func (s *StudentPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, students []*models.Student) error {
	if len(students) == 0 {
		return nil
	}
	db := getDB(s.db, tx)
	return db.WithContext(ctx).CreateInBatches(students, 100).Error
}

func (s *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).Save(student).Error
}

func (s *StudentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).Delete(&models.Student{}, id).Error
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	db := getDB(s.db, tx)
	var student models.Student
	if err := db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByClassAndCode(ctx context.Context, tx *gorm.DB, class, code string) (*models.Student, error) {
	db := getDB(s.db, tx)
	var student models.Student
	if err := db.WithContext(ctx).
		Where("class = ? AND student_code = ?", class, code).
		First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	db := getDB(s.db, tx)
	var student models.Student
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	db := getDB(s.db, tx)
	var students []*models.Student
	var total int64

	query := db.WithContext(ctx).Model(&models.Student{})
	query = s.helpers.ApplyStudentFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)
	query = ApplySort(query, filters.SortBy, filters.SortOrder, "name", "student_code", "created_at")

	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (s *StudentPostgreSQL) ListActiveByClass(ctx context.Context, tx *gorm.DB, class string) ([]*models.Student, error) {
	db := getDB(s.db, tx)
	var students []*models.Student

	query := db.WithContext(ctx).Where("status = ?", models.StudentActive)
	if class != "" {
		query = query.Where("class = ?", class)
	}

	if err := query.Order("class ASC, name ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *StudentPostgreSQL) LinkUser(ctx context.Context, tx *gorm.DB, studentID, userID uint) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", studentID).
		Update("user_id", userID).Error
}
