package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

type GradePostgreSQL struct {
	db *gorm.DB
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{db: db}
}

var gradeConflict = clause.OnConflict{
	Columns: []clause.Column{
		{Name: "student_id"}, {Name: "subject_id"},
		{Name: "academic_year"}, {Name: "semester"},
	},
	DoUpdates: clause.AssignmentColumns([]string{"score", "graded_by", "updated_at"}),
}

func (g *GradePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, grade *models.Grade) error {
	db := getDB(g.db, tx)
	return db.WithContext(ctx).Clauses(gradeConflict).Create(grade).Error
}

func (g *GradePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error) {
	db := getDB(g.db, tx)
	var grade models.Grade
	if err := db.WithContext(ctx).Preload("Subject").First(&grade, id).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

func (g *GradePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	db := getDB(g.db, tx)
	var grades []*models.Grade
	var total int64

	query := db.WithContext(ctx).Model(&models.Grade{})
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.AcademicYear != "" {
		query = query.Where("academic_year = ?", filters.AcademicYear)
	}
	if filters.Semester != nil {
		query = query.Where("semester = ?", *filters.Semester)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Student").Preload("Subject").
		Order("updated_at DESC").Find(&grades).Error; err != nil {
		return nil, 0, err
	}

	return grades, total, nil
}

func (g *GradePostgreSQL) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Grade, error) {
	db := getDB(g.db, tx)
	var grades []*models.Grade
	if err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Subject").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}

func (g *GradePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(g.db, tx)
	return db.WithContext(ctx).Delete(&models.Grade{}, id).Error
}

// ===== SUBJECTS =====

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s *SubjectPostgreSQL) Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).Create(subject).Error
}

func (s *SubjectPostgreSQL) Update(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).Save(subject).Error
}

func (s *SubjectPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).Delete(&models.Subject{}, id).Error
}

func (s *SubjectPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	db := getDB(s.db, tx)
	var subject models.Subject
	if err := db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	db := getDB(s.db, tx)
	var subjects []*models.Subject
	if err := db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// ===== EXAMS =====

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

func (e *ExamPostgreSQL) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	db := getDB(e.db, tx)
	return db.WithContext(ctx).Create(exam).Error
}

func (e *ExamPostgreSQL) Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	db := getDB(e.db, tx)
	return db.WithContext(ctx).Save(exam).Error
}

func (e *ExamPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(e.db, tx)
	return db.WithContext(ctx).Delete(&models.Exam{}, id).Error
}

func (e *ExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	db := getDB(e.db, tx)
	var exam models.Exam
	if err := db.WithContext(ctx).Preload("Subject").First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (e *ExamPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	db := getDB(e.db, tx)
	var exams []*models.Exam
	var total int64

	query := db.WithContext(ctx).Model(&models.Exam{})
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.Class != "" {
		query = query.Where("class = ?", filters.Class)
	}
	if filters.From != nil {
		query = query.Where("start_time >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("start_time <= ?", *filters.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = ApplyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Subject").Order("start_time ASC").Find(&exams).Error; err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}
