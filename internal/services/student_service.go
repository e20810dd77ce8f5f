package services

import (
	"context"
	"fmt"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	validator *validator.Validator
	cache     *cache.CacheManager
	logger    utils.Logger
}

func NewStudentService(
	repo repositories.Repository,
	v *validator.Validator,
	cacheManager *cache.CacheManager,
	logger utils.Logger,
) StudentService {
	return &studentService{repo: repo, validator: v, cache: cacheManager, logger: logger}
}

func (s *studentService) Create(ctx context.Context, req StudentCreateRequest) (*models.Student, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if _, err := s.repo.Student().GetByClassAndCode(ctx, nil, req.Class, req.StudentCode); err == nil {
		return nil, ErrStudentTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check student identifier: %w", err)
	}

	student := studentFromCreate(req)
	if err := s.repo.Student().Create(ctx, nil, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Student created", "student_id", student.ID, "class", student.Class)
	return student, nil
}

// Import creates a batch of students in one transaction. A duplicate
// identifier anywhere in the batch rolls back everything.
func (s *studentService) Import(ctx context.Context, reqs []StudentCreateRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, NewValidationError("students", "must not be empty", nil)
	}

	students := make([]*models.Student, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for i, req := range reqs {
		if errs := s.validator.Validate(req); errs != nil {
			return 0, errs
		}
		key := req.Class + "/" + req.StudentCode
		if seen[key] {
			return 0, NewValidationError(fmt.Sprintf("students[%d]", i), "duplicate identifier within batch", key)
		}
		seen[key] = true
		students = append(students, studentFromCreate(req))
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		for _, st := range students {
			if _, err := txRepo.Student().GetByClassAndCode(ctx, nil, st.Class, st.StudentCode); err == nil {
				return ErrStudentTaken
			} else if !repositories.IsNotFoundError(err) {
				return fmt.Errorf("failed to check student identifier: %w", err)
			}
		}
		return txRepo.Student().CreateBatch(ctx, nil, students)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Students imported", "count", len(students))
	return len(students), nil
}

func (s *studentService) Update(ctx context.Context, id uint, req StudentUpdateRequest) (*models.Student, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Class != nil && *req.Class != student.Class {
		if _, err := s.repo.Student().GetByClassAndCode(ctx, nil, *req.Class, student.StudentCode); err == nil {
			return nil, ErrStudentTaken
		} else if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check student identifier: %w", err)
		}
		student.Class = *req.Class
	}
	if req.AcademicYear != nil {
		student.AcademicYear = *req.AcademicYear
	}
	if req.Status != nil {
		status := models.StudentStatus(*req.Status)
		if !status.Valid() {
			return nil, NewValidationError("status", "is not a valid student status", *req.Status)
		}
		student.Status = status
	}

	if err := s.repo.Student().Update(ctx, nil, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	cache.InvalidateReportCache(ctx, s.cache, student.ID)
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Student().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to look up student: %w", err)
	}

	if err := s.repo.Student().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	cache.InvalidateReportCache(ctx, s.cache, id)
	s.logger.Info("Student deleted", "student_id", id)
	return nil
}

func (s *studentService) Get(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return student, nil
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	return s.repo.Student().List(ctx, nil, filters)
}

func studentFromCreate(req StudentCreateRequest) *models.Student {
	status := models.StudentActive
	if req.Status != "" {
		status = models.StudentStatus(req.Status)
	}
	return &models.Student{
		StudentCode:  req.StudentCode,
		Name:         req.Name,
		Class:        req.Class,
		AcademicYear: req.AcademicYear,
		Status:       status,
	}
}
