package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/events"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
	"github.com/pesantren-digital/school-service/internal/validator"
)

type gradeService struct {
	repo      repositories.Repository
	validator *validator.Validator
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewGradeService(
	repo repositories.Repository,
	v *validator.Validator,
	cacheManager *cache.CacheManager,
	publisher events.EventPublisher,
	logger utils.Logger,
) GradeService {
	return &gradeService{
		repo:      repo,
		validator: v,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
	}
}

// Record upserts a score keyed by (student, subject, academic year,
// semester). Re-grading overwrites the existing score.
func (s *gradeService) Record(ctx context.Context, gradedBy uint, req GradeRecordRequest) (*models.Grade, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if _, err := s.repo.Student().GetByID(ctx, nil, req.StudentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}
	if _, err := s.repo.Subject().GetByID(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to look up subject: %w", err)
	}

	grade := &models.Grade{
		StudentID:    req.StudentID,
		SubjectID:    req.SubjectID,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Score:        req.Score,
		GradedBy:     &gradedBy,
	}

	if err := s.repo.Grade().Upsert(ctx, nil, grade); err != nil {
		return nil, fmt.Errorf("failed to record grade: %w", err)
	}

	cache.InvalidateReportCache(ctx, s.cache, req.StudentID)

	if s.publisher != nil {
		event := events.NewEvent(events.EventGradeRecorded, map[string]any{
			"student_id": req.StudentID,
			"subject_id": req.SubjectID,
			"semester":   req.Semester,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish grade event", "error", err)
		}
	}

	return grade, nil
}

func (s *gradeService) List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	return s.repo.Grade().List(ctx, nil, filters)
}

func (s *gradeService) Delete(ctx context.Context, id uint) error {
	grade, err := s.repo.Grade().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrGradeNotFound
		}
		return fmt.Errorf("failed to look up grade: %w", err)
	}

	if err := s.repo.Grade().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}

	cache.InvalidateReportCache(ctx, s.cache, grade.StudentID)
	return nil
}

// ===== SUBJECTS =====

func (s *gradeService) Subjects(ctx context.Context) ([]*models.Subject, error) {
	return s.repo.Subject().List(ctx, nil)
}

func (s *gradeService) CreateSubject(ctx context.Context, name, code string) (*models.Subject, error) {
	if name == "" {
		return nil, NewValidationError("name", "is required", name)
	}
	if code == "" {
		return nil, NewValidationError("code", "is required", code)
	}

	subject := &models.Subject{Name: name, Code: code}
	if err := s.repo.Subject().Create(ctx, nil, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return subject, nil
}

// ===== EXAMS =====

func (s *gradeService) CreateExam(ctx context.Context, req ExamCreateRequest) (*models.Exam, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, NewValidationError("start_time", "must be an RFC3339 timestamp", req.StartTime)
	}

	if _, err := s.repo.Subject().GetByID(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to look up subject: %w", err)
	}

	exam := &models.Exam{
		Title:           req.Title,
		SubjectID:       req.SubjectID,
		Class:           req.Class,
		AcademicYear:    req.AcademicYear,
		Semester:        req.Semester,
		StartTime:       startTime,
		DurationMinutes: req.DurationMinutes,
	}

	if err := s.repo.Exam().Create(ctx, nil, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("Exam scheduled", "exam_id", exam.ID, "subject_id", exam.SubjectID)
	return exam, nil
}

func (s *gradeService) UpdateExam(ctx context.Context, id uint, req ExamUpdateRequest) (*models.Exam, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	exam, err := s.repo.Exam().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to look up exam: %w", err)
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Class != nil {
		exam.Class = *req.Class
	}
	if req.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, NewValidationError("start_time", "must be an RFC3339 timestamp", *req.StartTime)
		}
		exam.StartTime = startTime
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}

	if err := s.repo.Exam().Update(ctx, nil, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	return exam, nil
}

func (s *gradeService) DeleteExam(ctx context.Context, id uint) error {
	if _, err := s.repo.Exam().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to look up exam: %w", err)
	}
	return s.repo.Exam().Delete(ctx, nil, id)
}

func (s *gradeService) GetExam(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	return exam, nil
}

func (s *gradeService) ListExams(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	return s.repo.Exam().List(ctx, nil, filters)
}
