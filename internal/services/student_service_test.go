package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/validator"
)

func newStudentFixture(students *mockStudentRepo) StudentService {
	repo := &mockRepository{student: students}
	return NewStudentService(repo, validator.New(), cache.NewCacheManager(nil), testLogger())
}

func TestStudentCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to active", func(t *testing.T) {
		svc := newStudentFixture(newMockStudentRepo())

		student, err := svc.Create(ctx, StudentCreateRequest{
			StudentCode:  "S-001",
			Name:         "Ahmad",
			Class:        "7A",
			AcademicYear: "2026/2027",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if student.Status != models.StudentActive {
			t.Errorf("Status = %v, want active", student.Status)
		}
	})

	t.Run("identifier taken within the class", func(t *testing.T) {
		existing := &models.Student{ID: 1, StudentCode: "S-001", Class: "7A", Status: models.StudentActive}
		svc := newStudentFixture(newMockStudentRepo(existing))

		_, err := svc.Create(ctx, StudentCreateRequest{
			StudentCode:  "S-001",
			Name:         "Other",
			Class:        "7A",
			AcademicYear: "2026/2027",
		})
		if !errors.Is(err, ErrStudentTaken) {
			t.Errorf("Create() error = %v, want ErrStudentTaken", err)
		}
	})

	t.Run("same identifier in another class is fine", func(t *testing.T) {
		existing := &models.Student{ID: 1, StudentCode: "S-001", Class: "7A", Status: models.StudentActive}
		svc := newStudentFixture(newMockStudentRepo(existing))

		if _, err := svc.Create(ctx, StudentCreateRequest{
			StudentCode:  "S-001",
			Name:         "Other",
			Class:        "7B",
			AcademicYear: "2026/2027",
		}); err != nil {
			t.Errorf("Create() error = %v", err)
		}
	})
}

func TestStudentImport(t *testing.T) {
	ctx := context.Background()

	req := func(code, class string) StudentCreateRequest {
		return StudentCreateRequest{StudentCode: code, Name: "N " + code, Class: class, AcademicYear: "2026/2027"}
	}

	t.Run("imports the whole batch", func(t *testing.T) {
		students := newMockStudentRepo()
		svc := newStudentFixture(students)

		count, err := svc.Import(ctx, []StudentCreateRequest{req("S-001", "7A"), req("S-002", "7A")})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if count != 2 {
			t.Errorf("count = %d, want 2", count)
		}
		if len(students.students) != 2 {
			t.Errorf("stored students = %d, want 2", len(students.students))
		}
	})

	t.Run("duplicate inside the batch", func(t *testing.T) {
		students := newMockStudentRepo()
		svc := newStudentFixture(students)

		_, err := svc.Import(ctx, []StudentCreateRequest{req("S-001", "7A"), req("S-001", "7A")})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Import() error = %v, want validation errors", err)
		}
		if len(students.students) != 0 {
			t.Error("expected nothing persisted on duplicate")
		}
	})

	t.Run("duplicate against existing data", func(t *testing.T) {
		existing := &models.Student{ID: 1, StudentCode: "S-001", Class: "7A", Status: models.StudentActive}
		svc := newStudentFixture(newMockStudentRepo(existing))

		_, err := svc.Import(ctx, []StudentCreateRequest{req("S-002", "7A"), req("S-001", "7A")})
		if !errors.Is(err, ErrStudentTaken) {
			t.Errorf("Import() error = %v, want ErrStudentTaken", err)
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := newStudentFixture(newMockStudentRepo())

		_, err := svc.Import(ctx, nil)
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("Import() error = %v, want validation errors", err)
		}
	})
}

func TestStudentUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("class move re-checks uniqueness", func(t *testing.T) {
		a := &models.Student{ID: 1, StudentCode: "S-001", Class: "7A", Status: models.StudentActive}
		b := &models.Student{ID: 2, StudentCode: "S-001", Class: "7B", Status: models.StudentActive}
		svc := newStudentFixture(newMockStudentRepo(a, b))

		class := "7B"
		_, err := svc.Update(ctx, 1, StudentUpdateRequest{Class: &class})
		if !errors.Is(err, ErrStudentTaken) {
			t.Errorf("Update() error = %v, want ErrStudentTaken", err)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		a := &models.Student{ID: 1, StudentCode: "S-001", Class: "7A", Status: models.StudentActive}
		svc := newStudentFixture(newMockStudentRepo(a))

		status := "expelled"
		_, err := svc.Update(ctx, 1, StudentUpdateRequest{Status: &status})
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("Update() error = %v, want validation errors", err)
		}
	})
}
