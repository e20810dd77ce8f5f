package postgres

import (
	"strings"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/repositories"
)

// SharedHelpers contains common database query helpers.
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyPagination applies limit/offset with sane bounds.
func ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}

// ApplySort applies whitelisted sorting; unknown columns fall back to
// created_at descending.
func ApplySort(query *gorm.DB, sortBy, sortOrder string, allowed ...string) *gorm.DB {
	column := ""
	for _, a := range allowed {
		if sortBy == a {
			column = a
			break
		}
	}
	if column == "" {
		return query.Order("created_at DESC")
	}

	order := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		order = "DESC"
	}
	return query.Order(column + " " + order)
}

// ApplyStudentFilters applies common filters to student queries.
func (h *SharedHelpers) ApplyStudentFilters(query *gorm.DB, filters repositories.StudentFilters) *gorm.DB {
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR student_code ILIKE ?", like, like)
	}
	if filters.Class != "" {
		query = query.Where("class = ?", filters.Class)
	}
	if filters.AcademicYear != "" {
		query = query.Where("academic_year = ?", filters.AcademicYear)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return query
}

// ApplyAttendanceFilters applies common filters to attendance queries.
func (h *SharedHelpers) ApplyAttendanceFilters(query *gorm.DB, filters repositories.AttendanceFilters) *gorm.DB {
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return query
}

// getDB returns tx when inside a transaction, the base handle otherwise.
func getDB(base *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return base
}
