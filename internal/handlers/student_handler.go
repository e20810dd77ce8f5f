package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
	}
}

// CreateStudent creates a student
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Param student body services.StudentCreateRequest true "Student data"
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.StudentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// ImportStudents creates students in bulk
// @Summary Import students
// @Description Creates a batch of students in one transaction
// @Tags students
// @Accept json
// @Produce json
// @Param students body []services.StudentCreateRequest true "Student batch"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /students/import [post]
func (h *StudentHandler) ImportStudents(c *gin.Context) {
	var reqs []services.StudentCreateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	count, err := h.studentService.Import(c.Request.Context(), reqs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Students imported successfully",
		Data:    map[string]int{"imported": count},
	})
}

// UpdateStudent updates a student
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path uint true "Student ID"
// @Param student body services.StudentUpdateRequest true "Student data"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.StudentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Student deleted successfully",
	})
}

// GetStudent retrieves a student
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.studentService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ListStudents lists students
// @Summary List students
// @Tags students
// @Produce json
// @Param q query string false "Search query"
// @Param class query string false "Class filter"
// @Param academic_year query string false "Academic year filter"
// @Param status query string false "Status filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	filters := repositories.StudentFilters{
		Query:        c.Query("q"),
		Class:        c.Query("class"),
		AcademicYear: c.Query("academic_year"),
		Limit:        parseIntQuery(c, "limit"),
		Offset:       parseIntQuery(c, "offset"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}

	if raw := c.Query("status"); raw != "" {
		status := models.StudentStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid status filter",
			})
			return
		}
		filters.Status = &status
	}

	students, total, err := h.studentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: students, Total: total})
}
