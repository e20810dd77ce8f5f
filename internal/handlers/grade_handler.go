package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type GradeHandler struct {
	BaseHandler
	gradeService services.GradeService
}

func NewGradeHandler(gradeService services.GradeService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		BaseHandler:  NewBaseHandler(logger),
		gradeService: gradeService,
	}
}

// RecordGrade records a score
// @Summary Record grade
// @Description Inserts or updates the score for a student, subject, academic year and semester
// @Tags grades
// @Accept json
// @Produce json
// @Param grade body services.GradeRecordRequest true "Grade data"
// @Success 200 {object} models.Grade
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /grades [post]
func (h *GradeHandler) RecordGrade(c *gin.Context) {
	var req services.GradeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	grade, err := h.gradeService.Record(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

// ListGrades lists grades
// @Summary List grades
// @Tags grades
// @Produce json
// @Param student_id query uint false "Student filter"
// @Param subject_id query uint false "Subject filter"
// @Param academic_year query string false "Academic year filter"
// @Param semester query int false "Semester filter"
// @Success 200 {object} ListResponse
// @Router /grades [get]
func (h *GradeHandler) ListGrades(c *gin.Context) {
	filters := repositories.GradeFilters{
		AcademicYear: c.Query("academic_year"),
		Limit:        parseIntQuery(c, "limit"),
		Offset:       parseIntQuery(c, "offset"),
	}
	if id := parseIntQuery(c, "student_id"); id > 0 {
		sid := uint(id)
		filters.StudentID = &sid
	}
	if id := parseIntQuery(c, "subject_id"); id > 0 {
		sid := uint(id)
		filters.SubjectID = &sid
	}
	if semester := parseIntQuery(c, "semester"); semester > 0 {
		filters.Semester = &semester
	}

	grades, total, err := h.gradeService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: grades, Total: total})
}

// DeleteGrade deletes a grade record
// @Summary Delete grade
// @Tags grades
// @Produce json
// @Param id path uint true "Grade ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /grades/{id} [delete]
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.gradeService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Grade deleted successfully",
	})
}

// ListSubjects lists subjects
// @Summary List subjects
// @Tags grades
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /subjects [get]
func (h *GradeHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.gradeService.Subjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: subjects})
}

// CreateSubject creates a subject
// @Summary Create subject
// @Tags grades
// @Accept json
// @Produce json
// @Success 201 {object} models.Subject
// @Failure 400 {object} ErrorResponse
// @Router /subjects [post]
func (h *GradeHandler) CreateSubject(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	subject, err := h.gradeService.CreateSubject(c.Request.Context(), req.Name, req.Code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// CreateExam schedules an exam
// @Summary Create exam
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body services.ExamCreateRequest true "Exam data"
// @Success 201 {object} models.Exam
// @Failure 400 {object} ErrorResponse
// @Router /exams [post]
func (h *GradeHandler) CreateExam(c *gin.Context) {
	var req services.ExamCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	exam, err := h.gradeService.CreateExam(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// UpdateExam updates an exam
// @Summary Update exam
// @Tags exams
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param exam body services.ExamUpdateRequest true "Exam data"
// @Success 200 {object} models.Exam
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [put]
func (h *GradeHandler) UpdateExam(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ExamUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	exam, err := h.gradeService.UpdateExam(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// DeleteExam deletes an exam
// @Summary Delete exam
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [delete]
func (h *GradeHandler) DeleteExam(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.gradeService.DeleteExam(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Exam deleted successfully",
	})
}

// GetExam retrieves an exam
// @Summary Get exam
// @Tags exams
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} models.Exam
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [get]
func (h *GradeHandler) GetExam(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	exam, err := h.gradeService.GetExam(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// ListExams lists exams
// @Summary List exams
// @Tags exams
// @Produce json
// @Param subject_id query uint false "Subject filter"
// @Param class query string false "Class filter"
// @Success 200 {object} ListResponse
// @Router /exams [get]
func (h *GradeHandler) ListExams(c *gin.Context) {
	filters := repositories.ExamFilters{
		Class:  c.Query("class"),
		Limit:  parseIntQuery(c, "limit"),
		Offset: parseIntQuery(c, "offset"),
	}
	if id := parseIntQuery(c, "subject_id"); id > 0 {
		sid := uint(id)
		filters.SubjectID = &sid
	}

	exams, total, err := h.gradeService.ListExams(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: exams, Total: total})
}
