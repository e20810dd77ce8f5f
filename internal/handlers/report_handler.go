package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	progressService   services.ProgressService
	attendanceService services.AttendanceService
	exportService     services.ExportService
}

func NewReportHandler(
	progressService services.ProgressService,
	attendanceService services.AttendanceService,
	exportService services.ExportService,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:       NewBaseHandler(logger),
		progressService:   progressService,
		attendanceService: attendanceService,
		exportService:     exportService,
	}
}

// Daily returns the daily attendance report
// @Summary Daily report
// @Description Day's attendance records with the daily rate
// @Tags reports
// @Produce json
// @Param date query string false "ISO date, defaults to today"
// @Param class query string false "Class filter"
// @Success 200 {object} services.AttendanceListResponse
// @Router /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date parameter, expected YYYY-MM-DD",
			})
			return
		}
		date = parsed
	}

	resp, err := h.attendanceService.ListForDate(c.Request.Context(), date, c.Query("class"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Weekly returns the weekly attendance report
// @Summary Weekly report
// @Description Seven days of per-status tallies grouped by date
// @Tags reports
// @Produce json
// @Param from query string false "ISO start date, defaults to the most recent Monday"
// @Param class query string false "Class filter"
// @Success 200 {object} services.WeeklyReportResponse
// @Router /reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	from := mostRecentMonday(time.Now())
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid from parameter, expected YYYY-MM-DD",
			})
			return
		}
		from = parsed
	}

	resp, err := h.progressService.WeeklyReport(c.Request.Context(), from, c.Query("class"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Monthly returns the monthly attendance report
// @Summary Monthly report
// @Description One calendar month of per-status tallies grouped by student
// @Tags reports
// @Produce json
// @Param month query string false "Month as YYYY-MM, defaults to the current month"
// @Param class query string false "Class filter"
// @Success 200 {object} services.MonthlyReportResponse
// @Router /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	month := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid month parameter, expected YYYY-MM",
			})
			return
		}
		month = parsed
	}

	resp, err := h.progressService.MonthlyReport(c.Request.Context(), month, c.Query("class"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Progress returns per-student progress for a class
// @Summary Class progress
// @Description Per-student averages, attendance rates and tiers plus cohort statistics
// @Tags reports
// @Produce json
// @Param class query string false "Class filter, empty for all active students"
// @Param academic_year query string false "Academic year filter"
// @Success 200 {object} services.ClassProgressResponse
// @Router /reports/progress [get]
func (h *ReportHandler) Progress(c *gin.Context) {
	resp, err := h.progressService.ClassProgress(c.Request.Context(), c.Query("class"), c.Query("academic_year"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// StudentProgress returns one student's progress
// @Summary Student progress
// @Description Grade average, attendance rate and performance tier for one student
// @Tags reports
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} services.StudentProgressResponse
// @Failure 404 {object} ErrorResponse
// @Router /reports/students/{id} [get]
func (h *ReportHandler) StudentProgress(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	resp, err := h.progressService.StudentProgress(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Dashboard returns the admin dashboard stats
// @Summary Dashboard stats
// @Description Overview counts, today's rate, progress summary and site settings
// @Tags reports
// @Produce json
// @Success 200 {object} services.DashboardResponse
// @Router /dashboard/stats [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	resp, err := h.progressService.Dashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportAttendance streams an Excel attendance report
// @Summary Export attendance
// @Description Streams an Excel workbook with per-student status tallies for the period
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "ISO start date, defaults to 30 days ago"
// @Param to query string false "ISO end date, defaults to today"
// @Param class query string false "Class filter"
// @Success 200 {file} binary
// @Router /reports/attendance/export [get]
func (h *ReportHandler) ExportAttendance(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid from parameter, expected YYYY-MM-DD",
			})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid to parameter, expected YYYY-MM-DD",
			})
			return
		}
		to = parsed
	}

	workbook, err := h.exportService.AttendanceWorkbook(c.Request.Context(), from, to, c.Query("class"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.LogError(c, "Failed to stream workbook", "error", err)
	}
}

// mostRecentMonday truncates to the Monday of the week containing t.
func mostRecentMonday(t time.Time) time.Time {
	t = t.Truncate(24 * time.Hour)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
