package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(attendanceService services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
	}
}

// Record records one attendance entry
// @Summary Record attendance
// @Description Inserts or updates the attendance record for a student, date and optional subject
// @Tags attendance
// @Accept json
// @Produce json
// @Param record body services.AttendanceRecordRequest true "Attendance record"
// @Success 200 {object} models.Attendance
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req services.AttendanceRecordRequest
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

	record, err := h.attendanceService.Record(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// RecordBatch records attendance for many students at once
// @Summary Record attendance batch
// @Description Applies one status per student for a date as a single transaction
// @Tags attendance
// @Accept json
// @Produce json
// @Param batch body services.AttendanceBatchRequest true "Attendance batch"
// @Success 200 {object} services.AttendanceBatchResponse
// @Failure 400 {object} ErrorResponse
// @Router /attendance/batch [post]
func (h *AttendanceHandler) RecordBatch(c *gin.Context) {
	var req services.AttendanceBatchRequest
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

	resp, err := h.attendanceService.RecordBatch(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListForDate lists attendance for a date
// @Summary List attendance
// @Description Returns a day's records ordered by most-recently-modified, with the daily rate
// @Tags attendance
// @Produce json
// @Param date query string false "ISO date, defaults to today"
// @Param class query string false "Class filter"
// @Success 200 {object} services.AttendanceListResponse
// @Failure 400 {object} ErrorResponse
// @Router /attendance [get]
func (h *AttendanceHandler) ListForDate(c *gin.Context) {
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
