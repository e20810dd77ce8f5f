package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

// BaseHandler carries shared handler utilities.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse is the standard paginated envelope.
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
}

// LogRequest logs with the request-scoped logger when available.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Error(msg, args...)
}

// parseIDParam parses a uint path parameter; a zero return means the
// response has already been written.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param + " parameter",
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service errors to HTTP responses. Typed errors are
// checked first, then the sentinel families.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication failed",
		})
	case errors.Is(err, services.ErrStudentInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Student account is not active",
		})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrSubjectNotFound),
		errors.Is(err, services.ErrExamNotFound),
		errors.Is(err, services.ErrGradeNotFound),
		errors.Is(err, services.ErrPageNotFound),
		errors.Is(err, services.ErrContentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrRoleTaken),
		errors.Is(err, services.ErrStudentTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrProtectedRole):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Role is protected and cannot be removed",
		})
	default:
		h.LogError(c, "Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
