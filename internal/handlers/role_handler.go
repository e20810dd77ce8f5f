package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type RoleHandler struct {
	BaseHandler
	roleService services.RoleService
}

func NewRoleHandler(roleService services.RoleService, logger utils.Logger) *RoleHandler {
	return &RoleHandler{
		BaseHandler: NewBaseHandler(logger),
		roleService: roleService,
	}
}

// CreateRole creates a new role
// @Summary Create role
// @Description Creates a role with optional permission and user assignments
// @Tags roles
// @Accept json
// @Produce json
// @Param role body services.RoleCreateRequest true "Role data"
// @Success 201 {object} models.Role
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req services.RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// UpdateRole updates a role
// @Summary Update role
// @Description Updates role details and replaces assignments when provided
// @Tags roles
// @Accept json
// @Produce json
// @Param id path uint true "Role ID"
// @Param role body services.RoleUpdateRequest true "Role data"
// @Success 200 {object} models.Role
// @Failure 404 {object} ErrorResponse
// @Router /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// DeleteRole deletes a role
// @Summary Delete role
// @Description Deletes a role; the super_admin role is protected
// @Tags roles
// @Produce json
// @Param id path uint true "Role ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Role deleted successfully",
	})
}

// GetRole retrieves a role
// @Summary Get role
// @Description Retrieves a role with permissions and users
// @Tags roles
// @Produce json
// @Param id path uint true "Role ID"
// @Success 200 {object} models.Role
// @Failure 404 {object} ErrorResponse
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	role, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// ListRoles lists roles
// @Summary List roles
// @Tags roles
// @Produce json
// @Param q query string false "Search query"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	filters := repositories.RoleFilters{
		Query:  c.Query("q"),
		Limit:  parseIntQuery(c, "limit"),
		Offset: parseIntQuery(c, "offset"),
	}

	roles, total, err := h.roleService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: roles, Total: total})
}

// ListPermissions lists all permissions
// @Summary List permissions
// @Description All permissions ordered by group, for the role editor
// @Tags roles
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.roleService.Permissions(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: permissions})
}

func parseIntQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
