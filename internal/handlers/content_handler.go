package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

// ContentHandler serves the authenticated CMS endpoints.
type ContentHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

func contentFilters(c *gin.Context) repositories.ContentFilters {
	return repositories.ContentFilters{
		Query:      c.Query("q"),
		ActiveOnly: c.Query("active") == "true",
		Limit:      parseIntQuery(c, "limit"),
		Offset:     parseIntQuery(c, "offset"),
	}
}

// ===== PAGES =====

// CreatePage creates a page
// @Summary Create page
// @Tags content
// @Accept json
// @Produce json
// @Param page body services.PageCreateRequest true "Page data"
// @Success 201 {object} models.Page
// @Failure 409 {object} ErrorResponse
// @Router /pages [post]
func (h *ContentHandler) CreatePage(c *gin.Context) {
	var req services.PageCreateRequest
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

	page, err := h.contentService.CreatePage(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

// UpdatePage updates a page
// @Summary Update page
// @Description Requires page ownership or the edit_pages permission
// @Tags content
// @Accept json
// @Produce json
// @Param id path uint true "Page ID"
// @Param page body services.PageUpdateRequest true "Page data"
// @Success 200 {object} models.Page
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /pages/{id} [put]
func (h *ContentHandler) UpdatePage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.PageUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	page, err := h.contentService.UpdatePage(c.Request.Context(), user, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeletePage deletes a page
// @Summary Delete page
// @Description Requires page ownership or the edit_pages permission
// @Tags content
// @Produce json
// @Param id path uint true "Page ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /pages/{id} [delete]
func (h *ContentHandler) DeletePage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.contentService.DeletePage(c.Request.Context(), user, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Page deleted successfully",
	})
}

// GetPage retrieves a page by id
// @Summary Get page
// @Tags content
// @Produce json
// @Param id path uint true "Page ID"
// @Success 200 {object} models.Page
// @Failure 404 {object} ErrorResponse
// @Router /pages/{id} [get]
func (h *ContentHandler) GetPage(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	page, err := h.contentService.GetPage(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListPages lists pages including drafts
// @Summary List pages
// @Tags content
// @Produce json
// @Success 200 {object} ListResponse
// @Router /pages [get]
func (h *ContentHandler) ListPages(c *gin.Context) {
	pages, total, err := h.contentService.ListPages(c.Request.Context(), contentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: pages, Total: total})
}

// ===== FACILITIES =====

// CreateFacility creates a facility
// @Summary Create facility
// @Tags content
// @Accept json
// @Produce json
// @Success 201 {object} models.Facility
// @Router /facilities [post]
func (h *ContentHandler) CreateFacility(c *gin.Context) {
	var req services.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	facility, err := h.contentService.CreateFacility(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, facility)
}

// UpdateFacility updates a facility
// @Summary Update facility
// @Tags content
// @Accept json
// @Produce json
// @Param id path uint true "Facility ID"
// @Success 200 {object} models.Facility
// @Failure 404 {object} ErrorResponse
// @Router /facilities/{id} [put]
func (h *ContentHandler) UpdateFacility(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	facility, err := h.contentService.UpdateFacility(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, facility)
}

// DeleteFacility deletes a facility
// @Summary Delete facility
// @Tags content
// @Produce json
// @Param id path uint true "Facility ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /facilities/{id} [delete]
func (h *ContentHandler) DeleteFacility(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.contentService.DeleteFacility(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Facility deleted successfully",
	})
}

// ToggleFacility flips the active flag
// @Summary Toggle facility
// @Tags content
// @Produce json
// @Param id path uint true "Facility ID"
// @Success 200 {object} models.Facility
// @Failure 404 {object} ErrorResponse
// @Router /facilities/{id}/toggle [patch]
func (h *ContentHandler) ToggleFacility(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	facility, err := h.contentService.ToggleFacility(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, facility)
}

// ListFacilities lists facilities
// @Summary List facilities
// @Tags content
// @Produce json
// @Success 200 {object} ListResponse
// @Router /facilities [get]
func (h *ContentHandler) ListFacilities(c *gin.Context) {
	facilities, total, err := h.contentService.ListFacilities(c.Request.Context(), contentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: facilities, Total: total})
}

// ===== PROJECTS =====

// CreateProject creates a project
// @Summary Create project
// @Tags content
// @Accept json
// @Produce json
// @Success 201 {object} models.Project
// @Router /projects [post]
func (h *ContentHandler) CreateProject(c *gin.Context) {
	var req services.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	project, err := h.contentService.CreateProject(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject updates a project
// @Summary Update project
// @Tags content
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /projects/{id} [put]
func (h *ContentHandler) UpdateProject(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	project, err := h.contentService.UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project
// @Summary Delete project
// @Tags content
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{id} [delete]
func (h *ContentHandler) DeleteProject(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.contentService.DeleteProject(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Project deleted successfully",
	})
}

// ToggleProject flips the active flag
// @Summary Toggle project
// @Tags content
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /projects/{id}/toggle [patch]
func (h *ContentHandler) ToggleProject(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	project, err := h.contentService.ToggleProject(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// ListProjects lists projects
// @Summary List projects
// @Tags content
// @Produce json
// @Success 200 {object} ListResponse
// @Router /projects [get]
func (h *ContentHandler) ListProjects(c *gin.Context) {
	projects, total, err := h.contentService.ListProjects(c.Request.Context(), contentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: projects, Total: total})
}

// ===== ACHIEVEMENTS =====

// CreateAchievement creates an achievement
// @Summary Create achievement
// @Tags content
// @Accept json
// @Produce json
// @Success 201 {object} models.Achievement
// @Router /achievements [post]
func (h *ContentHandler) CreateAchievement(c *gin.Context) {
	var req services.AchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	achievement, err := h.contentService.CreateAchievement(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, achievement)
}

// UpdateAchievement updates an achievement
// @Summary Update achievement
// @Tags content
// @Accept json
// @Produce json
// @Param id path uint true "Achievement ID"
// @Success 200 {object} models.Achievement
// @Failure 404 {object} ErrorResponse
// @Router /achievements/{id} [put]
func (h *ContentHandler) UpdateAchievement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.AchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	achievement, err := h.contentService.UpdateAchievement(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, achievement)
}

// DeleteAchievement deletes an achievement
// @Summary Delete achievement
// @Tags content
// @Produce json
// @Param id path uint true "Achievement ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /achievements/{id} [delete]
func (h *ContentHandler) DeleteAchievement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.contentService.DeleteAchievement(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Achievement deleted successfully",
	})
}

// ToggleAchievement flips the active flag
// @Summary Toggle achievement
// @Tags content
// @Produce json
// @Param id path uint true "Achievement ID"
// @Success 200 {object} models.Achievement
// @Failure 404 {object} ErrorResponse
// @Router /achievements/{id}/toggle [patch]
func (h *ContentHandler) ToggleAchievement(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	achievement, err := h.contentService.ToggleAchievement(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, achievement)
}

// ListAchievements lists achievements
// @Summary List achievements
// @Tags content
// @Produce json
// @Success 200 {object} ListResponse
// @Router /achievements [get]
func (h *ContentHandler) ListAchievements(c *gin.Context) {
	achievements, total, err := h.contentService.ListAchievements(c.Request.Context(), contentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: achievements, Total: total})
}

// ===== TEAM MEMBERS =====

// CreateTeamMember creates a team member
// @Summary Create team member
// @Tags content
// @Accept json
// @Produce json
// @Success 201 {object} models.TeamMember
// @Router /team-members [post]
func (h *ContentHandler) CreateTeamMember(c *gin.Context) {
	var req services.TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	member, err := h.contentService.CreateTeamMember(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// UpdateTeamMember updates a team member
// @Summary Update team member
// @Tags content
// @Accept json
// @Produce json
// @Param id path uint true "Team member ID"
// @Success 200 {object} models.TeamMember
// @Failure 404 {object} ErrorResponse
// @Router /team-members/{id} [put]
func (h *ContentHandler) UpdateTeamMember(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.TeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	member, err := h.contentService.UpdateTeamMember(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeleteTeamMember deletes a team member
// @Summary Delete team member
// @Tags content
// @Produce json
// @Param id path uint true "Team member ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /team-members/{id} [delete]
func (h *ContentHandler) DeleteTeamMember(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.contentService.DeleteTeamMember(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Team member deleted successfully",
	})
}

// ToggleTeamMember flips the active flag
// @Summary Toggle team member
// @Tags content
// @Produce json
// @Param id path uint true "Team member ID"
// @Success 200 {object} models.TeamMember
// @Failure 404 {object} ErrorResponse
// @Router /team-members/{id}/toggle [patch]
func (h *ContentHandler) ToggleTeamMember(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	member, err := h.contentService.ToggleTeamMember(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// ListTeamMembers lists team members
// @Summary List team members
// @Tags content
// @Produce json
// @Success 200 {object} ListResponse
// @Router /team-members [get]
func (h *ContentHandler) ListTeamMembers(c *gin.Context) {
	members, total, err := h.contentService.ListTeamMembers(c.Request.Context(), contentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: members, Total: total})
}

// ===== SETTINGS =====

// UpdateSetting upserts a site setting
// @Summary Update setting
// @Tags content
// @Accept json
// @Produce json
// @Param setting body services.SettingUpdateRequest true "Setting data"
// @Success 200 {object} SuccessResponse
// @Router /settings [put]
func (h *ContentHandler) UpdateSetting(c *gin.Context) {
	var req services.SettingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.contentService.UpdateSetting(c.Request.Context(), req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Setting updated successfully",
	})
}

// ListSettings returns all site settings
// @Summary List settings
// @Tags content
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /settings [get]
func (h *ContentHandler) ListSettings(c *gin.Context) {
	settings, err := h.contentService.Settings(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: settings})
}
