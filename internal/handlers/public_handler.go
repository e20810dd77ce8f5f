package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/services"
	"github.com/pesantren-digital/school-service/internal/utils"
)

// PublicHandler serves the unauthenticated marketing-site endpoints. Only
// published or active content is exposed.
type PublicHandler struct {
	BaseHandler
	contentService services.ContentService
}

func NewPublicHandler(contentService services.ContentService, logger utils.Logger) *PublicHandler {
	return &PublicHandler{
		BaseHandler:    NewBaseHandler(logger),
		contentService: contentService,
	}
}

func publicFilters(c *gin.Context) repositories.ContentFilters {
	return repositories.ContentFilters{
		ActiveOnly: true,
		Limit:      parseIntQuery(c, "limit"),
		Offset:     parseIntQuery(c, "offset"),
	}
}

// GetPageBySlug returns a published page
// @Summary Public page
// @Tags public
// @Produce json
// @Param slug path string true "Page slug"
// @Success 200 {object} models.Page
// @Failure 404 {object} ErrorResponse
// @Router /public/pages/{slug} [get]
func (h *PublicHandler) GetPageBySlug(c *gin.Context) {
	page, err := h.contentService.GetPageBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if !page.Published {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "page not found",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListPages returns all published pages
// @Summary Public pages
// @Tags public
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /public/pages [get]
func (h *PublicHandler) ListPages(c *gin.Context) {
	pages, err := h.contentService.PublishedPages(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Data: pages})
}

// ListFacilities returns active facilities
// @Summary Public facilities
// @Tags public
// @Produce json
// @Success 200 {object} ListResponse
// @Router /public/facilities [get]
func (h *PublicHandler) ListFacilities(c *gin.Context) {
	facilities, total, err := h.contentService.ListFacilities(c.Request.Context(), publicFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: facilities, Total: total})
}

// ListProjects returns active projects
// @Summary Public projects
// @Tags public
// @Produce json
// @Success 200 {object} ListResponse
// @Router /public/projects [get]
func (h *PublicHandler) ListProjects(c *gin.Context) {
	projects, total, err := h.contentService.ListProjects(c.Request.Context(), publicFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: projects, Total: total})
}

// ListAchievements returns active achievements
// @Summary Public achievements
// @Tags public
// @Produce json
// @Success 200 {object} ListResponse
// @Router /public/achievements [get]
func (h *PublicHandler) ListAchievements(c *gin.Context) {
	achievements, total, err := h.contentService.ListAchievements(c.Request.Context(), publicFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: achievements, Total: total})
}

// ListTeamMembers returns active team members
// @Summary Public team
// @Tags public
// @Produce json
// @Success 200 {object} ListResponse
// @Router /public/team [get]
func (h *PublicHandler) ListTeamMembers(c *gin.Context) {
	members, total, err := h.contentService.ListTeamMembers(c.Request.Context(), publicFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: members, Total: total})
}

// GetSetting returns one site setting; missing keys come back empty
// @Summary Public setting
// @Tags public
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} SuccessResponse
// @Router /public/settings/{key} [get]
func (h *PublicHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	value := h.contentService.Setting(c.Request.Context(), key)

	c.JSON(http.StatusOK, SuccessResponse{
		Data: map[string]string{"key": key, "value": value},
	})
}
