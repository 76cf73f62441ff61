package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/service"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
	"github.com/warin-dev/sis-api/pkg/response"
)

// SubjectGroupHandler exposes the subject-group lookup table.
type SubjectGroupHandler struct {
	groups    *service.SubjectGroupService
	directory authz.Directory
}

// NewSubjectGroupHandler constructs SubjectGroupHandler.
func NewSubjectGroupHandler(groups *service.SubjectGroupService, directory authz.Directory) *SubjectGroupHandler {
	return &SubjectGroupHandler{groups: groups, directory: directory}
}

// List godoc
// @Summary List subject groups
// @Tags SubjectGroups
// @Produce json
// @Param q query string false "Search by group name"
// @Success 200 {object} response.Envelope
// @Router /subject-groups [get]
func (h *SubjectGroupHandler) List(c *gin.Context) {
	level, desc, err := fetchLevels(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p, err := pagination(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := &models.SubjectGroupFilter{Q: queryString(c, "q")}

	az := requestAuthorizer(c, h.directory)
	page, err := h.groups.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one subject group
// @Tags SubjectGroups
// @Produce json
// @Param id path int true "Subject group ID"
// @Success 200 {object} response.Envelope
// @Router /subject-groups/{id} [get]
func (h *SubjectGroupHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.InvalidRequest("id must be an integer"))
		return
	}
	level, desc, err := fetchLevels(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	az := requestAuthorizer(c, h.directory)
	group, err := h.groups.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}
