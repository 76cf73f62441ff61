package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/service"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
	"github.com/warin-dev/sis-api/pkg/response"
)

// ClassroomHandler exposes classroom endpoints.
type ClassroomHandler struct {
	classrooms *service.ClassroomService
	directory  authz.Directory
}

// NewClassroomHandler constructs ClassroomHandler.
func NewClassroomHandler(classrooms *service.ClassroomService, directory authz.Directory) *ClassroomHandler {
	return &ClassroomHandler{classrooms: classrooms, directory: directory}
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Param number query int false "Filter by class number"
// @Param year query int false "Filter by academic year"
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
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
	filter := &models.ClassroomFilter{}
	if filter.Number, err = queryInt(c, "number"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.Year, err = queryInt(c, "year"); err != nil {
		response.Error(c, err)
		return
	}

	az := requestAuthorizer(c, h.directory)
	page, err := h.classrooms.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one classroom
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	level, desc, err := fetchLevels(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	az := requestAuthorizer(c, h.directory)
	classroom, err := h.classrooms.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classroom)
}

// Update godoc
// @Summary Update classroom settings
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param id path string true "Classroom ID"
// @Param payload body service.UpdateClassroomRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [patch]
func (h *ClassroomHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	az := requestAuthorizer(c, h.directory)
	classroom, err := h.classrooms.Update(c.Request.Context(), az, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classroom)
}
