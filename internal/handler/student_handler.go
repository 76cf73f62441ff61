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

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students  *service.StudentService
	directory authz.Directory
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, directory authz.Directory) *StudentHandler {
	return &StudentHandler{students: students, directory: directory}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param q query string false "Search by name or student code"
// @Param classroom_id query string false "Filter by classroom"
// @Param class_no query int false "Filter by class number"
// @Param fetch_level query string false "id_only, compact, default, detailed"
// @Param descendant_fetch_level query string false "Level for related entities"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
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
	filter := &models.StudentFilter{
		Q:           queryString(c, "q"),
		StudentCode: queryString(c, "student_code"),
	}
	if filter.ClassroomID, err = queryUUID(c, "classroom_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.ClassNo, err = queryInt(c, "class_no"); err != nil {
		response.Error(c, err)
		return
	}

	az := requestAuthorizer(c, h.directory)
	page, err := h.students.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param fetch_level query string false "id_only, compact, default, detailed"
// @Param descendant_fetch_level query string false "Level for related entities"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
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
	student, err := h.students.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Update godoc
// @Summary Update a student's personal fields
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	az := requestAuthorizer(c, h.directory)
	student, err := h.students.Update(c.Request.Context(), az, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}
