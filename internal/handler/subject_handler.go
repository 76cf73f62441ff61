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

// SubjectHandler exposes subject endpoints.
type SubjectHandler struct {
	subjects  *service.SubjectService
	directory authz.Directory
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService, directory authz.Directory) *SubjectHandler {
	return &SubjectHandler{subjects: subjects, directory: directory}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param q query string false "Search by subject name"
// @Param subject_group_id query int false "Filter by subject group"
// @Param semester query int false "Filter by semester"
// @Param teacher_id query string false "Filter by assigned teacher"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
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
	filter := &models.SubjectFilter{Q: queryString(c, "q")}
	if filter.SubjectGroupID, err = queryInt(c, "subject_group_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.Semester, err = queryInt(c, "semester"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.TeacherID, err = queryUUID(c, "teacher_id"); err != nil {
		response.Error(c, err)
		return
	}

	az := requestAuthorizer(c, h.directory)
	page, err := h.subjects.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one subject
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
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
	subject, err := h.subjects.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subject)
}

// Update godoc
// @Summary Update a subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.UpdateSubjectRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [patch]
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	az := requestAuthorizer(c, h.directory)
	subject, err := h.subjects.Update(c.Request.Context(), az, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subject)
}
