package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/service"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
	"github.com/warin-dev/sis-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendances *service.AttendanceService
	directory   authz.Directory
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendances *service.AttendanceService, directory authz.Directory) *AttendanceHandler {
	return &AttendanceHandler{attendances: attendances, directory: directory}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param classroom_id query string false "Filter by classroom"
// @Param event query string false "assembly or homeroom"
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
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
	filter := &models.AttendanceFilter{Event: queryString(c, "event")}
	if filter.StudentID, err = queryUUID(c, "student_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.ClassroomID, err = queryUUID(c, "classroom_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.OnDate, err = queryDate(c, "date"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.After, err = queryDate(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.Before, err = queryDate(c, "to"); err != nil {
		response.Error(c, err)
		return
	}

	az := requestAuthorizer(c, h.directory)
	page, err := h.attendances.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one attendance record
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
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
	record, err := h.attendances.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Record godoc
// @Summary Record a batch of attendance marks
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.RecordAttendanceRequest true "Marks for one date and event"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req service.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	az := requestAuthorizer(c, h.directory)
	marks, err := h.attendances.Record(c.Request.Context(), az, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, marks)
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.InvalidRequest(name + " must be a date in YYYY-MM-DD form")
	}
	return &t, nil
}
