package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/service"
	"github.com/warin-dev/sis-api/pkg/response"
)

// CertificateHandler exposes certificate endpoints.
type CertificateHandler struct {
	certificates *service.CertificateService
	directory    authz.Directory
}

// NewCertificateHandler constructs CertificateHandler.
func NewCertificateHandler(certificates *service.CertificateService, directory authz.Directory) *CertificateHandler {
	return &CertificateHandler{certificates: certificates, directory: directory}
}

// List godoc
// @Summary List certificates
// @Tags Certificates
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param year query int false "Filter by academic year"
// @Param type query string false "Filter by certificate type"
// @Success 200 {object} response.Envelope
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
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
	filter := &models.CertificateFilter{}
	if filter.StudentID, err = queryUUID(c, "student_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.Year, err = queryInt(c, "year"); err != nil {
		response.Error(c, err)
		return
	}
	if raw := queryString(c, "type"); raw != nil {
		t := models.CertificateType(*raw)
		filter.Type = &t
	}

	az := requestAuthorizer(c, h.directory)
	page, err := h.certificates.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one certificate
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Router /certificates/{id} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
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
	certificate, err := h.certificates.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, certificate)
}

// StudentAwardSheet godoc
// @Summary Download a student's certificates as a PDF award sheet
// @Tags Certificates
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Router /students/{id}/award-sheet [get]
func (h *CertificateHandler) StudentAwardSheet(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	az := requestAuthorizer(c, h.directory)
	payload, filename, err := h.certificates.StudentAwardSheet(c.Request.Context(), az, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", payload)
}
