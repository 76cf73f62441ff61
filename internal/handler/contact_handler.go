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

// ContactHandler exposes contact endpoints.
type ContactHandler struct {
	contacts  *service.ContactService
	directory authz.Directory
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(contacts *service.ContactService, directory authz.Directory) *ContactHandler {
	return &ContactHandler{contacts: contacts, directory: directory}
}

// List godoc
// @Summary List contacts
// @Tags Contacts
// @Produce json
// @Param type query string false "Filter by contact type"
// @Success 200 {object} response.Envelope
// @Router /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
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
	filter := &models.ContactFilter{}
	if raw := queryString(c, "type"); raw != nil {
		t := models.ContactType(*raw)
		filter.Type = &t
	}

	az := requestAuthorizer(c, h.directory)
	page, err := h.contacts.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one contact
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} response.Envelope
// @Router /contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
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
	contact, err := h.contacts.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contact)
}

// Create godoc
// @Summary Create a contact attached to its owner
// @Tags Contacts
// @Accept json
// @Produce json
// @Param payload body service.CreateContactRequest true "Contact payload"
// @Success 201 {object} response.Envelope
// @Router /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	az := requestAuthorizer(c, h.directory)
	contact, err := h.contacts.Create(c.Request.Context(), az, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, contact)
}

// Update godoc
// @Summary Update a contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param payload body service.UpdateContactRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Router /contacts/{id} [patch]
func (h *ContactHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	az := requestAuthorizer(c, h.directory)
	contact, err := h.contacts.Update(c.Request.Context(), az, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, contact)
}

// Delete godoc
// @Summary Delete a contact
// @Tags Contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 204
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	az := requestAuthorizer(c, h.directory)
	if err := h.contacts.Delete(c.Request.Context(), az, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
