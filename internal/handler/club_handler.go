package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/service"
	"github.com/warin-dev/sis-api/pkg/response"
)

// ClubHandler exposes club endpoints.
type ClubHandler struct {
	clubs     *service.ClubService
	directory authz.Directory
}

// NewClubHandler constructs ClubHandler.
func NewClubHandler(clubs *service.ClubService, directory authz.Directory) *ClubHandler {
	return &ClubHandler{clubs: clubs, directory: directory}
}

// List godoc
// @Summary List clubs
// @Tags Clubs
// @Produce json
// @Param q query string false "Search by club name"
// @Param house query string false "Filter by house"
// @Success 200 {object} response.Envelope
// @Router /clubs [get]
func (h *ClubHandler) List(c *gin.Context) {
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
	filter := &models.ClubFilter{
		Q:     queryString(c, "q"),
		House: queryString(c, "house"),
	}

	az := requestAuthorizer(c, h.directory)
	page, err := h.clubs.List(c.Request.Context(), az, filter, sortParam(c), p, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Items, page.PageInfo)
}

// Get godoc
// @Summary Get one club
// @Tags Clubs
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Router /clubs/{id} [get]
func (h *ClubHandler) Get(c *gin.Context) {
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
	club, err := h.clubs.Get(c.Request.Context(), az, id, level, desc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, club)
}
