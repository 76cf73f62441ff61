package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/middleware"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// requestAuthorizer builds the per-request capability. Anonymous requests get
// a deny-all authorizer, which still serves IdOnly materializations.
func requestAuthorizer(c *gin.Context, dir authz.Directory) authz.Authorizer {
	source := c.FullPath()
	if source == "" {
		source = c.Request.URL.Path
	}
	claims := claimsFromContext(c)
	if claims == nil {
		return authz.NewAnonymous(source)
	}
	return authz.New(claims, dir, source)
}

// fetchLevels reads the fetch_level and descendant_fetch_level parameters.
// Both default to IdOnly when omitted.
func fetchLevels(c *gin.Context) (models.FetchLevel, models.FetchLevel, error) {
	level, err := models.ParseFetchLevel(c.Query("fetch_level"))
	if err != nil {
		return "", "", err
	}
	desc, err := models.ParseFetchLevel(c.Query("descendant_fetch_level"))
	if err != nil {
		return "", "", err
	}
	return level, desc, nil
}

// pagination parses the page selector. Pages are 1-indexed, so an explicit
// page=0 is rejected here where its presence is still known; a zero-valued
// result means the caller sent nothing and Normalize applies the defaults.
func pagination(c *gin.Context) (query.Pagination, error) {
	var p query.Pagination
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, appErrors.InvalidRequest("page numbers start at 1")
		}
		p.Page = n
	}
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, appErrors.InvalidRequest("size must be a non-negative integer")
		}
		p.Size = n
	}
	return p, nil
}

func sortParam(c *gin.Context) *query.Sort {
	by := strings.TrimSpace(c.Query("sort_by"))
	if by == "" {
		return nil
	}
	return &query.Sort{
		By:         by,
		Descending: strings.EqualFold(c.Query("sort_order"), "desc"),
	}
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, appErrors.InvalidRequest(name + " must be a valid UUID")
	}
	return id, nil
}

func queryString(c *gin.Context, name string) *string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	return &raw
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.InvalidRequest(name + " must be an integer")
	}
	return &n, nil
}

func queryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, appErrors.InvalidRequest(name + " must be a valid UUID")
	}
	return &id, nil
}
