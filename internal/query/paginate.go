package query

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

const (
	defaultPage = 1
	defaultSize = 50
)

// Pagination is the request-supplied page selector. Pages are 1-indexed;
// page 0 is rejected as an invalid request.
type Pagination struct {
	Page int
	Size int
}

// Normalize fills defaults and validates the selector. A zero-valued
// Pagination means "not supplied" and becomes page 1, size 50.
func (p Pagination) Normalize() (Pagination, error) {
	if p.Page < 0 || p.Size < 0 {
		return p, apperrors.InvalidRequest("page and size must be positive")
	}
	if p.Page == 0 && p.Size == 0 {
		return Pagination{Page: defaultPage, Size: defaultSize}, nil
	}
	if p.Page == 0 {
		return p, apperrors.InvalidRequest("page numbers start at 1")
	}
	if p.Size == 0 {
		p.Size = defaultSize
	}
	return p, nil
}

// LimitOffset renders the selector as a SQL suffix. Limit and offset are
// derived from validated integers, never from request strings.
func (p Pagination) LimitOffset() string {
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Size, (p.Page-1)*p.Size)
}

// PageInfo is the pagination metadata returned alongside list responses,
// derived from a COUNT query sharing the list's filter.
type PageInfo struct {
	FirstPage int  `json:"first_page"`
	LastPage  int  `json:"last_page"`
	NextPage  *int `json:"next_page"`
	PrevPage  *int `json:"prev_page"`
	Size      int  `json:"size"`
	Total     int  `json:"total"`
}

// NewPageInfo computes metadata for a normalized selector and a total count.
func NewPageInfo(p Pagination, total int) *PageInfo {
	last := (total + p.Size - 1) / p.Size
	if last < 1 {
		last = 1
	}
	info := &PageInfo{FirstPage: 1, LastPage: last, Size: p.Size, Total: total}
	if p.Page < last {
		next := p.Page + 1
		info.NextPage = &next
	}
	if p.Page > 1 {
		prev := p.Page - 1
		info.PrevPage = &prev
	}
	return info
}

// Sort is a request-supplied sort key validated against a per-entity column
// whitelist. Direction defaults to ascending.
type Sort struct {
	By         string
	Descending bool
}

// OrderBy renders an ORDER BY suffix for the given whitelist. An unknown or
// empty key falls back to the provided column; an empty fallback yields no
// ORDER BY, leaving row order to the database.
func OrderBy(columns map[string]string, s *Sort, fallback string) string {
	column := fallback
	direction := "ASC"
	if s != nil {
		if mapped, ok := columns[s.By]; ok {
			column = mapped
		}
		if s.Descending {
			direction = "DESC"
		}
	}
	if column == "" {
		return ""
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// SortKeys lists the accepted sort keys for error messages and docs.
func SortKeys(columns map[string]string) string {
	keys := make([]string, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
