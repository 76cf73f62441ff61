package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

func TestPaginationDefaults(t *testing.T) {
	p, err := Pagination{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.Size)
	assert.Equal(t, " LIMIT 50 OFFSET 0", p.LimitOffset())
}

func TestPaginationPageZeroRejected(t *testing.T) {
	_, err := Pagination{Page: 0, Size: 50}.Normalize()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidRequest.Code, apperrors.FromError(err).Code)
}

func TestPageInfoAcrossPages(t *testing.T) {
	p, err := Pagination{Page: 1, Size: 50}.Normalize()
	require.NoError(t, err)
	info := NewPageInfo(p, 125)
	assert.Equal(t, 1, info.FirstPage)
	assert.Equal(t, 3, info.LastPage)
	require.NotNil(t, info.NextPage)
	assert.Equal(t, 2, *info.NextPage)
	assert.Nil(t, info.PrevPage)
	assert.Equal(t, 50, info.Size)
	assert.Equal(t, 125, info.Total)

	p, err = Pagination{Page: 3, Size: 50}.Normalize()
	require.NoError(t, err)
	info = NewPageInfo(p, 125)
	assert.Equal(t, 3, info.LastPage)
	assert.Nil(t, info.NextPage)
	require.NotNil(t, info.PrevPage)
	assert.Equal(t, 2, *info.PrevPage)
}

func TestPageInfoEmptyResult(t *testing.T) {
	p, _ := Pagination{Page: 1, Size: 50}.Normalize()
	info := NewPageInfo(p, 0)
	assert.Equal(t, 1, info.LastPage)
	assert.Nil(t, info.NextPage)
	assert.Nil(t, info.PrevPage)
}

func TestOrderByWhitelist(t *testing.T) {
	columns := map[string]string{"number": "c.number", "year": "c.year"}

	assert.Equal(t, " ORDER BY c.number ASC", OrderBy(columns, &Sort{By: "number"}, "c.id"))
	assert.Equal(t, " ORDER BY c.year DESC", OrderBy(columns, &Sort{By: "year", Descending: true}, "c.id"))
	// Unknown keys fall back rather than interpolating request input.
	assert.Equal(t, " ORDER BY c.id ASC", OrderBy(columns, &Sort{By: "1; DROP TABLE"}, "c.id"))
	assert.Equal(t, "", OrderBy(columns, nil, ""))
}
