package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestClauseIfSkipsAbsentValues(t *testing.T) {
	c := Where()
	If(c, (*string)(nil), func(c *Clause, v string) {
		t.Fatal("closure must not run for absent values")
	})
	assert.True(t, c.Empty())

	text, args := c.Build(1)
	assert.Equal(t, "", text)
	assert.Empty(t, args)
}

func TestClauseSeparatorsBetweenConditions(t *testing.T) {
	c := Where()
	If(c, strptr("somchai"), func(c *Clause, v string) {
		c.PushSQL("first_name_th ILIKE ")
		c.PushParam(v)
	})
	If(c, intptr(3), func(c *Clause, v int) {
		c.PushSQL("class_no = ")
		c.PushParam(v)
	})

	text, args := c.Build(1)
	assert.Equal(t, "first_name_th ILIKE $1 AND class_no = $2", text)
	assert.Equal(t, []interface{}{"somchai", 3}, args)
}

func TestSetClauseUsesCommaSeparator(t *testing.T) {
	c := Set()
	If(c, strptr("line"), func(c *Clause, v string) {
		c.PushSQL("type = ")
		c.PushParam(v)
	})
	If(c, strptr("@somchai"), func(c *Clause, v string) {
		c.PushSQL("value = ")
		c.PushParam(v)
	})

	text, args := c.Build(1)
	assert.Equal(t, "type = $1, value = $2", text)
	assert.Len(t, args, 2)
}

func TestPrevParamReusesLastBind(t *testing.T) {
	c := Where()
	c.PushSQL("(name_th ILIKE concat('%', ")
	c.PushParam("sci")
	c.PushSQL(", '%') OR name_en ILIKE concat('%', ")
	c.PushPrevParam()
	c.PushSQL(", '%'))")

	text, args := c.Build(1)
	assert.Equal(t, "(name_th ILIKE concat('%', $1, '%') OR name_en ILIKE concat('%', $1, '%'))", text)
	assert.Equal(t, []interface{}{"sci"}, args)
}

func TestPrevParamWithoutParamPanics(t *testing.T) {
	c := Where()
	c.PushSQL("id = ")
	c.PushPrevParam()
	assert.Panics(t, func() { c.Build(1) })
}

func TestBuildStartOffset(t *testing.T) {
	c := Where()
	c.PushSQL("year = ")
	c.PushParam(2024)

	text, args := c.Build(3)
	assert.Equal(t, "year = $3", text)
	assert.Equal(t, []interface{}{2024}, args)
}

func TestAppendWhere(t *testing.T) {
	c := Where()
	If(c, intptr(5), func(c *Clause, v int) {
		c.PushSQL("number = ")
		c.PushParam(v)
	})

	q, args := c.AppendWhere("SELECT id FROM classrooms", []interface{}{"seed"})
	require.Equal(t, "SELECT id FROM classrooms WHERE number = $2", q)
	require.Equal(t, []interface{}{"seed", 5}, args)

	empty := Where()
	q, args = empty.AppendWhere("SELECT id FROM classrooms", nil)
	assert.Equal(t, "SELECT id FROM classrooms", q)
	assert.Nil(t, args)
}
