// Package query provides a small DSL for assembling parameterized SQL
// fragments. Literal SQL pushed into a clause must always be a trusted
// constant; anything user-controlled goes through PushParam so it reaches the
// driver as a bound parameter, never interpolated text.
package query

import (
	"fmt"
	"strings"
)

type fragKind uint8

const (
	fragSQL fragKind = iota
	fragParam
	fragPrevParam
	fragSep
)

type fragment struct {
	kind  fragKind
	sql   string
	value interface{}
}

// Clause accumulates SQL fragments for a WHERE or SET expression. The zero
// value is not usable; construct with Where or Set so the separator is fixed.
type Clause struct {
	sep   string
	frags []fragment
}

// Where returns a clause whose conditions are joined with AND.
func Where() *Clause {
	return &Clause{sep: " AND "}
}

// Set returns a clause whose assignments are joined with commas.
func Set() *Clause {
	return &Clause{sep: ", "}
}

// PushSQL appends a literal SQL fragment. The text must be a compile-time
// constant from the caller's perspective.
func (c *Clause) PushSQL(sql string) *Clause {
	c.frags = append(c.frags, fragment{kind: fragSQL, sql: sql})
	return c
}

// PushParam appends a bound parameter. Values round-trip through the driver's
// native encoding: integers, floats, strings, booleans, UUIDs, times, and
// pq.Array for array binds. Enumerations implement driver.Valuer and encode
// as their lowercase snake_case label.
func (c *Clause) PushParam(value interface{}) *Clause {
	c.frags = append(c.frags, fragment{kind: fragParam, value: value})
	return c
}

// PushPrevParam appends a reference to the most recent bound parameter,
// for expressions that use the same value twice, e.g.
//
//	name_th ILIKE concat('%', $1, '%') OR name_en ILIKE concat('%', $1, '%')
//
// Rendering panics if no parameter precedes it; that is a programming error,
// not a request error.
func (c *Clause) PushPrevParam() *Clause {
	c.frags = append(c.frags, fragment{kind: fragPrevParam})
	return c
}

// PushSep appends the clause separator (" AND " or ", ").
func (c *Clause) PushSep() *Clause {
	c.frags = append(c.frags, fragment{kind: fragSep})
	return c
}

// Empty reports whether no fragments have been pushed.
func (c *Clause) Empty() bool {
	return len(c.frags) == 0
}

func (c *Clause) needsSep() bool {
	if len(c.frags) == 0 {
		return false
	}
	return c.frags[len(c.frags)-1].kind != fragSep
}

// If appends the separator (unless the clause is empty or already ends with
// one) and then runs fn when value is present. This is the conditional-filter
// idiom: every optional query parameter becomes one If call.
func If[T any](c *Clause, value *T, fn func(c *Clause, v T)) {
	if value == nil {
		return
	}
	if c.needsSep() {
		c.PushSep()
	}
	fn(c, *value)
}

// IfSlice behaves like If for slice-valued filters, skipping empty slices.
func IfSlice[T any](c *Clause, values []T, fn func(c *Clause, v []T)) {
	if len(values) == 0 {
		return
	}
	if c.needsSep() {
		c.PushSep()
	}
	fn(c, values)
}

// Build renders the clause into SQL text with $n placeholders starting at
// start, returning the text and the bound arguments in order.
func (c *Clause) Build(start int) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, len(c.frags))
	next := start
	for _, f := range c.frags {
		switch f.kind {
		case fragSQL:
			sb.WriteString(f.sql)
		case fragParam:
			fmt.Fprintf(&sb, "$%d", next)
			args = append(args, f.value)
			next++
		case fragPrevParam:
			if next == start {
				panic("query: PushPrevParam before any bound parameter")
			}
			fmt.Fprintf(&sb, "$%d", next-1)
		case fragSep:
			sb.WriteString(c.sep)
		}
	}
	return sb.String(), args
}

// AppendWhere attaches the clause to a base SELECT, returning the combined
// query and arguments. An empty clause returns the base untouched.
func (c *Clause) AppendWhere(base string, args []interface{}) (string, []interface{}) {
	if c.Empty() {
		return base, args
	}
	text, clauseArgs := c.Build(len(args) + 1)
	return base + " WHERE " + text, append(args, clauseArgs...)
}
