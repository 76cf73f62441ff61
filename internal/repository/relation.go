// Package repository implements the relation layer: per-entity row types
// with a base SELECT and COUNT query, typed point and batch lookup, and the
// queryable/sortable/paginated list protocol. All access is read-committed
// and read-only except for the explicit write methods.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/warin-dev/sis-api/internal/query"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// getRow runs a single-row query. "No such row" surfaces as EntityNotFound;
// every other database failure becomes Internal.
func getRow[T any](ctx context.Context, q sqlx.QueryerContext, entity, sqlText string, args ...interface{}) (*T, error) {
	var out T
	if err := sqlx.GetContext(ctx, q, &out, sqlText, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(entity + " not found")
		}
		return nil, apperrors.Internal(err, "failed to load "+entity)
	}
	return &out, nil
}

// selectRows runs a multi-row query. Row order follows the query; a batch
// lookup by ids does not guarantee input order and silently omits ids with
// no matching row.
func selectRows[T any](ctx context.Context, q sqlx.QueryerContext, entity, sqlText string, args ...interface{}) ([]T, error) {
	var out []T
	if err := sqlx.SelectContext(ctx, q, &out, sqlText, args...); err != nil {
		return nil, apperrors.Internal(err, "failed to list "+entity)
	}
	return out, nil
}

func countRows(ctx context.Context, q sqlx.QueryerContext, entity, sqlText string, args ...interface{}) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, q, &total, sqlText, args...); err != nil {
		return 0, apperrors.Internal(err, "failed to count "+entity)
	}
	return total, nil
}

// listRows combines a base query with an optional filter clause, sort, and
// pagination into one executable statement.
func listRows[T any](ctx context.Context, q sqlx.QueryerContext, entity, base string, where *query.Clause, orderBy string, p query.Pagination) ([]T, error) {
	p, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	sqlText, args := where.AppendWhere(base, nil)
	sqlText += orderBy + p.LimitOffset()
	return selectRows[T](ctx, q, entity, sqlText, args...)
}

// pageInfo derives pagination metadata from the COUNT query sharing the
// list's filter. Sort and limit never apply to the count.
func pageInfo(ctx context.Context, q sqlx.QueryerContext, entity, countBase string, where *query.Clause, p query.Pagination) (*query.PageInfo, error) {
	p, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	sqlText, args := where.AppendWhere(countBase, nil)
	total, err := countRows(ctx, q, entity, sqlText, args...)
	if err != nil {
		return nil, err
	}
	return query.NewPageInfo(p, total), nil
}
