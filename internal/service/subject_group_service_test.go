package service

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

type fakeSubjectGroupRepo struct {
	rows      []models.SubjectGroupRow
	listCalls int
}

func (r *fakeSubjectGroupRepo) GetByID(ctx context.Context, id int) (*models.SubjectGroupRow, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			return &r.rows[i], nil
		}
	}
	return nil, nil
}

func (r *fakeSubjectGroupRepo) List(ctx context.Context, filter *models.SubjectGroupFilter, sort *query.Sort, p query.Pagination) ([]models.SubjectGroupRow, error) {
	r.listCalls++
	return r.rows, nil
}

func (r *fakeSubjectGroupRepo) PageInfo(ctx context.Context, filter *models.SubjectGroupFilter, p query.Pagination) (*query.PageInfo, error) {
	norm, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	return query.NewPageInfo(norm, len(r.rows)), nil
}

func TestSubjectGroupListWithoutCacheHitsRepository(t *testing.T) {
	repo := &fakeSubjectGroupRepo{rows: []models.SubjectGroupRow{
		{ID: 1, NameTH: "วิทยาศาสตร์"},
		{ID: 2, NameTH: "คณิตศาสตร์"},
	}}
	svc := NewSubjectGroupService(repo, newStubFetcher(), nil, 0, nil)

	page, err := svc.List(context.Background(), grantAll(), nil, nil, query.Pagination{}, models.FetchCompact, models.FetchIDOnly)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.PageInfo.Total)
}

func TestSubjectGroupCacheability(t *testing.T) {
	repo := &fakeSubjectGroupRepo{}
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	svc := NewSubjectGroupService(repo, newStubFetcher(), client, 0, nil)

	q := "sci"
	cases := []struct {
		name   string
		filter *models.SubjectGroupFilter
		sort   *query.Sort
		p      query.Pagination
		want   bool
	}{
		{name: "unfiltered first page", p: query.Pagination{}, want: true},
		{name: "explicit default page", p: query.Pagination{Page: 1, Size: 50}, want: true},
		{name: "search filter", filter: &models.SubjectGroupFilter{Q: &q}, want: false},
		{name: "custom sort", sort: &query.Sort{By: "name_th"}, want: false},
		{name: "second page", p: query.Pagination{Page: 2, Size: 50}, want: false},
		{name: "small page", p: query.Pagination{Page: 1, Size: 10}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.cacheable(tc.filter, tc.sort, tc.p))
		})
	}
}

func TestSubjectGroupCacheDisabledWithoutClient(t *testing.T) {
	svc := NewSubjectGroupService(&fakeSubjectGroupRepo{}, newStubFetcher(), nil, 0, nil)
	assert.False(t, svc.cacheable(nil, nil, query.Pagination{}))
}
