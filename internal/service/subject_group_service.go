package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/fetch"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

type subjectGroupRepository interface {
	GetByID(ctx context.Context, id int) (*models.SubjectGroupRow, error)
	List(ctx context.Context, filter *models.SubjectGroupFilter, sort *query.Sort, p query.Pagination) ([]models.SubjectGroupRow, error)
	PageInfo(ctx context.Context, filter *models.SubjectGroupFilter, p query.Pagination) (*query.PageInfo, error)
}

const subjectGroupCacheKey = "sis:subject_groups"

// SubjectGroupService serves the subject-group lookup table. The unfiltered
// row set changes rarely, so it is cached in Redis and the cache is consulted
// before the database. Filtered lookups always hit the database.
type SubjectGroupService struct {
	repo     subjectGroupRepository
	fetcher  *fetch.Fetcher
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSubjectGroupService constructs the subject-group service. cache may be
// nil, which disables caching.
func NewSubjectGroupService(repo subjectGroupRepository, fetcher *fetch.Fetcher, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *SubjectGroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &SubjectGroupService{repo: repo, fetcher: fetcher, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Get materializes one subject group at the requested fetch level.
func (s *SubjectGroupService) Get(ctx context.Context, az authz.Authorizer, id int, level, desc models.FetchLevel) (*models.SubjectGroup, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.SubjectGroup(ctx, row, level, desc, az)
}

// List materializes a page of subject groups, serving unfiltered requests
// from the cache when possible.
func (s *SubjectGroupService) List(ctx context.Context, az authz.Authorizer, filter *models.SubjectGroupFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.SubjectGroup], error) {
	rows, cached, err := s.loadRows(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.SubjectGroups(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	var info *query.PageInfo
	if cached {
		norm, err := p.Normalize()
		if err != nil {
			return nil, err
		}
		info = query.NewPageInfo(norm, len(rows))
	} else {
		info, err = s.repo.PageInfo(ctx, filter, p)
		if err != nil {
			return nil, err
		}
	}
	return &fetch.Page[models.SubjectGroup]{Items: items, PageInfo: info}, nil
}

func (s *SubjectGroupService) cacheable(filter *models.SubjectGroupFilter, sort *query.Sort, p query.Pagination) bool {
	if s.cache == nil || sort != nil {
		return false
	}
	if filter != nil && filter.Q != nil {
		return false
	}
	// The whole table fits in the default page.
	norm, err := p.Normalize()
	if err != nil {
		return false
	}
	return norm.Page == 1 && norm.Size >= 50
}

func (s *SubjectGroupService) loadRows(ctx context.Context, filter *models.SubjectGroupFilter, sort *query.Sort, p query.Pagination) ([]models.SubjectGroupRow, bool, error) {
	if !s.cacheable(filter, sort, p) {
		rows, err := s.repo.List(ctx, filter, sort, p)
		return rows, false, err
	}

	if raw, err := s.cache.Get(ctx, subjectGroupCacheKey).Bytes(); err == nil {
		var rows []models.SubjectGroupRow
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, true, nil
		}
		s.logger.Warn("discarding corrupt subject group cache entry")
	}

	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, false, err
	}
	if raw, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(ctx, subjectGroupCacheKey, raw, s.cacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache subject groups", zap.Error(err))
		}
	}
	return rows, false, nil
}
