package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/fetch"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

type clubRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClubRow, error)
	List(ctx context.Context, filter *models.ClubFilter, sort *query.Sort, p query.Pagination) ([]models.ClubRow, error)
	PageInfo(ctx context.Context, filter *models.ClubFilter, p query.Pagination) (*query.PageInfo, error)
}

// ClubService handles club use-cases.
type ClubService struct {
	repo    clubRepository
	fetcher *fetch.Fetcher
	logger  *zap.Logger
}

// NewClubService constructs the club service.
func NewClubService(repo clubRepository, fetcher *fetch.Fetcher, logger *zap.Logger) *ClubService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClubService{repo: repo, fetcher: fetcher, logger: logger}
}

// Get materializes one club at the requested fetch level.
func (s *ClubService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Club, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Club(ctx, row, level, desc, az)
}

// List materializes a filtered page of clubs.
func (s *ClubService) List(ctx context.Context, az authz.Authorizer, filter *models.ClubFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Club], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Clubs(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Club]{Items: items, PageInfo: info}, nil
}
