package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/fetch"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
)

type classroomRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClassroomRow, error)
	List(ctx context.Context, filter *models.ClassroomFilter, sort *query.Sort, p query.Pagination) ([]models.ClassroomRow, error)
	PageInfo(ctx context.Context, filter *models.ClassroomFilter, p query.Pagination) (*query.PageInfo, error)
	Update(ctx context.Context, classroomID uuid.UUID, set *query.Clause) error
}

// UpdateClassroomRequest holds the fields a classroom advisor may edit.
type UpdateClassroomRequest struct {
	MainRoom *string `json:"main_room"`
}

// ClassroomService handles classroom use-cases.
type ClassroomService struct {
	repo      classroomRepository
	fetcher   *fetch.Fetcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs the classroom service.
func NewClassroomService(repo classroomRepository, fetcher *fetch.Fetcher, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{repo: repo, fetcher: fetcher, validator: validate, logger: logger}
}

// Get materializes one classroom at the requested fetch level.
func (s *ClassroomService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Classroom, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Classroom(ctx, row, level, desc, az)
}

// List materializes a filtered page of classrooms.
func (s *ClassroomService) List(ctx context.Context, az authz.Authorizer, filter *models.ClassroomFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Classroom], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Classrooms(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Classroom]{Items: items, PageInfo: info}, nil
}

// Update applies an advisor edit to the classroom.
func (s *ClassroomService) Update(ctx context.Context, az authz.Authorizer, id uuid.UUID, req UpdateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid classroom payload")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := az.AuthorizeClassroom(ctx, row, authz.ActionUpdate); err != nil {
		return nil, err
	}

	set := query.Set()
	query.If(set, req.MainRoom, func(c *query.Clause, v string) {
		c.PushSQL("main_room = ")
		c.PushParam(v)
	})
	if err := s.repo.Update(ctx, id, set); err != nil {
		return nil, err
	}
	s.logger.Info("classroom updated", zap.String("classroom_id", id.String()))

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Classroom(ctx, updated, models.FetchDefault, models.FetchIDOnly, az)
}
