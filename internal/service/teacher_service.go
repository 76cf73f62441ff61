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

type teacherRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TeacherRow, error)
	List(ctx context.Context, filter *models.TeacherFilter, sort *query.Sort, p query.Pagination) ([]models.TeacherRow, error)
	PageInfo(ctx context.Context, filter *models.TeacherFilter, p query.Pagination) (*query.PageInfo, error)
	UpdatePerson(ctx context.Context, teacherID uuid.UUID, set *query.Clause) error
}

// UpdateTeacherRequest holds the partial update payload for a teacher's
// person fields.
type UpdateTeacherRequest struct {
	NicknameTH *string            `json:"nickname_th"`
	NicknameEN *string            `json:"nickname_en"`
	ProfileURL *string            `json:"profile" validate:"omitempty,url"`
	BloodGroup *models.BloodGroup `json:"blood_group"`
	ShirtSize  *models.ShirtSize  `json:"shirt_size"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo      teacherRepository
	fetcher   *fetch.Fetcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, fetcher *fetch.Fetcher, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, fetcher: fetcher, validator: validate, logger: logger}
}

// Get materializes one teacher at the requested fetch level.
func (s *TeacherService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Teacher, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Teacher(ctx, row, level, desc, az)
}

// List materializes a filtered page of teachers.
func (s *TeacherService) List(ctx context.Context, az authz.Authorizer, filter *models.TeacherFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Teacher], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Teachers(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Teacher]{Items: items, PageInfo: info}, nil
}

// Update applies a partial edit to the teacher's person fields.
func (s *TeacherService) Update(ctx context.Context, az authz.Authorizer, id uuid.UUID, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid teacher payload")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := az.AuthorizeTeacher(ctx, row, authz.ActionUpdate); err != nil {
		return nil, err
	}

	set := query.Set()
	query.If(set, req.NicknameTH, func(c *query.Clause, v string) {
		c.PushSQL("nickname_th = ")
		c.PushParam(v)
	})
	query.If(set, req.NicknameEN, func(c *query.Clause, v string) {
		c.PushSQL("nickname_en = ")
		c.PushParam(v)
	})
	query.If(set, req.ProfileURL, func(c *query.Clause, v string) {
		c.PushSQL("profile = ")
		c.PushParam(v)
	})
	query.If(set, req.BloodGroup, func(c *query.Clause, v models.BloodGroup) {
		c.PushSQL("blood_group = ")
		c.PushParam(v)
	})
	query.If(set, req.ShirtSize, func(c *query.Clause, v models.ShirtSize) {
		c.PushSQL("shirt_size = ")
		c.PushParam(v)
	})
	if err := s.repo.UpdatePerson(ctx, id, set); err != nil {
		return nil, err
	}
	s.logger.Info("teacher updated", zap.String("teacher_id", id.String()))

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Teacher(ctx, updated, models.FetchDefault, models.FetchIDOnly, az)
}
