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

type studentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudentRow, error)
	List(ctx context.Context, filter *models.StudentFilter, sort *query.Sort, p query.Pagination) ([]models.StudentRow, error)
	PageInfo(ctx context.Context, filter *models.StudentFilter, p query.Pagination) (*query.PageInfo, error)
	UpdatePerson(ctx context.Context, studentID uuid.UUID, set *query.Clause) error
}

// UpdateStudentRequest holds the partial update payload for a student's
// person fields. Only the fields a student may edit about themselves are
// exposed; registrar-owned fields like the student code never change here.
type UpdateStudentRequest struct {
	NicknameTH *string            `json:"nickname_th"`
	NicknameEN *string            `json:"nickname_en"`
	ProfileURL *string            `json:"profile" validate:"omitempty,url"`
	BloodGroup *models.BloodGroup `json:"blood_group"`
	ShirtSize  *models.ShirtSize  `json:"shirt_size"`
	PantsSize  *string            `json:"pants_size"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	fetcher   *fetch.Fetcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, fetcher *fetch.Fetcher, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, fetcher: fetcher, validator: validate, logger: logger}
}

// Get materializes one student at the requested fetch level.
func (s *StudentService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Student, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Student(ctx, row, level, desc, az)
}

// List materializes a filtered page of students.
func (s *StudentService) List(ctx context.Context, az authz.Authorizer, filter *models.StudentFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Student], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Students(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Student]{Items: items, PageInfo: info}, nil
}

// Update applies a partial edit to the student's person fields and returns
// the refreshed record at the Default level.
func (s *StudentService) Update(ctx context.Context, az authz.Authorizer, id uuid.UUID, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid student payload")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := az.AuthorizeStudent(ctx, row, authz.ActionUpdate); err != nil {
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
	query.If(set, req.PantsSize, func(c *query.Clause, v string) {
		c.PushSQL("pants_size = ")
		c.PushParam(v)
	})
	if err := s.repo.UpdatePerson(ctx, id, set); err != nil {
		return nil, err
	}
	s.logger.Info("student updated", zap.String("student_id", id.String()))

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Student(ctx, updated, models.FetchDefault, models.FetchIDOnly, az)
}
