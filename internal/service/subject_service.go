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

type subjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubjectRow, error)
	List(ctx context.Context, filter *models.SubjectFilter, sort *query.Sort, p query.Pagination) ([]models.SubjectRow, error)
	PageInfo(ctx context.Context, filter *models.SubjectFilter, p query.Pagination) (*query.PageInfo, error)
	Update(ctx context.Context, subjectID uuid.UUID, set *query.Clause) error
}

// UpdateSubjectRequest holds the fields a subject's teachers may edit.
type UpdateSubjectRequest struct {
	NameTH      *string `json:"name_th"`
	NameEN      *string `json:"name_en"`
	ShortNameTH *string `json:"short_name_th"`
	ShortNameEN *string `json:"short_name_en"`
	SyllabusURL *string `json:"syllabus" validate:"omitempty,url"`
}

// SubjectService handles subject use-cases.
type SubjectService struct {
	repo      subjectRepository
	fetcher   *fetch.Fetcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo subjectRepository, fetcher *fetch.Fetcher, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, fetcher: fetcher, validator: validate, logger: logger}
}

// Get materializes one subject at the requested fetch level.
func (s *SubjectService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Subject, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Subject(ctx, row, level, desc, az)
}

// List materializes a filtered page of subjects.
func (s *SubjectService) List(ctx context.Context, az authz.Authorizer, filter *models.SubjectFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Subject], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Subjects(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Subject]{Items: items, PageInfo: info}, nil
}

// Update applies a partial edit to the subject.
func (s *SubjectService) Update(ctx context.Context, az authz.Authorizer, id uuid.UUID, req UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid subject payload")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := az.AuthorizeSubject(ctx, row, authz.ActionUpdate); err != nil {
		return nil, err
	}

	set := query.Set()
	query.If(set, req.NameTH, func(c *query.Clause, v string) {
		c.PushSQL("name_th = ")
		c.PushParam(v)
	})
	query.If(set, req.NameEN, func(c *query.Clause, v string) {
		c.PushSQL("name_en = ")
		c.PushParam(v)
	})
	query.If(set, req.ShortNameTH, func(c *query.Clause, v string) {
		c.PushSQL("short_name_th = ")
		c.PushParam(v)
	})
	query.If(set, req.ShortNameEN, func(c *query.Clause, v string) {
		c.PushSQL("short_name_en = ")
		c.PushParam(v)
	})
	query.If(set, req.SyllabusURL, func(c *query.Clause, v string) {
		c.PushSQL("syllabus = ")
		c.PushParam(v)
	})
	if err := s.repo.Update(ctx, id, set); err != nil {
		return nil, err
	}
	s.logger.Info("subject updated", zap.String("subject_id", id.String()))

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Subject(ctx, updated, models.FetchDefault, models.FetchIDOnly, az)
}
