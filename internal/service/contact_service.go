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
	appErrors "github.com/warin-dev/sis-api/pkg/errors"
)

type contactRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactRow, error)
	List(ctx context.Context, filter *models.ContactFilter, sort *query.Sort, p query.Pagination) ([]models.ContactRow, error)
	PageInfo(ctx context.Context, filter *models.ContactFilter, p query.Pagination) (*query.PageInfo, error)
	Create(ctx context.Context, row *models.ContactRow, owner *authz.ContactOwner) (*models.ContactRow, error)
	Update(ctx context.Context, contactID uuid.UUID, set *query.Clause) error
	Delete(ctx context.Context, contactID uuid.UUID) error
}

// CreateContactRequest holds the payload for creating a contact and
// attaching it to its owning entity.
type CreateContactRequest struct {
	Type            models.ContactType `json:"type" validate:"required"`
	Value           string             `json:"value" validate:"required"`
	NameTH          *string            `json:"name_th"`
	NameEN          *string            `json:"name_en"`
	IncludeStudents *bool              `json:"include_students"`
	IncludeTeachers *bool              `json:"include_teachers"`
	IncludeParents  *bool              `json:"include_parents"`

	OwnerKind   *authz.OwnerKind `json:"owner_kind"`
	ClassroomID *uuid.UUID       `json:"classroom_id"`
	ClubID      *uuid.UUID       `json:"club_id"`
	StudentID   *uuid.UUID       `json:"student_id"`
	TeacherID   *uuid.UUID       `json:"teacher_id"`
}

// UpdateContactRequest holds the partial update payload for a contact.
type UpdateContactRequest struct {
	Type            *models.ContactType `json:"type"`
	Value           *string             `json:"value"`
	NameTH          *string             `json:"name_th"`
	NameEN          *string             `json:"name_en"`
	IncludeStudents *bool               `json:"include_students"`
	IncludeTeachers *bool               `json:"include_teachers"`
	IncludeParents  *bool               `json:"include_parents"`
}

// ContactService handles contact use-cases. Ownership decides who may edit:
// classroom contacts belong to the advisor, person contacts to their person,
// club contacts to club staff, and unattached contacts to nobody.
type ContactService struct {
	repo      contactRepository
	fetcher   *fetch.Fetcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContactService constructs the contact service.
func NewContactService(repo contactRepository, fetcher *fetch.Fetcher, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, fetcher: fetcher, validator: validate, logger: logger}
}

// Get materializes one contact at the requested fetch level.
func (s *ContactService) Get(ctx context.Context, az authz.Authorizer, id uuid.UUID, level, desc models.FetchLevel) (*models.Contact, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Contact(ctx, row, level, desc, az)
}

// List materializes a filtered page of contacts.
func (s *ContactService) List(ctx context.Context, az authz.Authorizer, filter *models.ContactFilter, sort *query.Sort, p query.Pagination, level, desc models.FetchLevel) (*fetch.Page[models.Contact], error) {
	rows, err := s.repo.List(ctx, filter, sort, p)
	if err != nil {
		return nil, err
	}
	items, err := s.fetcher.Contacts(ctx, rows, level, desc, az)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.PageInfo(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[models.Contact]{Items: items, PageInfo: info}, nil
}

// Create inserts a contact and attaches it to the requested owner.
func (s *ContactService) Create(ctx context.Context, az authz.Authorizer, req CreateContactRequest) (*models.Contact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid contact payload")
	}
	owner, err := req.owner()
	if err != nil {
		return nil, err
	}
	// The create check runs against the requested owner, not the row: the
	// row does not exist yet, and the attachment is what grants ownership.
	if err := az.AuthorizeContactAttachment(ctx, owner); err != nil {
		return nil, err
	}
	row := &models.ContactRow{
		Type:            req.Type,
		Value:           req.Value,
		NameTH:          req.NameTH,
		NameEN:          req.NameEN,
		IncludeStudents: req.IncludeStudents,
		IncludeTeachers: req.IncludeTeachers,
		IncludeParents:  req.IncludeParents,
	}
	created, err := s.repo.Create(ctx, row, owner)
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact created", zap.String("contact_id", created.ID.String()))
	return s.fetcher.Contact(ctx, created, models.FetchDefault, models.FetchIDOnly, az)
}

func (r CreateContactRequest) owner() (*authz.ContactOwner, error) {
	if r.OwnerKind == nil {
		return nil, nil
	}
	owner := &authz.ContactOwner{
		Kind:        *r.OwnerKind,
		ClassroomID: r.ClassroomID,
		ClubID:      r.ClubID,
		StudentID:   r.StudentID,
		TeacherID:   r.TeacherID,
	}
	switch owner.Kind {
	case authz.OwnerClassroom:
		if owner.ClassroomID == nil {
			return nil, appErrors.InvalidRequest("classroom_id is required for a classroom contact")
		}
	case authz.OwnerClub:
		if owner.ClubID == nil {
			return nil, appErrors.InvalidRequest("club_id is required for a club contact")
		}
	case authz.OwnerPerson:
		if owner.StudentID == nil && owner.TeacherID == nil {
			return nil, appErrors.InvalidRequest("student_id or teacher_id is required for a person contact")
		}
	default:
		return nil, appErrors.InvalidRequest("owner_kind must be classroom, person, or club")
	}
	return owner, nil
}

// Update applies a partial edit to the contact.
func (s *ContactService) Update(ctx context.Context, az authz.Authorizer, id uuid.UUID, req UpdateContactRequest) (*models.Contact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid contact payload")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := az.AuthorizeContact(ctx, row, authz.ActionUpdate); err != nil {
		return nil, err
	}

	set := query.Set()
	query.If(set, req.Type, func(c *query.Clause, v models.ContactType) {
		c.PushSQL("type = ")
		c.PushParam(v)
	})
	query.If(set, req.Value, func(c *query.Clause, v string) {
		c.PushSQL("value = ")
		c.PushParam(v)
	})
	query.If(set, req.NameTH, func(c *query.Clause, v string) {
		c.PushSQL("name_th = ")
		c.PushParam(v)
	})
	query.If(set, req.NameEN, func(c *query.Clause, v string) {
		c.PushSQL("name_en = ")
		c.PushParam(v)
	})
	query.If(set, req.IncludeStudents, func(c *query.Clause, v bool) {
		c.PushSQL("include_students = ")
		c.PushParam(v)
	})
	query.If(set, req.IncludeTeachers, func(c *query.Clause, v bool) {
		c.PushSQL("include_teachers = ")
		c.PushParam(v)
	})
	query.If(set, req.IncludeParents, func(c *query.Clause, v bool) {
		c.PushSQL("include_parents = ")
		c.PushParam(v)
	})
	if err := s.repo.Update(ctx, id, set); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fetcher.Contact(ctx, updated, models.FetchDefault, models.FetchIDOnly, az)
}

// Delete removes the contact after an ownership check.
func (s *ContactService) Delete(ctx context.Context, az authz.Authorizer, id uuid.UUID) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := az.AuthorizeContact(ctx, row, authz.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("contact deleted", zap.String("contact_id", id.String()))
	return nil
}
