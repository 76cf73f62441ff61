package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/warin-dev/sis-api/internal/authz"
	"github.com/warin-dev/sis-api/internal/models"
	"github.com/warin-dev/sis-api/internal/query"
	apperrors "github.com/warin-dev/sis-api/pkg/errors"
)

// ContactRepository manages persistence for contact records and their
// attachment to people, classrooms, and clubs.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository constructs a ContactRepository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactBaseQuery = `SELECT ct.id, ct.created_at, ct.type, ct.value, ct.name_th, ct.name_en,
        ct.include_students, ct.include_teachers, ct.include_parents
        FROM contacts ct`

const contactCountQuery = `SELECT COUNT(ct.id) FROM contacts ct`

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactRow, error) {
	return getRow[models.ContactRow](ctx, r.db, "contact", contactBaseQuery+" WHERE ct.id = $1", id)
}

// GetByIDs fetches a batch of contact rows. Ids with no matching row are
// silently omitted.
func (r *ContactRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ContactRow, error) {
	return selectRows[models.ContactRow](ctx, r.db, "contacts", contactBaseQuery+" WHERE ct.id = ANY($1)", pq.Array(ids))
}

func (r *ContactRepository) List(ctx context.Context, filter *models.ContactFilter, sort *query.Sort, p query.Pagination) ([]models.ContactRow, error) {
	orderBy := query.OrderBy(models.ContactSortColumns, sort, "ct.created_at")
	return listRows[models.ContactRow](ctx, r.db, "contacts", contactBaseQuery, filter.WhereClause(), orderBy, p)
}

func (r *ContactRepository) PageInfo(ctx context.Context, filter *models.ContactFilter, p query.Pagination) (*query.PageInfo, error) {
	return pageInfo(ctx, r.db, "contacts", contactCountQuery, filter.WhereClause(), p)
}

// IDsForStudent lists contact ids attached to the student's person row.
func (r *ContactRepository) IDsForStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "student contacts",
		`SELECT pc.contact_id FROM person_contacts pc
         JOIN students s ON s.person_id = pc.person_id
         WHERE s.id = $1 ORDER BY pc.contact_id`, studentID)
}

// IDsForTeacher lists contact ids attached to the teacher's person row.
func (r *ContactRepository) IDsForTeacher(ctx context.Context, teacherID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "teacher contacts",
		`SELECT pc.contact_id FROM person_contacts pc
         JOIN teachers t ON t.person_id = pc.person_id
         WHERE t.id = $1 ORDER BY pc.contact_id`, teacherID)
}

// IDsForClassroom lists contact ids attached to the classroom.
func (r *ContactRepository) IDsForClassroom(ctx context.Context, classroomID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "classroom contacts",
		"SELECT cc.contact_id FROM classroom_contacts cc WHERE cc.classroom_id = $1 ORDER BY cc.contact_id", classroomID)
}

// IDsForClub lists contact ids attached to the club.
func (r *ContactRepository) IDsForClub(ctx context.Context, clubID uuid.UUID) ([]uuid.UUID, error) {
	return selectRows[uuid.UUID](ctx, r.db, "club contacts",
		"SELECT cc.contact_id FROM club_contacts cc WHERE cc.club_id = $1 ORDER BY cc.contact_id", clubID)
}

// Create inserts the contact row and, when an owner is given, attaches it in
// the matching join table within one transaction.
func (r *ContactRepository) Create(ctx context.Context, row *models.ContactRow, owner *authz.ContactOwner) (*models.ContactRow, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to create contact")
	}
	defer tx.Rollback()

	created, err := getRow[models.ContactRow](ctx, tx, "contact",
		`INSERT INTO contacts (type, value, name_th, name_en, include_students, include_teachers, include_parents)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, created_at, type, value, name_th, name_en, include_students, include_teachers, include_parents`,
		row.Type, row.Value, row.NameTH, row.NameEN, row.IncludeStudents, row.IncludeTeachers, row.IncludeParents)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		if err := attachContact(ctx, tx, created.ID, owner); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Internal(err, "failed to create contact")
	}
	return created, nil
}

func attachContact(ctx context.Context, tx *sqlx.Tx, contactID uuid.UUID, owner *authz.ContactOwner) error {
	var err error
	switch owner.Kind {
	case authz.OwnerPerson:
		switch {
		case owner.StudentID != nil:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO person_contacts (person_id, contact_id)
                 SELECT s.person_id, $2 FROM students s WHERE s.id = $1`, *owner.StudentID, contactID)
		case owner.TeacherID != nil:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO person_contacts (person_id, contact_id)
                 SELECT t.person_id, $2 FROM teachers t WHERE t.id = $1`, *owner.TeacherID, contactID)
		default:
			return apperrors.InvalidRequest("contact owner is missing an id")
		}
	case authz.OwnerClassroom:
		if owner.ClassroomID == nil {
			return apperrors.InvalidRequest("contact owner is missing an id")
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO classroom_contacts (classroom_id, contact_id) VALUES ($1, $2)", *owner.ClassroomID, contactID)
	case authz.OwnerClub:
		if owner.ClubID == nil {
			return apperrors.InvalidRequest("contact owner is missing an id")
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO club_contacts (club_id, contact_id) VALUES ($1, $2)", *owner.ClubID, contactID)
	default:
		return apperrors.InvalidRequest("unknown contact owner kind")
	}
	if err != nil {
		return apperrors.Internal(err, "failed to attach contact")
	}
	return nil
}

// Update applies a SET clause to the contact row.
func (r *ContactRepository) Update(ctx context.Context, contactID uuid.UUID, set *query.Clause) error {
	if set.Empty() {
		return nil
	}
	text, args := set.Build(2)
	res, err := r.db.ExecContext(ctx, "UPDATE contacts SET "+text+" WHERE id = $1",
		append([]interface{}{contactID}, args...)...)
	if err != nil {
		return apperrors.Internal(err, "failed to update contact")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("contact not found")
	}
	return nil
}

// Delete removes the contact row. Join-table attachments cascade.
func (r *ContactRepository) Delete(ctx context.Context, contactID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = $1", contactID)
	if err != nil {
		return apperrors.Internal(err, "failed to delete contact")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("contact not found")
	}
	return nil
}
