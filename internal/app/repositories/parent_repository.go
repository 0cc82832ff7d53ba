package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/dberrors"
)

// ParentRepository handles parent extension records, parent-student links
// and parent notes.
type ParentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewParentRepository creates a new ParentRepository
func NewParentRepository(db *pgxpool.Pool) *ParentRepository {
	return &ParentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a parent extension by profile id
func (r *ParentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Parent, error) {
	var parent models.Parent
	err := r.db.QueryRow(ctx,
		"SELECT id, phone, occupation, created_at, updated_at FROM parents WHERE id = $1", id).
		Scan(&parent.ID, &parent.Phone, &parent.Occupation, &parent.CreatedAt, &parent.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParentNotFound
		}
		return nil, fmt.Errorf("error retrieving parent: %w", err)
	}

	return &parent, nil
}

// Update applies a full update of the mutable parent fields
func (r *ParentRepository) Update(ctx context.Context, parent *models.Parent) error {
	sql, args, err := r.sb.Update("parents").
		Set("phone", parent.Phone).
		Set("occupation", parent.Occupation).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": parent.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update parent query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating parent: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrParentNotFound
	}

	return nil
}

// CreateLink associates a parent with a student
func (r *ParentRepository) CreateLink(ctx context.Context, link *models.StudentParentLink) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO student_parents (id, student_id, parent_id, relationship)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		link.ID, link.StudentID, link.ParentID, link.Relationship).
		Scan(&link.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "student_parents_student_id_parent_id_key") {
			return apperrors.ErrLinkAlreadyExists
		}
		return fmt.Errorf("error creating parent link: %w", err)
	}

	return nil
}

// GetLinksByStudent returns the parents linked to a student, with the
// parent profile attached for display.
func (r *ParentRepository) GetLinksByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.StudentParentLink, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sp.id, sp.student_id, sp.parent_id, sp.relationship, sp.created_at,
			p.id, p.email, p.full_name, p.role, p.avatar_url, p.created_at, p.updated_at
		FROM student_parents sp
		JOIN profiles p ON p.id = sp.parent_id
		WHERE sp.student_id = $1
		ORDER BY sp.created_at ASC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing parent links: %w", err)
	}
	defer rows.Close()

	var links []*models.StudentParentLink
	for rows.Next() {
		var link models.StudentParentLink
		var profile models.Profile
		err := rows.Scan(
			&link.ID, &link.StudentID, &link.ParentID, &link.Relationship, &link.CreatedAt,
			&profile.ID, &profile.Email, &profile.FullName, &profile.Role,
			&profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning parent link: %w", err)
		}
		link.ParentProfile = &profile
		links = append(links, &link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parent links: %w", err)
	}

	return links, nil
}

// GetLinksByParent returns the students a parent is linked to, with the
// student profile attached.
func (r *ParentRepository) GetLinksByParent(ctx context.Context, parentID uuid.UUID) ([]*models.StudentParentLink, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sp.id, sp.student_id, sp.parent_id, sp.relationship, sp.created_at,
			p.id, p.email, p.full_name, p.role, p.avatar_url, p.created_at, p.updated_at
		FROM student_parents sp
		JOIN profiles p ON p.id = sp.student_id
		WHERE sp.parent_id = $1
		ORDER BY sp.created_at ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("error listing student links: %w", err)
	}
	defer rows.Close()

	var links []*models.StudentParentLink
	for rows.Next() {
		var link models.StudentParentLink
		var profile models.Profile
		err := rows.Scan(
			&link.ID, &link.StudentID, &link.ParentID, &link.Relationship, &link.CreatedAt,
			&profile.ID, &profile.Email, &profile.FullName, &profile.Role,
			&profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning student link: %w", err)
		}
		link.ParentProfile = &profile
		links = append(links, &link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student links: %w", err)
	}

	return links, nil
}

// IsLinked reports whether the parent is linked to the student
func (r *ParentRepository) IsLinked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM student_parents WHERE parent_id = $1 AND student_id = $2)",
		parentID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking parent link: %w", err)
	}
	return exists, nil
}

// CreateNote stores a parent note against an application
func (r *ParentRepository) CreateNote(ctx context.Context, note *models.ParentNote) error {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO parent_notes (id, parent_id, student_id, application_id, note_text, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		note.ID, note.ParentID, note.StudentID, note.ApplicationID, note.NoteText, note.IsPrivate).
		Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrApplicationNotFound
		}
		return fmt.Errorf("error creating parent note: %w", err)
	}

	return nil
}

// ListNotesByApplication returns the notes on an application. When
// includePrivate is false, private notes authored by other parents are
// filtered out; viewerID keeps a parent's own private notes visible.
func (r *ParentRepository) ListNotesByApplication(ctx context.Context, applicationID uuid.UUID, viewerID uuid.UUID, includePrivate bool) ([]*models.ParentNote, error) {
	builder := r.sb.Select("id", "parent_id", "student_id", "application_id", "note_text", "is_private", "created_at", "updated_at").
		From("parent_notes").
		Where(squirrel.Eq{"application_id": applicationID}).
		OrderBy("created_at ASC")

	if !includePrivate {
		builder = builder.Where(squirrel.Or{
			squirrel.Eq{"is_private": false},
			squirrel.Eq{"parent_id": viewerID},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing parent notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.ParentNote
	for rows.Next() {
		var note models.ParentNote
		err := rows.Scan(
			&note.ID, &note.ParentID, &note.StudentID, &note.ApplicationID,
			&note.NoteText, &note.IsPrivate, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning parent note: %w", err)
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parent notes: %w", err)
	}

	return notes, nil
}

// DeleteNote removes a note owned by the given parent
func (r *ParentRepository) DeleteNote(ctx context.Context, noteID, parentID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		"DELETE FROM parent_notes WHERE id = $1 AND parent_id = $2", noteID, parentID)
	if err != nil {
		return fmt.Errorf("error deleting parent note: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
