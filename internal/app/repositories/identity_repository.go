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
	"github.com/applytrack/applytrack/internal/pkg/logger"
)

// IdentityRepository handles identity (account/credential) rows. It is
// the local realization of the identity-provider boundary: everything
// above it treats identities as opaque accounts with metadata.
type IdentityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(db *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create registers a new identity. The email uniqueness guarantee
// lives at this layer, matching the provider contract.
func (r *IdentityRepository) Create(ctx context.Context, identity *models.Identity) error {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	sql, args, err := r.sb.Insert("identities").
		Columns("id", "email", "password_hash", "full_name", "role").
		Values(identity.ID, identity.Email, identity.PasswordHash, identity.FullName, identity.Role).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create identity query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&identity.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "identities_email_key") {
			logger.Warn().Str("email", identity.Email).Msg("Attempted to register duplicate email")
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", identity.Email).Msg("Error executing create identity query")
		return fmt.Errorf("error creating identity: %w", err)
	}

	return nil
}

// GetByEmail retrieves an identity by email
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	sql, args, err := r.sb.Select("id", "email", "password_hash", "full_name", "role", "created_at").
		From("identities").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get identity query: %w", err)
	}

	var identity models.Identity
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash,
		&identity.FullName, &identity.Role, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("error retrieving identity: %w", err)
	}

	return &identity, nil
}

// GetByID retrieves an identity by its key
func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	sql, args, err := r.sb.Select("id", "email", "password_hash", "full_name", "role", "created_at").
		From("identities").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get identity query: %w", err)
	}

	var identity models.Identity
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash,
		&identity.FullName, &identity.Role, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("error retrieving identity: %w", err)
	}

	return &identity, nil
}

// EmailExists checks if an email is already registered
func (r *IdentityRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM identities WHERE email = $1)`,
		email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}

	return exists, nil
}
