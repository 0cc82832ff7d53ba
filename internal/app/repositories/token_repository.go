package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/dberrors"
	"github.com/applytrack/applytrack/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateToken stores a new refresh token
func (r *TokenRepository) CreateToken(ctx context.Context, token string, userID uuid.UUID, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date", "is_revoked", "created_at").
		Values(token, userID, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_token_key") {
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Str("userId", userID.String()).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}

	return nil
}

// GetTokenByValue retrieves the token's owner after checking the
// revocation flag and expiry.
func (r *TokenRepository) GetTokenByValue(ctx context.Context, token string) (uuid.UUID, time.Time, error) {
	var userID uuid.UUID
	var expiryDate time.Time
	var isRevoked bool

	sql, args, err := r.sb.Select("user_id", "expiry_date", "is_revoked").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("failed to build get token query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiryDate, &isRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, time.Time{}, apperrors.ErrTokenNotFound
		}
		return uuid.Nil, time.Time{}, fmt.Errorf("error retrieving token: %w", err)
	}

	if isRevoked {
		return uuid.Nil, time.Time{}, apperrors.ErrTokenRevoked
	}
	if expiryDate.Before(time.Now()) {
		return uuid.Nil, time.Time{}, apperrors.ErrTokenExpired
	}

	return userID, expiryDate, nil
}

// RevokeToken revokes a single refresh token
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// CleanupExpiredTokens removes expired tokens and revoked tokens older
// than thirty days. Returns the number of rows removed.
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)

	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expiry_date": time.Now()},
			squirrel.And{
				squirrel.Eq{"is_revoked": true},
				squirrel.Lt{"created_at": thirtyDaysAgo},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	deletedCount := cmdTag.RowsAffected()
	logger.Info().Int64("deletedCount", deletedCount).Msg("Cleaned up expired refresh tokens")

	return deletedCount, nil
}
