package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulse-shop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type sessionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSessionRepository creates a new PostgreSQL-backed admin session repository.
func NewSessionRepository(pool *pgxpool.Pool, logger zerolog.Logger) SessionRepository {
	return &sessionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "session").Logger(),
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *model.AdminSession) error {
	query := `
		INSERT INTO admin_sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query, s.Token, s.UserID, s.ExpiresAt).Scan(&s.CreatedAt); err != nil {
		r.logger.Error().Err(err).Int64("user_id", s.UserID).Msg("failed to create session")
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *sessionRepository) FindIdentity(ctx context.Context, token string, now time.Time) (*model.AdminIdentity, error) {
	query := `
		SELECT u.id, u.email
		FROM admin_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > $2 AND u.role = $3
	`

	var id model.AdminIdentity
	err := r.pool.QueryRow(ctx, query, token, now, model.RoleAdmin).Scan(&id.ID, &id.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to look up session")
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	return &id, nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, userID int64, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM admin_sessions WHERE user_id = $1 AND expires_at <= $2",
		userID, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to delete expired sessions")
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
