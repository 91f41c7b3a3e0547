package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
)

const focusSessionColumns = `id, user_id, deadline_id, duration_minutes, started_at, completed_at, session_type`

type focusSessionRepository struct {
	pool *pgxpool.Pool
}

// NewFocusSessionRepository returns a Postgres-backed implementation of FocusSessionRepository.
func NewFocusSessionRepository(pool *pgxpool.Pool) repository.FocusSessionRepository {
	return &focusSessionRepository{pool: pool}
}

func (r *focusSessionRepository) GetByID(ctx context.Context, id string) (*domain.FocusSession, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+focusSessionColumns+` FROM focus_sessions WHERE id = $1`, id)
	return scanFocusSession(row)
}

func (r *focusSessionRepository) List(ctx context.Context, filter repository.FocusSessionFilter) ([]domain.FocusSession, error) {
	const query = `
	SELECT ` + focusSessionColumns + `
	FROM focus_sessions
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR deadline_id = $2)
	  AND ($3::timestamptz IS NULL OR started_at >= $3)
	ORDER BY started_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.DeadlineID,
		nullTime(filter.Since),
		limitArg(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.FocusSession
	for rows.Next() {
		s, err := scanFocusSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *focusSessionRepository) Create(ctx context.Context, s *domain.FocusSession) (*domain.FocusSession, error) {
	if s == nil {
		return nil, domain.ErrInvalidPayload
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO focus_sessions (id, user_id, deadline_id, duration_minutes, started_at, completed_at, session_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.pool.Exec(ctx, query,
		s.ID, s.UserID, s.DeadlineID, s.DurationMinutes, s.StartedAt, s.CompletedAt, s.SessionType,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *focusSessionRepository) Update(ctx context.Context, s *domain.FocusSession) error {
	if s == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE focus_sessions
	SET deadline_id = $2,
		duration_minutes = $3,
		started_at = $4,
		completed_at = $5,
		session_type = $6
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		s.ID, s.DeadlineID, s.DurationMinutes, s.StartedAt, s.CompletedAt, s.SessionType,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFocusSessionNotFound
	}
	return nil
}

func (r *focusSessionRepository) Upsert(ctx context.Context, s *domain.FocusSession) error {
	if s == nil || s.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO focus_sessions (id, user_id, deadline_id, duration_minutes, started_at, completed_at, session_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET deadline_id = EXCLUDED.deadline_id,
		duration_minutes = EXCLUDED.duration_minutes,
		started_at = EXCLUDED.started_at,
		completed_at = EXCLUDED.completed_at,
		session_type = EXCLUDED.session_type
	WHERE focus_sessions.user_id = EXCLUDED.user_id
	`
	tag, err := r.pool.Exec(ctx, query,
		s.ID, s.UserID, s.DeadlineID, s.DurationMinutes, s.StartedAt, s.CompletedAt, s.SessionType,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrForbidden
	}
	return nil
}

func scanFocusSession(row rowScanner) (*domain.FocusSession, error) {
	var s domain.FocusSession
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.DeadlineID,
		&s.DurationMinutes,
		&s.StartedAt,
		&s.CompletedAt,
		&s.SessionType,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFocusSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}
