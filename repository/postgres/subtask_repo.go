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

const subtaskColumns = `id, deadline_id, user_id, title, completed, due_at, order_index, created_at, updated_at`

type subtaskRepository struct {
	pool *pgxpool.Pool
}

// NewSubtaskRepository returns a Postgres-backed implementation of SubtaskRepository.
func NewSubtaskRepository(pool *pgxpool.Pool) repository.SubtaskRepository {
	return &subtaskRepository{pool: pool}
}

func (r *subtaskRepository) GetByID(ctx context.Context, id string) (*domain.Subtask, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subtaskColumns+` FROM subtasks WHERE id = $1`, id)
	return scanSubtask(row)
}

func (r *subtaskRepository) List(ctx context.Context, filter repository.SubtaskFilter) ([]domain.Subtask, error) {
	const query = `
	SELECT ` + subtaskColumns + `
	FROM subtasks
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR deadline_id = $2)
	ORDER BY order_index ASC, created_at ASC
	LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.DeadlineID, limitArg(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []domain.Subtask
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, *s)
	}
	return subtasks, rows.Err()
}

func (r *subtaskRepository) Create(ctx context.Context, s *domain.Subtask) (*domain.Subtask, error) {
	if s == nil {
		return nil, domain.ErrInvalidPayload
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO subtasks (id, deadline_id, user_id, title, completed, due_at, order_index, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()), COALESCE($9, NOW()))
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		s.ID, s.DeadlineID, s.UserID, s.Title, s.Completed, s.DueAt, s.OrderIndex,
		nullTime(s.CreatedAt), nullTime(s.UpdatedAt),
	).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *subtaskRepository) Update(ctx context.Context, s *domain.Subtask) error {
	if s == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE subtasks
	SET title = $2,
		completed = $3,
		due_at = $4,
		order_index = $5,
		updated_at = COALESCE($6, NOW())
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		s.ID, s.Title, s.Completed, s.DueAt, s.OrderIndex, nullTime(s.UpdatedAt),
	).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSubtaskNotFound
		}
		return err
	}
	return nil
}

func (r *subtaskRepository) Upsert(ctx context.Context, s *domain.Subtask) error {
	if s == nil || s.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO subtasks (id, deadline_id, user_id, title, completed, due_at, order_index, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()), COALESCE($9, NOW()))
	ON CONFLICT (id) DO UPDATE
	SET deadline_id = EXCLUDED.deadline_id,
		title = EXCLUDED.title,
		completed = EXCLUDED.completed,
		due_at = EXCLUDED.due_at,
		order_index = EXCLUDED.order_index,
		updated_at = EXCLUDED.updated_at
	WHERE subtasks.user_id = EXCLUDED.user_id
	`
	tag, err := r.pool.Exec(ctx, query,
		s.ID, s.DeadlineID, s.UserID, s.Title, s.Completed, s.DueAt, s.OrderIndex,
		nullTime(s.CreatedAt), nullTime(s.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrForbidden
	}
	return nil
}

func (r *subtaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubtaskNotFound
	}
	return nil
}

func (r *subtaskRepository) DeleteByDeadline(ctx context.Context, deadlineID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM subtasks WHERE deadline_id = $1`, deadlineID)
	return err
}

func scanSubtask(row rowScanner) (*domain.Subtask, error) {
	var s domain.Subtask
	if err := row.Scan(
		&s.ID,
		&s.DeadlineID,
		&s.UserID,
		&s.Title,
		&s.Completed,
		&s.DueAt,
		&s.OrderIndex,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubtaskNotFound
		}
		return nil, err
	}
	return &s, nil
}
