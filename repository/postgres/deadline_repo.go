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

const deadlineColumns = `id, user_id, title, description, deadline_at, priority, category_id, parent_id, created_at, updated_at, completed_at`

type deadlineRepository struct {
	pool *pgxpool.Pool
}

// NewDeadlineRepository returns a Postgres-backed implementation of DeadlineRepository.
func NewDeadlineRepository(pool *pgxpool.Pool) repository.DeadlineRepository {
	return &deadlineRepository{pool: pool}
}

func (r *deadlineRepository) GetByID(ctx context.Context, id string) (*domain.Deadline, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+deadlineColumns+` FROM deadlines WHERE id = $1`, id)
	return scanDeadline(row)
}

func (r *deadlineRepository) List(ctx context.Context, filter repository.DeadlineFilter) ([]domain.Deadline, error) {
	const query = `
	SELECT ` + deadlineColumns + `
	FROM deadlines
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR category_id = $2)
	  AND ($3 = '' OR parent_id = $3)
	  AND (NOT $4 OR parent_id IS NULL)
	ORDER BY deadline_at ASC, id ASC
	LIMIT $5 OFFSET $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.CategoryID,
		filter.ParentID,
		filter.RootsOnly,
		limitArg(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deadlines []domain.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		deadlines = append(deadlines, *d)
	}
	return deadlines, rows.Err()
}

func (r *deadlineRepository) Create(ctx context.Context, d *domain.Deadline) (*domain.Deadline, error) {
	if d == nil {
		return nil, domain.ErrInvalidPayload
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO deadlines (id, user_id, title, description, deadline_at, priority, category_id, parent_id, created_at, updated_at, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()), COALESCE($10, NOW()), $11)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		d.ID,
		d.UserID,
		d.Title,
		d.Description,
		d.DeadlineAt,
		d.Priority,
		d.CategoryID,
		d.ParentID,
		nullTime(d.CreatedAt),
		nullTime(d.UpdatedAt),
		d.CompletedAt,
	).Scan(&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *deadlineRepository) Update(ctx context.Context, d *domain.Deadline) error {
	if d == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE deadlines
	SET title = $2,
		description = $3,
		deadline_at = $4,
		priority = $5,
		category_id = $6,
		parent_id = $7,
		completed_at = $8,
		updated_at = COALESCE($9, NOW())
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		d.ID,
		d.Title,
		d.Description,
		d.DeadlineAt,
		d.Priority,
		d.CategoryID,
		d.ParentID,
		d.CompletedAt,
		nullTime(d.UpdatedAt),
	).Scan(&d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDeadlineNotFound
		}
		return err
	}
	return nil
}

func (r *deadlineRepository) Upsert(ctx context.Context, d *domain.Deadline) error {
	if d == nil || d.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO deadlines (id, user_id, title, description, deadline_at, priority, category_id, parent_id, created_at, updated_at, completed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()), COALESCE($10, NOW()), $11)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		description = EXCLUDED.description,
		deadline_at = EXCLUDED.deadline_at,
		priority = EXCLUDED.priority,
		category_id = EXCLUDED.category_id,
		parent_id = EXCLUDED.parent_id,
		updated_at = EXCLUDED.updated_at,
		completed_at = EXCLUDED.completed_at
	WHERE deadlines.user_id = EXCLUDED.user_id
	`
	tag, err := r.pool.Exec(ctx, query,
		d.ID,
		d.UserID,
		d.Title,
		d.Description,
		d.DeadlineAt,
		d.Priority,
		d.CategoryID,
		d.ParentID,
		nullTime(d.CreatedAt),
		nullTime(d.UpdatedAt),
		d.CompletedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrForbidden
	}
	return nil
}

func (r *deadlineRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM deadlines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDeadlineNotFound
	}
	return nil
}

func (r *deadlineRepository) DetachCategory(ctx context.Context, userID, categoryID string) error {
	const query = `UPDATE deadlines SET category_id = NULL, updated_at = NOW() WHERE user_id = $1 AND category_id = $2`
	_, err := r.pool.Exec(ctx, query, userID, categoryID)
	return err
}

func scanDeadline(row rowScanner) (*domain.Deadline, error) {
	var d domain.Deadline
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.Description,
		&d.DeadlineAt,
		&d.Priority,
		&d.CategoryID,
		&d.ParentID,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeadlineNotFound
		}
		return nil, err
	}
	return &d, nil
}
