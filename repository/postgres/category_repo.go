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

type categoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, user_id, name, color, icon FROM categories WHERE id = $1`, id)
	var c domain.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context, userID string) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, name, color, icon FROM categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c == nil {
		return nil, domain.ErrInvalidPayload
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	const query = `INSERT INTO categories (id, user_id, name, color, icon) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, query, c.ID, c.UserID, c.Name, c.Color, c.Icon); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if c == nil {
		return domain.ErrInvalidPayload
	}
	const query = `UPDATE categories SET name = $2, color = $3, icon = $4 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.Name, c.Color, c.Icon)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
