package local

import (
	"context"
	"slices"
	"strings"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/repository"
)

type categoryRepository struct {
	items collection[domain.Category]
}

func NewCategoryRepository(db *DB) repository.CategoryRepository {
	return &categoryRepository{items: collection[domain.Category]{
		db:       db,
		bucket:   bucketCategories,
		id:       func(c *domain.Category) *string { return &c.ID },
		notFound: domain.ErrCategoryNotFound,
	}}
}

func (r *categoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	return r.items.get(id)
}

func (r *categoryRepository) List(_ context.Context, userID string) ([]domain.Category, error) {
	out, err := r.items.all(func(c *domain.Category) bool {
		return c.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.Category) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := r.items.put(category, false); err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) Update(_ context.Context, category *domain.Category) error {
	if category == nil || category.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.items.put(category, true)
}

func (r *categoryRepository) Delete(_ context.Context, id string) error {
	return r.items.delete(id)
}
