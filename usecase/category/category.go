package category

import (
	"context"
	"strings"

	"github.com/fastygo/deadliner/domain"
	"github.com/fastygo/deadliner/usecase"
)

type Input struct {
	Name  string
	Color string
	Icon  string
}

type UseCase struct {
	deps usecase.Deps
}

func New(deps usecase.Deps) *UseCase {
	return &UseCase{deps: deps.Normalize()}
}

// List returns the user's categories, or the default set when there are none.
func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.Category, error) {
	cats, err := uc.deps.Store.Categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return domain.DefaultCategories(), nil
	}
	return cats, nil
}

func (uc *UseCase) Create(ctx context.Context, userID string, in Input) (*domain.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	return uc.deps.Store.Categories.Create(ctx, &domain.Category{
		UserID: userID,
		Name:   strings.TrimSpace(in.Name),
		Color:  strings.TrimSpace(in.Color),
		Icon:   strings.TrimSpace(in.Icon),
	})
}

func (uc *UseCase) Update(ctx context.Context, userID, id string, in Input) (*domain.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Color = strings.TrimSpace(in.Color)
	c.Icon = strings.TrimSpace(in.Icon)
	if err := uc.deps.Store.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the category and detaches it from the user's deadlines.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.get(ctx, userID, id); err != nil {
		return err
	}
	if err := uc.deps.Store.Deadlines.DetachCategory(ctx, userID, id); err != nil {
		return err
	}
	if err := uc.deps.Store.Categories.Delete(ctx, id); err != nil {
		return err
	}
	uc.deps.InvalidateStats(ctx, userID)
	return nil
}

func (uc *UseCase) get(ctx context.Context, userID, id string) (*domain.Category, error) {
	c, err := uc.deps.Store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("name is required")
	}
	if strings.TrimSpace(in.Color) == "" {
		return domain.Invalid("color is required")
	}
	return nil
}
