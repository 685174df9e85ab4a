package repository

import (
	"context"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req model.CategoryRequest) error
	UpdateCategory(ctx context.Context, id int, req model.CategoryRequest) error
	DeleteCategory(ctx context.Context, id int) error
}
