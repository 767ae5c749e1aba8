package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	CreateCategory(ctx context.Context, db *gorm.DB, category *LinkCategory) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*LinkCategory, error)
	ListCategories(ctx context.Context, db *gorm.DB) ([]LinkCategory, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, category *LinkCategory) error
	DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error
	CountItems(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error)

	CreateItem(ctx context.Context, db *gorm.DB, item *LinkItem) error
	FindItemByID(ctx context.Context, db *gorm.DB, id int64) (*LinkItem, error)
	ListItems(ctx context.Context, db *gorm.DB, categoryID int64) ([]LinkItem, error)
	ListItemsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]ResolvedItem, error)
	UpdateItem(ctx context.Context, db *gorm.DB, item *LinkItem) error
	DeleteItem(ctx context.Context, db *gorm.DB, id int64) error
}
