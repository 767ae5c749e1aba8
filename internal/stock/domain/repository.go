package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, stock *AccountStock) error
	CreateBatch(ctx context.Context, db *gorm.DB, stocks []AccountStock) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*AccountStock, error)
	FindOldestAvailable(ctx context.Context, db *gorm.DB, productID int64) (*AccountStock, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]AccountStock, int64, error)
	CountByProduct(ctx context.Context, db *gorm.DB, productID int64) (available int64, sold int64, err error)
	// MarkSold flips is_sold on an unsold row and reports whether this
	// caller won the row. A false return with nil error means another
	// claim got there first.
	MarkSold(ctx context.Context, db *gorm.DB, stock *AccountStock) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
