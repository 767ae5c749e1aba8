package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, record *HistoryRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*HistoryRecord, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]HistoryRecord, int64, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) error
}
