package repository

import (
	"context"

	"github.com/Syaif05/superapp-admin-web/internal/history/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, record *domain.HistoryRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO history (
			id, buyer_email, product_name, product_code, generated_id, status, message, raw_data, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.BuyerEmail,
		record.ProductName,
		record.ProductCode,
		record.GeneratedID,
		record.Status,
		record.Message,
		record.RawData,
		record.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.HistoryRecord, error) {
	var record domain.HistoryRecord
	err := db.WithContext(ctx).
		Model(&domain.HistoryRecord{}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.HistoryRecord, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.HistoryRecord{})

	if filter.BuyerEmail != "" {
		stmt = stmt.Where("buyer_email = ?", filter.BuyerEmail)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.HistoryRecord
	offset := (filter.Page - 1) * filter.PageSize
	err := stmt.Order("created_at DESC, id DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM history WHERE id = ?`, id).Error
}
