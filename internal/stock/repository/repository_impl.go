package repository

import (
	"context"

	"github.com/Syaif05/superapp-admin-web/internal/stock/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, stock *domain.AccountStock) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO account_stocks (
			id, product_id, account_data, is_sold, transaction_id, buyer_email, sold_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stock.ID,
		stock.ProductID,
		stock.AccountData,
		stock.IsSold,
		stock.TransactionID,
		stock.BuyerEmail,
		stock.SoldAt,
		stock.CreatedAt,
		stock.UpdatedAt,
	).Error
}

func (r *repo) CreateBatch(ctx context.Context, db *gorm.DB, stocks []domain.AccountStock) error {
	if len(stocks) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&stocks).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.AccountStock, error) {
	var s domain.AccountStock
	err := db.WithContext(ctx).
		Model(&domain.AccountStock{}).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repo) FindOldestAvailable(ctx context.Context, db *gorm.DB, productID int64) (*domain.AccountStock, error) {
	var s domain.AccountStock
	err := db.WithContext(ctx).
		Model(&domain.AccountStock{}).
		Where("product_id = ? AND is_sold = ?", productID, false).
		Order("created_at ASC, id ASC").
		First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.AccountStock, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.AccountStock{})

	if filter.ProductID != "" {
		stmt = stmt.Where("product_id = ?", filter.ProductID)
	}
	if filter.Sold != nil {
		stmt = stmt.Where("is_sold = ?", *filter.Sold)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.AccountStock
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

func (r *repo) CountByProduct(ctx context.Context, db *gorm.DB, productID int64) (int64, int64, error) {
	type row struct {
		IsSold bool
		Total  int64
	}
	var rows []row
	err := db.WithContext(ctx).Raw(
		`SELECT is_sold, COUNT(1) AS total FROM account_stocks WHERE product_id = ? GROUP BY is_sold`,
		productID,
	).Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}

	var available, sold int64
	for _, r := range rows {
		if r.IsSold {
			sold = r.Total
		} else {
			available = r.Total
		}
	}
	return available, sold, nil
}

func (r *repo) MarkSold(ctx context.Context, db *gorm.DB, stock *domain.AccountStock) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE account_stocks SET
			is_sold = ?, transaction_id = ?, buyer_email = ?, sold_at = ?, updated_at = ?
		 WHERE id = ? AND is_sold = ?`,
		true,
		stock.TransactionID,
		stock.BuyerEmail,
		stock.SoldAt,
		stock.UpdatedAt,
		stock.ID,
		false,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM account_stocks WHERE id = ?`, id).Error
}
