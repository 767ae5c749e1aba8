package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/Syaif05/superapp-admin-web/internal/link/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateCategory(ctx context.Context, db *gorm.DB, category *domain.LinkCategory) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO link_categories (
			id, name, group_email, email_subject, email_body, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		category.GroupEmail,
		category.EmailSubject,
		category.EmailBody,
		category.CreatedAt,
		category.UpdatedAt,
	).Error
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*domain.LinkCategory, error) {
	var c domain.LinkCategory
	err := db.WithContext(ctx).
		Model(&domain.LinkCategory{}).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB) ([]domain.LinkCategory, error) {
	var items []domain.LinkCategory
	err := db.WithContext(ctx).
		Model(&domain.LinkCategory{}).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, category *domain.LinkCategory) error {
	return db.WithContext(ctx).Exec(
		`UPDATE link_categories SET
			name = ?, group_email = ?, email_subject = ?, email_body = ?, updated_at = ?
		 WHERE id = ?`,
		category.Name,
		category.GroupEmail,
		category.EmailSubject,
		category.EmailBody,
		category.UpdatedAt,
		category.ID,
	).Error
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM link_categories WHERE id = ?`, id).Error
}

func (r *repo) CountItems(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.LinkItem{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *repo) CreateItem(ctx context.Context, db *gorm.DB, item *domain.LinkItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO link_items (
			id, category_id, name, main_url, drive_url, email_subject, email_body, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.CategoryID,
		item.Name,
		item.MainURL,
		item.DriveURL,
		item.EmailSubject,
		item.EmailBody,
		item.CreatedAt,
		item.UpdatedAt,
	).Error
}

func (r *repo) FindItemByID(ctx context.Context, db *gorm.DB, id int64) (*domain.LinkItem, error) {
	var item domain.LinkItem
	err := db.WithContext(ctx).
		Model(&domain.LinkItem{}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, categoryID int64) ([]domain.LinkItem, error) {
	var items []domain.LinkItem
	err := db.WithContext(ctx).
		Model(&domain.LinkItem{}).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListItemsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.ResolvedItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var items []domain.LinkItem
	err := db.WithContext(ctx).
		Model(&domain.LinkItem{}).
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	categoryIDs := make([]snowflake.ID, 0, len(items))
	seen := make(map[snowflake.ID]bool, len(items))
	for _, item := range items {
		if !seen[item.CategoryID] {
			seen[item.CategoryID] = true
			categoryIDs = append(categoryIDs, item.CategoryID)
		}
	}

	var categories []domain.LinkCategory
	if len(categoryIDs) > 0 {
		err = db.WithContext(ctx).
			Model(&domain.LinkCategory{}).
			Where("id IN ?", categoryIDs).
			Find(&categories).Error
		if err != nil {
			return nil, err
		}
	}

	byID := make(map[snowflake.ID]domain.LinkItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	categoryByID := make(map[snowflake.ID]domain.LinkCategory, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	// Keep the caller's ordering, dropping unknown ids.
	resolved := make([]domain.ResolvedItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			continue
		}
		resolved = append(resolved, domain.ResolvedItem{
			Item:     item,
			Category: categoryByID[item.CategoryID],
		})
	}
	return resolved, nil
}

func (r *repo) UpdateItem(ctx context.Context, db *gorm.DB, item *domain.LinkItem) error {
	return db.WithContext(ctx).Exec(
		`UPDATE link_items SET
			category_id = ?, name = ?, main_url = ?, drive_url = ?,
			email_subject = ?, email_body = ?, updated_at = ?
		 WHERE id = ?`,
		item.CategoryID,
		item.Name,
		item.MainURL,
		item.DriveURL,
		item.EmailSubject,
		item.EmailBody,
		item.UpdatedAt,
		item.ID,
	).Error
}

func (r *repo) DeleteItem(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM link_items WHERE id = ?`, id).Error
}
