package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryResponse, error)
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	GetCategory(ctx context.Context, id string) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*CategoryResponse, error)
	UpdateCategoryTemplate(ctx context.Context, req CategoryTemplateRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateItem(ctx context.Context, req ItemRequest) (*ItemResponse, error)
	ListItems(ctx context.Context, categoryID string) ([]ItemResponse, error)
	UpdateItem(ctx context.Context, id string, req ItemRequest) (*ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error

	// ResolveItems joins items with their categories, keeping the order
	// the ids were supplied. Unknown ids are dropped.
	ResolveItems(ctx context.Context, ids []string) ([]ResolvedItem, error)
}

type CategoryRequest struct {
	Name       string  `json:"name"`
	GroupEmail *string `json:"group_email"`
}

type CategoryTemplateRequest struct {
	ID           string  `json:"id"`
	EmailSubject *string `json:"email_subject"`
	EmailBody    *string `json:"email_body"`
}

type ItemRequest struct {
	CategoryID   string  `json:"category_id"`
	Name         string  `json:"name"`
	MainURL      string  `json:"main_url"`
	DriveURL     *string `json:"drive_url"`
	EmailSubject *string `json:"email_subject"`
	EmailBody    *string `json:"email_body"`
}

type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	GroupEmail   *string   `json:"group_email,omitempty"`
	EmailSubject *string   `json:"email_subject,omitempty"`
	EmailBody    *string   `json:"email_body,omitempty"`
	ItemCount    int64     `json:"item_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ItemResponse struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id"`
	Name         string    `json:"name"`
	MainURL      string    `json:"main_url"`
	DriveURL     *string   `json:"drive_url,omitempty"`
	EmailSubject *string   `json:"email_subject,omitempty"`
	EmailBody    *string   `json:"email_body,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidURL        = errors.New("invalid_url")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidCategoryID = errors.New("invalid_category_id")
	ErrCategoryNotEmpty  = errors.New("category_not_empty")
	ErrNotFound          = errors.New("not_found")
)
