package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// ClaimOldest sells the oldest unsold row of a product (FIFO).
	ClaimOldest(ctx context.Context, req ClaimRequest) (*Response, error)
	// ClaimByID sells one specific row, for flows where the operator
	// already picked the credential to hand out.
	ClaimByID(ctx context.Context, req ClaimRequest) (*Response, error)

	Add(ctx context.Context, req AddRequest) (*Response, error)
	BulkAdd(ctx context.Context, req BulkAddRequest) ([]Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Stats(ctx context.Context, productID string) (*StatsResponse, error)
	Delete(ctx context.Context, id string) error
}

type ClaimRequest struct {
	ProductID     string
	StockID       string
	TransactionID string
	BuyerEmail    string
}

type AddRequest struct {
	ProductID   string         `json:"product_id"`
	AccountData map[string]any `json:"account_data"`
}

type BulkAddRequest struct {
	ProductID string           `json:"product_id"`
	Rows      []map[string]any `json:"rows"`
}

type ListRequest struct {
	ProductID string
	Sold      *bool
	Page      int
	PageSize  int
}

type Response struct {
	ID            string         `json:"id"`
	ProductID     string         `json:"product_id"`
	AccountData   map[string]any `json:"account_data"`
	IsSold        bool           `json:"is_sold"`
	TransactionID *string        `json:"transaction_id,omitempty"`
	BuyerEmail    *string        `json:"buyer_email,omitempty"`
	SoldAt        *time.Time     `json:"sold_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type ListResponse struct {
	Items []Response `json:"items"`
	Total int64      `json:"total"`
}

type StatsResponse struct {
	ProductID string `json:"product_id"`
	Available int64  `json:"available"`
	Sold      int64  `json:"sold"`
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidProductID = errors.New("invalid_product_id")
	ErrInvalidData      = errors.New("invalid_account_data")
	ErrOutOfStock       = errors.New("out_of_stock")
	ErrStockUnavailable = errors.New("stock_unavailable")
	ErrRaceLost         = errors.New("stock_race_lost")
	ErrStockSold        = errors.New("stock_already_sold")
	ErrNotFound         = errors.New("not_found")
)
