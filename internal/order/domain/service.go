package domain

import (
	"context"
	"errors"
)

type Service interface {
	// FulfillAccount sells one credential row: FIFO when StockID is
	// empty, the exact row otherwise.
	FulfillAccount(ctx context.Context, req AccountRequest) (*AccountResponse, error)
	// FulfillManual adds the buyer to each product's workspace group.
	FulfillManual(ctx context.Context, req ManualRequest) (*ManualResponse, error)
	// FulfillLink groups the purchased items per category and sends one
	// bundled notification per category.
	FulfillLink(ctx context.Context, req LinkRequest) (*LinkResponse, error)
}

type AccountRequest struct {
	ProductID  string `json:"product_id"`
	BuyerEmail string `json:"buyer_email"`
	StockID    string `json:"stock_id,omitempty"`
}

type AccountResponse struct {
	TransactionID string            `json:"transaction_id"`
	ProductName   string            `json:"product_name"`
	CopyText      string            `json:"copy_text"`
	AccountData   map[string]string `json:"account_data"`
}

type ManualRequest struct {
	BuyerEmail string   `json:"buyer_email"`
	ProductIDs []string `json:"product_ids"`
}

type ManualItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Status      string `json:"status"`
}

type ManualResponse struct {
	TransactionID string       `json:"transaction_id"`
	Items         []ManualItem `json:"items"`
}

type LinkRequest struct {
	BuyerEmail string   `json:"buyer_email"`
	ItemIDs    []string `json:"item_ids"`
}

type LinkMessage struct {
	Category  string `json:"category"`
	ItemCount int    `json:"item_count"`
}

type LinkResponse struct {
	TransactionID string        `json:"transaction_id"`
	Messages      []LinkMessage `json:"messages"`
}

var (
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrProductNotFound  = errors.New("product_not_found")
	ErrOutOfStock       = errors.New("out_of_stock")
	ErrStockUnavailable = errors.New("stock_unavailable")
	ErrInternal         = errors.New("internal_error")
)
