package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Record appends one audit row. Callers treat failures as
	// non-fatal: a committed sale stands even when its audit row is
	// lost.
	Record(ctx context.Context, req RecordRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Delete(ctx context.Context, id string) error
}

type RecordRequest struct {
	BuyerEmail  string
	ProductName string
	ProductCode string
	GeneratedID string
	Status      Status
	Message     string
	RawData     map[string]any
}

type ListRequest struct {
	BuyerEmail string
	Page       int
	PageSize   int
}

type Response struct {
	ID          string         `json:"id"`
	BuyerEmail  string         `json:"buyer_email"`
	ProductName string         `json:"product_name"`
	ProductCode string         `json:"product_code,omitempty"`
	GeneratedID string         `json:"generated_id"`
	Status      Status         `json:"status"`
	Message     *string        `json:"message,omitempty"`
	RawData     map[string]any `json:"raw_data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ListResponse struct {
	Items []Response `json:"items"`
	Total int64      `json:"total"`
}

var (
	ErrInvalidEntry = errors.New("invalid_entry")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
