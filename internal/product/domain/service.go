package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type ListRequest struct {
	Name string
	Type *ProductType
}

type CreateRequest struct {
	Name          string         `json:"name"`
	ProductCode   string         `json:"product_code"`
	ProductType   ProductType    `json:"product_type"`
	GroupEmail    *string        `json:"group_email"`
	PrefixCode    *string        `json:"prefix_code"`
	Role          string         `json:"role"`
	AccountConfig *AccountConfig `json:"account_config"`
	TemplateURL   *string        `json:"template_url"`
}

type UpdateRequest struct {
	ID            string         `json:"id"`
	Name          *string        `json:"name,omitempty"`
	GroupEmail    *string        `json:"group_email,omitempty"`
	PrefixCode    *string        `json:"prefix_code,omitempty"`
	Role          *string        `json:"role,omitempty"`
	AccountConfig *AccountConfig `json:"account_config,omitempty"`
	TemplateURL   *string        `json:"template_url,omitempty"`
}

type UpdateTemplateRequest struct {
	ID           string  `json:"id"`
	EmailSubject *string `json:"email_subject"`
	EmailBody    *string `json:"email_body"`
}

type Response struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ProductCode   string         `json:"product_code"`
	ProductType   ProductType    `json:"product_type"`
	GroupEmail    *string        `json:"group_email,omitempty"`
	PrefixCode    *string        `json:"prefix_code,omitempty"`
	Role          string         `json:"role"`
	AccountConfig *AccountConfig `json:"account_config,omitempty"`
	EmailSubject  *string        `json:"email_subject,omitempty"`
	EmailBody     *string        `json:"email_body,omitempty"`
	TemplateURL   *string        `json:"template_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidCode   = errors.New("invalid_product_code")
	ErrInvalidType   = errors.New("invalid_product_type")
	ErrInvalidConfig = errors.New("invalid_account_config")
	ErrInvalidID     = errors.New("invalid_id")
	ErrCodeExists    = errors.New("product_code_exists")
	ErrNotFound      = errors.New("not_found")
)
