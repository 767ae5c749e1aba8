package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ProductType string

const (
	ProductTypeManual  ProductType = "manual"
	ProductTypeLink    ProductType = "link"
	ProductTypeAccount ProductType = "account"
)

type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindPassword FieldKind = "password"
	FieldKindDate     FieldKind = "date"
	FieldKindNumber   FieldKind = "number"
)

// AccountField describes one credential column of a stock-based product.
type AccountField struct {
	Name string    `json:"name"`
	Type FieldKind `json:"type"`
}

// UnmarshalJSON accepts both the current object form and the legacy plain
// string form ("Email" means a text field named Email).
func (f *AccountField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		f.Name = name
		f.Type = FieldKindText
		return nil
	}

	type alias AccountField
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*f = AccountField(decoded)
	if f.Type == "" {
		f.Type = FieldKindText
	}
	return nil
}

// AccountConfig is the per-product credential layout plus the notification
// template used for account orders.
type AccountConfig struct {
	Fields   []AccountField `json:"fields"`
	Template string         `json:"template"`
}

type Product struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null"`
	ProductCode string       `gorm:"column:product_code;type:text;not null;uniqueIndex:ux_products_code"`
	Type        ProductType  `gorm:"column:product_type;type:text;not null;default:manual"`

	GroupEmail *string `gorm:"type:text"`
	PrefixCode *string `gorm:"type:text"`
	Role       string  `gorm:"type:text;not null;default:MEMBER"`

	AccountConfig datatypes.JSONType[AccountConfig] `gorm:"column:account_config;type:jsonb"`

	EmailSubject *string `gorm:"type:text"`
	EmailBody    *string `gorm:"type:text"`
	TemplateURL  *string `gorm:"column:template_url;type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// Fields returns the normalized credential layout for account products.
func (p *Product) Fields() []AccountField {
	return p.AccountConfig.Data().Fields
}
