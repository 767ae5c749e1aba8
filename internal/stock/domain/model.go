package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AccountStock is one sellable credential row. A row is claimed at most
// once: the sale marks is_sold and stamps the owning transaction.
type AccountStock struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	ProductID snowflake.ID `gorm:"column:product_id;not null;index:ix_account_stocks_available,priority:1"`

	AccountData datatypes.JSONMap `gorm:"column:account_data;type:jsonb;not null"`

	IsSold        bool       `gorm:"column:is_sold;not null;default:false;index:ix_account_stocks_available,priority:2"`
	TransactionID *string    `gorm:"column:transaction_id;type:text;uniqueIndex:ux_account_stocks_transaction"`
	BuyerEmail    *string    `gorm:"column:buyer_email;type:text"`
	SoldAt        *time.Time `gorm:"column:sold_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_account_stocks_available,priority:3"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AccountStock) TableName() string { return "account_stocks" }
