package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// HistoryRecord is one append-only fulfillment audit row. It never
// participates in the sale itself.
type HistoryRecord struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	BuyerEmail  string       `gorm:"column:buyer_email;type:text;not null;index"`
	ProductName string       `gorm:"column:product_name;type:text;not null"`
	ProductCode string       `gorm:"column:product_code;type:text"`
	GeneratedID string       `gorm:"column:generated_id;type:text;not null"`
	Status      Status       `gorm:"type:text;not null"`
	Message     *string      `gorm:"type:text"`

	RawData datatypes.JSONMap `gorm:"column:raw_data;type:jsonb"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (HistoryRecord) TableName() string { return "history" }
