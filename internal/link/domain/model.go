package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type LinkCategory struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`

	GroupEmail   *string `gorm:"type:text"`
	EmailSubject *string `gorm:"type:text"`
	EmailBody    *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (LinkCategory) TableName() string { return "link_categories" }

type LinkItem struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	CategoryID snowflake.ID `gorm:"column:category_id;not null;index"`
	Name       string       `gorm:"type:text;not null"`

	MainURL  string  `gorm:"column:main_url;type:text;not null"`
	DriveURL *string `gorm:"column:drive_url;type:text"`

	EmailSubject *string `gorm:"type:text"`
	EmailBody    *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (LinkItem) TableName() string { return "link_items" }

// ResolvedItem is a link item joined with its category, in the order the
// ids were requested.
type ResolvedItem struct {
	Item     LinkItem
	Category LinkCategory
}
