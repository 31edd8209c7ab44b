package model

import "time"

// TagView counts how often a user has viewed products carrying a tag.
type TagView struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tag_views_user_tag" json:"user_id"`
	TagID     uint      `gorm:"not null;uniqueIndex:idx_tag_views_user_tag;index" json:"tag_id"`
	ViewCount int64     `gorm:"not null;default:0" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tag Tag `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tag,omitempty"`
}

func (TagView) TableName() string {
	return "tag_views"
}

// TagViewTotal is the aggregated view count of a tag across all users.
type TagViewTotal struct {
	TagID      uint   `json:"tag_id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	TotalViews int64  `json:"total_views"`
}
