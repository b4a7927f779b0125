package domain

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (t MediaType) Valid() bool {
	return t == MediaImage || t == MediaVideo
}

// Media belongs to one listing. DisplayOrder is dense and zero-based per listing; if the
// listing has any image, exactly one image has IsPrimary set.
type Media struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	PropertyID   uint      `gorm:"column:property_id;not null;index" json:"property_id"`
	StorageID    string    `gorm:"column:storage_id;not null" json:"storage_id"`
	URL          string    `gorm:"column:url;not null" json:"url"`
	ThumbnailURL *string   `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	Type         MediaType `gorm:"column:type;size:10;not null;default:'image'" json:"type"`
	IsPrimary    bool      `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Media) TableName() string {
	return "property_media"
}
