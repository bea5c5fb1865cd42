package model

import "time"

// PropertyImage represents an image attached to a listing. At most one image
// per property carries IsPrimary at any time.
type PropertyImage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PropertyID uint      `json:"property_id" gorm:"not null;index"`
	URL        string    `json:"url" gorm:"size:500;not null"`
	IsPrimary  bool      `json:"is_primary" gorm:"not null;default:false"`
	SortOrder  int       `json:"sort_order" gorm:"not null;default:0;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for PropertyImage.
func (PropertyImage) TableName() string {
	return "property_images"
}
