package models

import "time"

// Resource is a bookable unit. Rows are owned by the admin surface; the
// booking engine only reads them.
type Resource struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Price       float64   `gorm:"not null" json:"price"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Status      int       `gorm:"default:1" json:"status"`
	Created     time.Time `gorm:"autoCreateTime" json:"created"`
	Updated     time.Time `gorm:"autoUpdateTime" json:"updated"`
}

// Image is an uploaded photo attached to a resource. The file itself lives
// at <upload base>/<resource id>/<filename>.
type Image struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ResourceID uint      `gorm:"index;not null" json:"resource_id"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	Created    time.Time `gorm:"autoCreateTime" json:"created"`

	Resource *Resource `json:"resource,omitempty"`
}

// ResourceEnabled is the status value under which a resource is listed to users.
const ResourceEnabled = 1
