package domain

// DefaultStatusID is the "available" status every unresolved reference falls back to.
const DefaultStatusID uint = 1

// DefaultStatusName is the display fallback for orphaned status references.
const DefaultStatusName = "available"

// Status is an admin-managed lifecycle state (available, sold, reserved, ...).
type Status struct {
	ID            uint    `gorm:"column:id;primaryKey" json:"id"`
	Name          string  `gorm:"column:name;size:64;not null;uniqueIndex" json:"name"`
	DisplayName   string  `gorm:"column:display_name;not null" json:"display_name"`
	DisplayNameHy *string `gorm:"column:display_name_hy" json:"display_name_hy"`
	Color         string  `gorm:"column:color;size:20;not null;default:'green'" json:"color"`
	IsActive      bool    `gorm:"column:is_active;not null;default:true" json:"is_active"`
	SortOrder     int     `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (Status) TableName() string {
	return "property_statuses"
}

// StatusColors are the color tags the admin UI knows how to render.
var StatusColors = []string{"green", "blue", "yellow", "orange", "red", "gray", "purple"}
