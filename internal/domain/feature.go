package domain

// Feature is a named amenity attached to listings many-to-many.
type Feature struct {
	ID   uint    `gorm:"column:id;primaryKey" json:"id"`
	Name string  `gorm:"column:name;size:128;not null;uniqueIndex" json:"name"`
	Icon *string `gorm:"column:icon" json:"icon"`
}

func (Feature) TableName() string {
	return "features"
}
