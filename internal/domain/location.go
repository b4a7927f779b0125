package domain

// Region is a top-level division (state/province). When UsesDistricts is true the region is
// subdivided into a fixed District list (the capital); otherwise into an open City list.
type Region struct {
	ID            uint    `gorm:"column:id;primaryKey" json:"id"`
	Name          string  `gorm:"column:name;not null;uniqueIndex" json:"name"`
	NameRu        *string `gorm:"column:name_ru" json:"name_ru"`
	NameEn        *string `gorm:"column:name_en" json:"name_en"`
	UsesDistricts bool    `gorm:"column:uses_districts;not null;default:false" json:"uses_districts"`
	SortOrder     int     `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (Region) TableName() string {
	return "states"
}

type District struct {
	ID      uint    `gorm:"column:id;primaryKey" json:"id"`
	StateID uint    `gorm:"column:state_id;not null;index" json:"state_id"`
	Name    string  `gorm:"column:name;not null" json:"name"`
	NameRu  *string `gorm:"column:name_ru" json:"name_ru"`
	NameEn  *string `gorm:"column:name_en" json:"name_en"`
}

func (District) TableName() string {
	return "districts"
}

type City struct {
	ID      uint    `gorm:"column:id;primaryKey" json:"id"`
	StateID uint    `gorm:"column:state_id;not null;index" json:"state_id"`
	Name    string  `gorm:"column:name;not null" json:"name"`
	NameRu  *string `gorm:"column:name_ru" json:"name_ru"`
	NameEn  *string `gorm:"column:name_en" json:"name_en"`
}

func (City) TableName() string {
	return "cities"
}
