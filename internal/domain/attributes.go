package domain

// Attributes is the type-specific detail record attached 1:1 to a listing.
// Implemented by HouseAttributes, ApartmentAttributes, CommercialAttributes and LandAttributes only.
type Attributes interface {
	PropertyType() PropertyType
	ListingID() uint
	SetPropertyID(id uint)
	isAttributes()
}

type HouseAttributes struct {
	PropertyID    uint     `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"-"`
	Bedrooms      int      `gorm:"column:bedrooms;not null" json:"bedrooms"`
	Bathrooms     int      `gorm:"column:bathrooms;not null" json:"bathrooms"`
	AreaSqm       float64  `gorm:"column:area_sqm;not null" json:"area_sqm"`
	LotSizeSqm    *float64 `gorm:"column:lot_size_sqm" json:"lot_size_sqm"`
	Floors        *int     `gorm:"column:floors" json:"floors"`
	CeilingHeight *float64 `gorm:"column:ceiling_height" json:"ceiling_height"`
}

func (HouseAttributes) TableName() string { return "house_attributes" }

type ApartmentAttributes struct {
	PropertyID    uint     `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"-"`
	Bedrooms      int      `gorm:"column:bedrooms;not null" json:"bedrooms"`
	Bathrooms     int      `gorm:"column:bathrooms;not null" json:"bathrooms"`
	AreaSqm       float64  `gorm:"column:area_sqm;not null" json:"area_sqm"`
	Floor         int      `gorm:"column:floor;not null" json:"floor"`
	TotalFloors   int      `gorm:"column:total_floors;not null" json:"total_floors"`
	CeilingHeight *float64 `gorm:"column:ceiling_height" json:"ceiling_height"`
}

func (ApartmentAttributes) TableName() string { return "apartment_attributes" }

type CommercialAttributes struct {
	PropertyID    uint     `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"-"`
	BusinessType  string   `gorm:"column:business_type;not null" json:"business_type"`
	AreaSqm       float64  `gorm:"column:area_sqm;not null" json:"area_sqm"`
	Floors        *int     `gorm:"column:floors" json:"floors"`
	CeilingHeight *float64 `gorm:"column:ceiling_height" json:"ceiling_height"`
}

func (CommercialAttributes) TableName() string { return "commercial_attributes" }

type LandAttributes struct {
	PropertyID uint    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"-"`
	AreaAcres  float64 `gorm:"column:area_acres;not null" json:"area_acres"`
}

func (LandAttributes) TableName() string { return "land_attributes" }

func (*HouseAttributes) PropertyType() PropertyType      { return PropertyHouse }
func (*ApartmentAttributes) PropertyType() PropertyType  { return PropertyApartment }
func (*CommercialAttributes) PropertyType() PropertyType { return PropertyCommercial }
func (*LandAttributes) PropertyType() PropertyType       { return PropertyLand }

func (a *HouseAttributes) SetPropertyID(id uint)      { a.PropertyID = id }
func (a *ApartmentAttributes) SetPropertyID(id uint)  { a.PropertyID = id }
func (a *CommercialAttributes) SetPropertyID(id uint) { a.PropertyID = id }
func (a *LandAttributes) SetPropertyID(id uint)       { a.PropertyID = id }

func (a *HouseAttributes) ListingID() uint      { return a.PropertyID }
func (a *ApartmentAttributes) ListingID() uint  { return a.PropertyID }
func (a *CommercialAttributes) ListingID() uint { return a.PropertyID }
func (a *LandAttributes) ListingID() uint       { return a.PropertyID }

func (*HouseAttributes) isAttributes()      {}
func (*ApartmentAttributes) isAttributes()  {}
func (*CommercialAttributes) isAttributes() {}
func (*LandAttributes) isAttributes()       {}

// AttributeModels returns one zero value per variant table (migrations, cross-table deletes).
func AttributeModels() []interface{} {
	return []interface{}{
		&HouseAttributes{},
		&ApartmentAttributes{},
		&CommercialAttributes{},
		&LandAttributes{},
	}
}
