package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyType selects which attribute variant a listing carries.
type PropertyType string

const (
	PropertyHouse      PropertyType = "house"
	PropertyApartment  PropertyType = "apartment"
	PropertyCommercial PropertyType = "commercial"
	PropertyLand       PropertyType = "land"
)

// PropertyTypes lists every supported property type in display order.
var PropertyTypes = []PropertyType{PropertyHouse, PropertyApartment, PropertyCommercial, PropertyLand}

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyHouse, PropertyApartment, PropertyCommercial, PropertyLand:
		return true
	}
	return false
}

// HasRooms reports whether the type records bedrooms/bathrooms.
func (t PropertyType) HasRooms() bool {
	return t == PropertyHouse || t == PropertyApartment
}

type ListingType string

const (
	ListingSale      ListingType = "sale"
	ListingRent      ListingType = "rent"
	ListingDailyRent ListingType = "daily_rent"
)

func (t ListingType) Valid() bool {
	switch t {
	case ListingSale, ListingRent, ListingDailyRent:
		return true
	}
	return false
}

type TranslationStatus string

const (
	TranslationPending     TranslationStatus = "pending"
	TranslationTranslating TranslationStatus = "translating"
	TranslationCompleted   TranslationStatus = "completed"
	TranslationFailed      TranslationStatus = "failed"
)

// Listing is a single property advertisement. Exactly one of CityID / DistrictID is set,
// depending on the region's UsesDistricts flag.
type Listing struct {
	ID                uint              `gorm:"column:id;primaryKey" json:"id"`
	CustomID          string            `gorm:"column:custom_id;size:64;not null;uniqueIndex" json:"custom_id"`
	PropertyType      PropertyType      `gorm:"column:property_type;size:20;not null;index" json:"property_type"`
	ListingType       ListingType       `gorm:"column:listing_type;size:20;not null;index" json:"listing_type"`
	Price             decimal.Decimal   `gorm:"column:price;type:decimal(14,2);not null" json:"price"`
	Currency          string            `gorm:"column:currency;size:3;not null;default:'USD'" json:"currency"`
	Title             string            `gorm:"column:title;not null" json:"title"`
	Description       string            `gorm:"column:description;type:text" json:"description"`
	TitleRu           *string           `gorm:"column:title_ru" json:"title_ru"`
	TitleEn           *string           `gorm:"column:title_en" json:"title_en"`
	DescriptionRu     *string           `gorm:"column:description_ru;type:text" json:"description_ru"`
	DescriptionEn     *string           `gorm:"column:description_en;type:text" json:"description_en"`
	TranslationStatus TranslationStatus `gorm:"column:translation_status;size:20;not null;default:'pending'" json:"translation_status"`
	LastTranslatedAt  *time.Time        `gorm:"column:last_translated_at" json:"last_translated_at"`
	StateID           uint              `gorm:"column:state_id;not null;index" json:"state_id"`
	CityID            *uint             `gorm:"column:city_id;index" json:"city_id"`
	DistrictID        *uint             `gorm:"column:district_id;index" json:"district_id"`
	Address           string            `gorm:"column:address" json:"address"`
	Latitude          *float64          `gorm:"column:latitude" json:"latitude"`
	Longitude         *float64          `gorm:"column:longitude" json:"longitude"`
	Geohash           *string           `gorm:"column:geohash;size:12;index" json:"geohash"`
	AddressAdmin      *string           `gorm:"column:address_admin" json:"address_admin,omitempty"`
	IsHidden          bool              `gorm:"column:is_hidden;not null;default:false" json:"is_hidden"`
	IsExclusive       bool              `gorm:"column:is_exclusive;not null;default:false" json:"is_exclusive"`
	IsFeatured        bool              `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	HasViber          bool              `gorm:"column:has_viber;not null;default:false" json:"has_viber"`
	HasWhatsapp       bool              `gorm:"column:has_whatsapp;not null;default:false" json:"has_whatsapp"`
	HasTelegram       bool              `gorm:"column:has_telegram;not null;default:false" json:"has_telegram"`
	OwnerName         string            `gorm:"column:owner_name" json:"owner_name,omitempty"`
	OwnerPhone        string            `gorm:"column:owner_phone" json:"owner_phone,omitempty"`
	StatusID          uint              `gorm:"column:status_id;not null;default:1;index" json:"status_id"`
	ViewCount         int64             `gorm:"column:views;not null;default:0" json:"views"`
	CreatedAt         time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Listing) TableName() string {
	return "properties"
}

// ListingFeature is the edge between a listing and a feature.
type ListingFeature struct {
	PropertyID uint `gorm:"column:property_id;primaryKey;autoIncrement:false"`
	FeatureID  uint `gorm:"column:feature_id;primaryKey;autoIncrement:false;index"`
}

func (ListingFeature) TableName() string {
	return "property_features"
}

// ListingView records one counted public view.
type ListingView struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	PropertyID uint      `gorm:"column:property_id;not null;index" json:"property_id"`
	ViewerKey  string    `gorm:"column:viewer_key;size:128" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ListingView) TableName() string {
	return "property_views"
}

// Favorite marks a listing saved by an anonymous visitor.
type Favorite struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	PropertyID uint      `gorm:"column:property_id;not null;uniqueIndex:idx_favorite_visitor" json:"property_id"`
	VisitorKey string    `gorm:"column:visitor_key;size:128;not null;uniqueIndex:idx_favorite_visitor" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
