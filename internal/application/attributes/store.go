package attributes

import (
	"context"
	"errors"

	"realty-backend/internal/domain"

	"gorm.io/gorm"
)

// Replace discards whatever variant rows the listing has, in all four tables, and inserts attrs.
// Must run inside the caller's transaction.
func Replace(tx *gorm.DB, listingID uint, attrs domain.Attributes) error {
	for _, model := range domain.AttributeModels() {
		if err := tx.Where("property_id = ?", listingID).Delete(model).Error; err != nil {
			return err
		}
	}
	attrs.SetPropertyID(listingID)
	return tx.Create(attrs).Error
}

// DeleteAll removes every variant row for the listing.
func DeleteAll(tx *gorm.DB, listingID uint) error {
	for _, model := range domain.AttributeModels() {
		if err := tx.Where("property_id = ?", listingID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Load reads the variant matching propertyType; a missing row yields (nil, nil).
func Load(ctx context.Context, db *gorm.DB, listingID uint, propertyType domain.PropertyType) (domain.Attributes, error) {
	attrs := newVariant(propertyType)
	if attrs == nil {
		return nil, nil
	}
	err := db.WithContext(ctx).Where("property_id = ?", listingID).First(attrs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

// LoadMany reads variants for a page of listings; each id is looked up only in its own type's table.
func LoadMany(ctx context.Context, db *gorm.DB, idsByType map[domain.PropertyType][]uint) (map[uint]domain.Attributes, error) {
	out := make(map[uint]domain.Attributes)
	db = db.WithContext(ctx)
	for propertyType, ids := range idsByType {
		if len(ids) == 0 {
			continue
		}
		var err error
		switch propertyType {
		case domain.PropertyHouse:
			err = loadVariant[domain.HouseAttributes](db, ids, out)
		case domain.PropertyApartment:
			err = loadVariant[domain.ApartmentAttributes](db, ids, out)
		case domain.PropertyCommercial:
			err = loadVariant[domain.CommercialAttributes](db, ids, out)
		case domain.PropertyLand:
			err = loadVariant[domain.LandAttributes](db, ids, out)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func loadVariant[T any, PT interface {
	*T
	domain.Attributes
}](db *gorm.DB, ids []uint, out map[uint]domain.Attributes) error {
	var rows []T
	if err := db.Where("property_id IN ?", ids).Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		attrs := PT(&rows[i])
		out[attrs.ListingID()] = attrs
	}
	return nil
}

func newVariant(propertyType domain.PropertyType) domain.Attributes {
	switch propertyType {
	case domain.PropertyHouse:
		return &domain.HouseAttributes{}
	case domain.PropertyApartment:
		return &domain.ApartmentAttributes{}
	case domain.PropertyCommercial:
		return &domain.CommercialAttributes{}
	case domain.PropertyLand:
		return &domain.LandAttributes{}
	}
	return nil
}
