package attributes

import (
	"context"
	"testing"

	"realty-backend/internal/domain"
	"realty-backend/internal/infrastructure/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_House(t *testing.T) {
	attrs, err := Build(domain.PropertyHouse, map[string]string{
		"bedrooms":       "4",
		"bathrooms":      "2",
		"area":           "180.5",
		"lot_size":       "",
		"ceiling_height": "3,1",
	})
	require.NoError(t, err)
	house, ok := attrs.(*domain.HouseAttributes)
	require.True(t, ok)
	assert.Equal(t, 4, house.Bedrooms)
	assert.Equal(t, 180.5, house.AreaSqm)
	assert.Nil(t, house.LotSizeSqm)
	assert.Nil(t, house.Floors)
	require.NotNil(t, house.CeilingHeight)
	assert.Equal(t, 3.1, *house.CeilingHeight)
}

func TestBuild_MissingRequiredField(t *testing.T) {
	_, err := Build(domain.PropertyHouse, map[string]string{"bathrooms": "1", "area": "90"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bedrooms", ve.Field)
}

func TestBuild_NonNumeric(t *testing.T) {
	_, err := Build(domain.PropertyApartment, map[string]string{
		"bedrooms": "2", "bathrooms": "1", "area": "big", "floor": "3", "total_floors": "9",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "area", ve.Field)

	for _, raw := range []string{"NaN", "Inf", "+Inf", "-inf"} {
		_, err := Build(domain.PropertyLand, map[string]string{"area_acres": raw})
		require.ErrorAs(t, err, &ve, raw)
		assert.Equal(t, "area_acres", ve.Field)
		assert.Contains(t, ve.Error(), "must be a number")
	}
}

func TestBuild_BathroomSanityBound(t *testing.T) {
	_, err := Build(domain.PropertyApartment, map[string]string{
		"bedrooms": "2", "bathrooms": "100", "area": "70", "floor": "3", "total_floors": "9",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bathrooms", ve.Field)

	_, err = Build(domain.PropertyApartment, map[string]string{
		"bedrooms": "2", "bathrooms": "99", "area": "70", "floor": "3", "total_floors": "9",
	})
	assert.NoError(t, err)
}

func TestBuild_CommercialAndLand(t *testing.T) {
	attrs, err := Build(domain.PropertyCommercial, map[string]string{"business_type": "office", "area": "55"})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyCommercial, attrs.PropertyType())
	_, hasRooms := Bedrooms(attrs)
	assert.False(t, hasRooms)

	attrs, err = Build(domain.PropertyLand, map[string]string{"area_acres": "12"})
	require.NoError(t, err)
	assert.Equal(t, 12.0, attrs.(*domain.LandAttributes).AreaAcres)
}

func TestBuild_UnknownType(t *testing.T) {
	_, err := Build("castle", map[string]string{})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "property_type", ve.Field)
}

func TestReplace_ClearsOtherVariantTables(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	house, err := Build(domain.PropertyHouse, map[string]string{"bedrooms": "3", "bathrooms": "1", "area": "120"})
	require.NoError(t, err)
	require.NoError(t, Replace(db, 7, house))

	land, err := Build(domain.PropertyLand, map[string]string{"area_acres": "4"})
	require.NoError(t, err)
	require.NoError(t, Replace(db, 7, land))

	var houses int64
	require.NoError(t, db.Model(&domain.HouseAttributes{}).Where("property_id = ?", 7).Count(&houses).Error)
	assert.Zero(t, houses)

	got, err := Load(ctx, db, 7, domain.PropertyLand)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(7), got.ListingID())

	many, err := LoadMany(ctx, db, map[domain.PropertyType][]uint{
		domain.PropertyLand:  {7},
		domain.PropertyHouse: {7},
	})
	require.NoError(t, err)
	assert.Len(t, many, 1)
	assert.IsType(t, &domain.LandAttributes{}, many[7])
}
