package location

import (
	"context"
	"testing"

	"realty-backend/internal/domain"
	"realty-backend/internal/infrastructure/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

func setupLocationTest(t *testing.T) (*Service, *gorm.DB) {
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&domain.Region{ID: 1, Name: "Yerevan", UsesDistricts: true}).Error)
	require.NoError(t, db.Create(&domain.Region{ID: 2, Name: "Shirak"}).Error)
	require.NoError(t, db.Create(&domain.District{ID: 5, StateID: 1, Name: "Kentron"}).Error)
	require.NoError(t, db.Create(&domain.City{ID: 12, StateID: 2, Name: "Gyumri"}).Error)
	require.NoError(t, db.Create(&domain.City{ID: 13, StateID: 3, Name: "Vanadzor"}).Error)
	return &Service{DB: db}, db
}

func TestResolveLocation_DistrictRegionDropsStrayCity(t *testing.T) {
	s, _ := setupLocationTest(t)
	loc, err := s.ResolveLocation(context.Background(), 1, Input{CityID: uintPtr(12), DistrictID: uintPtr(5)})
	require.NoError(t, err)
	assert.Nil(t, loc.CityID)
	require.NotNil(t, loc.DistrictID)
	assert.Equal(t, uint(5), *loc.DistrictID)
}

func TestResolveLocation_CityRegionDropsDistrict(t *testing.T) {
	s, _ := setupLocationTest(t)
	loc, err := s.ResolveLocation(context.Background(), 2, Input{CityID: uintPtr(12), DistrictID: uintPtr(5)})
	require.NoError(t, err)
	assert.Nil(t, loc.DistrictID)
	require.NotNil(t, loc.CityID)
	assert.Equal(t, uint(12), *loc.CityID)
}

func TestResolveLocation_NothingSelected(t *testing.T) {
	s, _ := setupLocationTest(t)
	loc, err := s.ResolveLocation(context.Background(), 1, Input{})
	require.NoError(t, err)
	assert.Nil(t, loc.CityID)
	assert.Nil(t, loc.DistrictID)
}

func TestResolveLocation_UnknownRegion(t *testing.T) {
	s, _ := setupLocationTest(t)
	_, err := s.ResolveLocation(context.Background(), 99, Input{})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Region", nf.Entity)
}

func TestResolve_RejectsCityFromAnotherRegion(t *testing.T) {
	s, _ := setupLocationTest(t)
	_, err := s.Resolve(context.Background(), 2, Input{CityID: uintPtr(13)})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "city_id", ve.Field)
}

func TestResolve_RequiresOneOfCityOrDistrict(t *testing.T) {
	s, _ := setupLocationTest(t)
	_, err := s.Resolve(context.Background(), 1, Input{CityID: uintPtr(12)})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "district_id", ve.Field)
}

func TestCreateCity(t *testing.T) {
	s, _ := setupLocationTest(t)
	ctx := context.Background()

	city, err := s.CreateCity(ctx, 2, "Artik")
	require.NoError(t, err)
	assert.Equal(t, uint(2), city.StateID)

	_, err = s.CreateCity(ctx, 2, "artik")
	var ce *domain.ConflictError
	assert.ErrorAs(t, err, &ce)

	_, err = s.CreateCity(ctx, 1, "Nowhere")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "Kentron, Yerevan", Display("Kentron", "Yerevan"))
	assert.Equal(t, "Shirak", Display("", "Shirak"))
	ru := "Ереван"
	assert.Equal(t, "Ереван", LocalizedName("Yerevan", &ru, nil, "ru"))
	assert.Equal(t, "Yerevan", LocalizedName("Yerevan", &ru, nil, "en"))
}
