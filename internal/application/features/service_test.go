package features

import (
	"context"
	"testing"

	"realty-backend/internal/domain"
	"realty-backend/internal/infrastructure/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFeatureTest(t *testing.T) (*Service, *gorm.DB) {
	db := dbtest.Open(t)
	return &Service{DB: db}, db
}

func TestCreateAndList(t *testing.T) {
	s, _ := setupFeatureTest(t)
	ctx := context.Background()

	_, err := s.Create(ctx, FeatureInput{Name: "Parking"})
	require.NoError(t, err)
	_, err = s.Create(ctx, FeatureInput{Name: " Balcony "})
	require.NoError(t, err)

	_, err = s.Create(ctx, FeatureInput{Name: "parking"})
	var ce *domain.ConflictError
	assert.ErrorAs(t, err, &ce)

	_, err = s.Create(ctx, FeatureInput{Name: "  "})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Balcony", list[0].Name)
}

func TestReplaceAndForListings(t *testing.T) {
	s, db := setupFeatureTest(t)
	ctx := context.Background()
	a, err := s.Create(ctx, FeatureInput{Name: "Parking"})
	require.NoError(t, err)
	b, err := s.Create(ctx, FeatureInput{Name: "Elevator"})
	require.NoError(t, err)

	require.NoError(t, Replace(db, 1, []uint{a.ID, b.ID, a.ID}))
	require.NoError(t, Replace(db, 2, []uint{b.ID}))
	require.NoError(t, Replace(db, 2, nil))

	got, err := s.ForListings(ctx, []uint{1, 2})
	require.NoError(t, err)
	require.Len(t, got[1], 2)
	assert.Equal(t, "Elevator", got[1][0].Name)
	assert.Empty(t, got[2])

	assert.NoError(t, s.CheckExist(ctx, db, []uint{a.ID, b.ID}))
	var ve *domain.ValidationError
	assert.ErrorAs(t, s.CheckExist(ctx, db, []uint{a.ID, 404}), &ve)
}

func TestDeleteDetaches(t *testing.T) {
	s, db := setupFeatureTest(t)
	ctx := context.Background()
	a, err := s.Create(ctx, FeatureInput{Name: "Pool"})
	require.NoError(t, err)
	require.NoError(t, Replace(db, 1, []uint{a.ID}))

	require.NoError(t, s.Delete(ctx, a.ID))
	var n int64
	db.Model(&domain.ListingFeature{}).Count(&n)
	assert.Zero(t, n)

	var nf *domain.NotFoundError
	assert.ErrorAs(t, s.Delete(ctx, a.ID), &nf)
}
