package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"realty-backend/internal/domain"
	"realty-backend/internal/infrastructure/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUploader struct {
	failNames map[string]bool
	uploaded  []string
	deleted   []string
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, filename, folder string, t domain.MediaType) (*Stored, error) {
	if f.failNames[filename] {
		return nil, &domain.ExternalServiceError{Service: "media storage", Err: errors.New("timeout")}
	}
	_, _ = io.ReadAll(r)
	f.uploaded = append(f.uploaded, filename)
	id := fmt.Sprintf("file-%d", len(f.uploaded))
	return &Stored{StorageID: id, URL: "https://cdn.example/" + folder + "/" + filename}, nil
}

func (f *fakeUploader) Delete(_ context.Context, storageID string) error {
	f.deleted = append(f.deleted, storageID)
	return nil
}

func opener(s string) Opener {
	return func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(s)), nil }
}

func setupMediaTest(t *testing.T, types ...domain.MediaType) (*Service, *gorm.DB, *fakeUploader, []uint) {
	db := dbtest.Open(t)
	up := &fakeUploader{failNames: map[string]bool{}}
	var ids []uint
	for i, mt := range types {
		m := domain.Media{PropertyID: 1, StorageID: fmt.Sprintf("s%d", i), URL: fmt.Sprintf("https://cdn.example/%d", i), Type: mt, DisplayOrder: i, IsPrimary: i == 0 && mt == domain.MediaImage}
		require.NoError(t, db.Create(&m).Error)
		ids = append(ids, m.ID)
	}
	return &Service{DB: db, Uploader: up, Limits: DefaultLimits(), Folder: "listings"}, db, up, ids
}

func assertSinglePrimary(t *testing.T, rows []domain.Media) {
	t.Helper()
	firstImage := -1
	n := 0
	for i, m := range rows {
		assert.Equal(t, i, m.DisplayOrder)
		if m.Type == domain.MediaImage && firstImage < 0 {
			firstImage = i
		}
		if m.IsPrimary {
			n++
			assert.Equal(t, firstImage, i)
		}
	}
	if firstImage >= 0 {
		assert.Equal(t, 1, n)
	} else {
		assert.Zero(t, n)
	}
}

func TestDelete_PrimaryPromotesNext(t *testing.T) {
	s, _, up, ids := setupMediaTest(t, domain.MediaImage, domain.MediaImage, domain.MediaImage)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, ids[0]))
	rows, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ids[1], rows[0].ID)
	assert.True(t, rows[0].IsPrimary)
	assertSinglePrimary(t, rows)
	assert.Equal(t, []string{"s0"}, up.deleted)

	require.NoError(t, s.Delete(ctx, ids[1]))
	require.NoError(t, s.Delete(ctx, ids[2]))
	rows, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	var nf *domain.NotFoundError
	assert.ErrorAs(t, s.Delete(ctx, ids[0]), &nf)
}

func TestDelete_LastImageLeavesNoPrimary(t *testing.T) {
	s, _, _, ids := setupMediaTest(t, domain.MediaImage, domain.MediaVideo)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, ids[0]))
	rows, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsPrimary)
}

func TestSetPrimaryPersisted(t *testing.T) {
	s, _, _, ids := setupMediaTest(t, domain.MediaImage, domain.MediaVideo, domain.MediaImage)
	ctx := context.Background()

	m, err := s.SetPrimary(ctx, ids[2])
	require.NoError(t, err)
	assert.True(t, m.IsPrimary)
	assert.Equal(t, 0, m.DisplayOrder)

	rows, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{ids[2], ids[0], ids[1]}, []uint{rows[0].ID, rows[1].ID, rows[2].ID})
	assertSinglePrimary(t, rows)

	var ve *domain.ValidationError
	_, err = s.SetPrimary(ctx, ids[1])
	assert.ErrorAs(t, err, &ve)
}

func TestReorderPersisted(t *testing.T) {
	s, _, _, ids := setupMediaTest(t, domain.MediaImage, domain.MediaImage, domain.MediaImage)
	ctx := context.Background()

	rows, err := s.Reorder(ctx, 1, []uint{ids[2], ids[0], ids[1]})
	require.NoError(t, err)
	assert.Equal(t, ids[2], rows[0].ID)
	assert.True(t, rows[0].IsPrimary)
	assertSinglePrimary(t, rows)

	var ve *domain.ValidationError
	_, err = s.Reorder(ctx, 1, []uint{ids[0], ids[0], ids[1]})
	assert.ErrorAs(t, err, &ve)
	_, err = s.Reorder(ctx, 1, []uint{ids[0]})
	assert.ErrorAs(t, err, &ve)
}

func TestApplyPlan_SkipsFailedUploads(t *testing.T) {
	s, db, up, ids := setupMediaTest(t, domain.MediaImage, domain.MediaImage)
	ctx := context.Background()
	up.failNames["broken.jpg"] = true

	rows, err := s.List(ctx, 1)
	require.NoError(t, err)
	g := NewGallery(rows, s.Limits)
	require.NoError(t, g.RemoveID(ids[0]))
	require.NoError(t, g.Append(
		PendingFile{Handle: 0, Filename: "broken.jpg", Type: domain.MediaImage, Size: 10},
		PendingFile{Handle: 1, Filename: "garden.jpg", Type: domain.MediaImage, Size: 10},
	))
	require.NoError(t, g.SetPrimary(1))
	plan := g.Plan()

	stored := s.UploadPending(ctx, plan, map[int]Opener{0: opener("x"), 1: opener("y")})
	require.Len(t, stored, 1)

	var purge []string
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		purge, err = s.ApplyPlan(tx, 1, plan, stored)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s0"}, purge)

	rows, err = s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ids[1], rows[0].ID, "failed primary upload leaves the next image first")
	assert.Equal(t, "https://cdn.example/listings/garden.jpg", rows[1].URL)
	assertSinglePrimary(t, rows)
}

func TestApplyPlan_RollsBackOnUnknownMedia(t *testing.T) {
	s, db, _, ids := setupMediaTest(t, domain.MediaImage, domain.MediaImage)
	ctx := context.Background()

	plan := Plan{
		Delete:   []uint{ids[0]},
		Existing: []Placement{{ID: 999, DisplayOrder: 0, IsPrimary: true}},
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := s.ApplyPlan(tx, 1, plan, nil)
		return err
	})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)

	rows, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestForListings(t *testing.T) {
	s, db, _, _ := setupMediaTest(t, domain.MediaImage)
	require.NoError(t, db.Create(&domain.Media{PropertyID: 2, StorageID: "z", URL: "u", Type: domain.MediaVideo}).Error)

	got, err := s.ForListings(context.Background(), []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, got[1], 1)
	assert.Len(t, got[2], 1)
	assert.Empty(t, got[3])
}
