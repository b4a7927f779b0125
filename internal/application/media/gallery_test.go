package media

import (
	"testing"

	"realty-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id uint, t domain.MediaType, order int) domain.Media {
	return domain.Media{ID: id, Type: t, DisplayOrder: order, URL: "https://cdn.example/" + string(t)}
}

func ids(items []Item) []uint {
	out := make([]uint, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func primaries(items []Item) int {
	n := 0
	for _, it := range items {
		if it.IsPrimary {
			n++
		}
	}
	return n
}

func TestNormalizePrimary(t *testing.T) {
	items := NormalizePrimary([]Item{
		{ID: 1, Type: domain.MediaVideo, IsPrimary: true},
		{ID: 2, Type: domain.MediaImage},
		{ID: 3, Type: domain.MediaImage, IsPrimary: true},
	})
	assert.False(t, items[0].IsPrimary)
	assert.True(t, items[1].IsPrimary)
	assert.False(t, items[2].IsPrimary)

	videos := NormalizePrimary([]Item{{Type: domain.MediaVideo, IsPrimary: true}})
	assert.Zero(t, primaries(videos))
}

func TestReorder_MovesPrimary(t *testing.T) {
	g := NewGallery([]domain.Media{
		row(1, domain.MediaImage, 0), // A
		row(2, domain.MediaImage, 1), // B
		row(3, domain.MediaImage, 2), // C
	}, DefaultLimits())
	require.True(t, g.Items()[0].IsPrimary)

	require.NoError(t, g.Reorder(2, 0))
	items := g.Items()
	assert.Equal(t, []uint{3, 1, 2}, ids(items))
	assert.True(t, items[0].IsPrimary)
	assert.Equal(t, 1, primaries(items))

	plan := g.Plan()
	require.Len(t, plan.Existing, 3)
	assert.Equal(t, Placement{ID: 3, DisplayOrder: 0, IsPrimary: true}, plan.Existing[0])
	assert.Equal(t, Placement{ID: 2, DisplayOrder: 2, IsPrimary: false}, plan.Existing[2])
}

func TestRemove_PrimaryPromotesNextImage(t *testing.T) {
	g := NewGallery([]domain.Media{
		row(1, domain.MediaImage, 0),
		row(2, domain.MediaVideo, 1),
		row(3, domain.MediaImage, 2),
	}, DefaultLimits())

	require.NoError(t, g.Remove(0))
	items := g.Items()
	assert.False(t, items[0].IsPrimary)
	assert.True(t, items[1].IsPrimary)
	assert.Equal(t, []uint{1}, g.Plan().Delete)

	require.NoError(t, g.RemoveID(3))
	assert.Zero(t, primaries(g.Items()))
	assert.Equal(t, []uint{1, 3}, g.Plan().Delete)

	var nf *domain.NotFoundError
	assert.ErrorAs(t, g.RemoveID(42), &nf)
}

func TestAppend_LimitsAndPrimary(t *testing.T) {
	g := NewGallery(nil, DefaultLimits())
	require.NoError(t, g.Append(
		PendingFile{Handle: 0, Filename: "tour.mp4", Type: domain.MediaVideo, Size: 50 << 20},
		PendingFile{Handle: 1, Filename: "front.jpg", Type: domain.MediaImage, Size: 2 << 20},
	))
	items := g.Items()
	assert.False(t, items[0].IsPrimary)
	assert.True(t, items[1].IsPrimary)

	var ve *domain.ValidationError
	assert.ErrorAs(t, g.Append(PendingFile{Filename: "huge.jpg", Type: domain.MediaImage, Size: 21 << 20}), &ve)
	assert.ErrorAs(t, g.Append(PendingFile{Filename: "doc.pdf", Type: "document", Size: 1}), &ve)
	assert.Equal(t, 2, g.Len(), "rejected batches are not appended")
}

func TestPendingRemoveHasNoSideEffect(t *testing.T) {
	g := NewGallery([]domain.Media{row(1, domain.MediaImage, 0)}, DefaultLimits())
	require.NoError(t, g.Append(PendingFile{Handle: 0, Filename: "a.jpg", Type: domain.MediaImage, Size: 1}))
	require.NoError(t, g.Remove(1))
	assert.Empty(t, g.Plan().Delete)
	assert.Empty(t, g.Plan().New)
}

func TestSetPrimary(t *testing.T) {
	g := NewGallery([]domain.Media{
		row(1, domain.MediaImage, 0),
		row(2, domain.MediaVideo, 1),
	}, DefaultLimits())
	require.NoError(t, g.Append(PendingFile{Handle: 0, Filename: "b.jpg", Type: domain.MediaImage, Size: 1}))

	var ve *domain.ValidationError
	assert.ErrorAs(t, g.SetPrimary(1), &ve)
	assert.ErrorAs(t, g.SetPrimary(7), &ve)

	require.NoError(t, g.SetPrimary(2))
	plan := g.Plan()
	require.Len(t, plan.New, 1)
	assert.Equal(t, NewPlacement{Handle: 0, Filename: "b.jpg", Type: domain.MediaImage, DisplayOrder: 0, IsPrimary: true}, plan.New[0])
	assert.Equal(t, Placement{ID: 1, DisplayOrder: 1, IsPrimary: false}, plan.Existing[0])
}

func TestVideoThumbnailURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example/v.mp4/ik-thumbnail.jpg?tr=w-480", VideoThumbnailURL("https://cdn.example/v.mp4"))
	assert.Equal(t, "https://cdn.example/v.mp4/ik-thumbnail.jpg?tr=w-480&v=2", VideoThumbnailURL("https://cdn.example/v.mp4?v=2"))
}
