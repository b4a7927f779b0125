package media

import (
	"fmt"
	"sort"

	"realty-backend/internal/domain"
)

// Limits caps upload sizes per media type, in bytes.
type Limits struct {
	MaxImageBytes int64
	MaxVideoBytes int64
}

func DefaultLimits() Limits {
	return Limits{MaxImageBytes: 20 << 20, MaxVideoBytes: 100 << 20}
}

func (l Limits) max(t domain.MediaType) int64 {
	if t == domain.MediaVideo {
		return l.MaxVideoBytes
	}
	return l.MaxImageBytes
}

type Kind int

const (
	KindExisting Kind = iota
	KindPending
)

// Item is one entry of a gallery: either a stored media row or a file awaiting upload.
type Item struct {
	Kind      Kind
	Type      domain.MediaType
	IsPrimary bool

	// existing
	ID  uint
	URL string

	// pending; Handle is the caller's index of the uploaded file
	Handle   int
	Filename string
	Size     int64
}

// PendingFile describes an incoming upload.
type PendingFile struct {
	Handle   int
	Filename string
	Type     domain.MediaType
	Size     int64
}

// Gallery is the editable, ordered media set of one listing.
// After every mutation at most one item is primary: the first image in order.
type Gallery struct {
	items   []Item
	removed []uint
	limits  Limits
}

// NewGallery starts from the listing's stored media, ordered by display_order.
func NewGallery(existing []domain.Media, limits Limits) *Gallery {
	rows := append([]domain.Media(nil), existing...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DisplayOrder != rows[j].DisplayOrder {
			return rows[i].DisplayOrder < rows[j].DisplayOrder
		}
		return rows[i].ID < rows[j].ID
	})
	g := &Gallery{limits: limits}
	for _, m := range rows {
		g.items = append(g.items, Item{Kind: KindExisting, ID: m.ID, URL: m.URL, Type: m.Type, IsPrimary: m.IsPrimary})
	}
	g.items = NormalizePrimary(g.items)
	return g
}

func (g *Gallery) Len() int {
	return len(g.items)
}

// Items returns a copy of the current sequence.
func (g *Gallery) Items() []Item {
	return append([]Item(nil), g.items...)
}

// Append validates every file and then adds them at the end in arrival order.
func (g *Gallery) Append(files ...PendingFile) error {
	for _, f := range files {
		if !f.Type.Valid() {
			return domain.NewValidationError("media", "%s: media type must be image or video", f.Filename)
		}
		if limit := g.limits.max(f.Type); limit > 0 && f.Size > limit {
			return domain.NewValidationError("media", "%s: %s exceeds the %d MB limit", f.Filename, f.Type, limit>>20)
		}
	}
	for _, f := range files {
		g.items = append(g.items, Item{Kind: KindPending, Handle: f.Handle, Filename: f.Filename, Size: f.Size, Type: f.Type})
	}
	g.items = NormalizePrimary(g.items)
	return nil
}

// Remove drops the item at index. Stored items are queued for deletion.
func (g *Gallery) Remove(index int) error {
	if err := g.check(index); err != nil {
		return err
	}
	if it := g.items[index]; it.Kind == KindExisting {
		g.removed = append(g.removed, it.ID)
	}
	g.items = append(g.items[:index], g.items[index+1:]...)
	g.items = NormalizePrimary(g.items)
	return nil
}

// RemoveID removes a stored item by its media id.
func (g *Gallery) RemoveID(id uint) error {
	idx, ok := g.IndexOf(id)
	if !ok {
		return domain.NewNotFound("Media", id)
	}
	return g.Remove(idx)
}

// Reorder moves the item at from to position to. The first image afterwards becomes primary.
func (g *Gallery) Reorder(from, to int) error {
	if err := g.check(from); err != nil {
		return err
	}
	if err := g.check(to); err != nil {
		return err
	}
	it := g.items[from]
	rest := append(append([]Item(nil), g.items[:from]...), g.items[from+1:]...)
	g.items = append(rest[:to], append([]Item{it}, rest[to:]...)...)
	g.items = NormalizePrimary(g.items)
	return nil
}

// SetPrimary makes the image at index primary by moving it to the front.
func (g *Gallery) SetPrimary(index int) error {
	if err := g.check(index); err != nil {
		return err
	}
	if g.items[index].Type != domain.MediaImage {
		return domain.NewValidationError("media", "only an image can be the primary media")
	}
	return g.Reorder(index, 0)
}

// IndexOf finds a stored item by id.
func (g *Gallery) IndexOf(id uint) (int, bool) {
	for i, it := range g.items {
		if it.Kind == KindExisting && it.ID == id {
			return i, true
		}
	}
	return 0, false
}

// IndexOfPending finds a pending item by its upload handle.
func (g *Gallery) IndexOfPending(handle int) (int, bool) {
	for i, it := range g.items {
		if it.Kind == KindPending && it.Handle == handle {
			return i, true
		}
	}
	return 0, false
}

func (g *Gallery) check(index int) error {
	if index < 0 || index >= len(g.items) {
		return domain.NewValidationError("media", "media index %d out of range", index)
	}
	return nil
}

// NormalizePrimary marks the first image primary and clears every other flag.
func NormalizePrimary(items []Item) []Item {
	found := false
	for i := range items {
		items[i].IsPrimary = !found && items[i].Type == domain.MediaImage
		if items[i].IsPrimary {
			found = true
		}
	}
	return items
}

// Placement is the persisted position of a stored item.
type Placement struct {
	ID           uint
	DisplayOrder int
	IsPrimary    bool
}

// NewPlacement is a pending file with its resolved position.
type NewPlacement struct {
	Handle       int
	Filename     string
	Type         domain.MediaType
	DisplayOrder int
	IsPrimary    bool
}

// Plan is the submission of a gallery edit.
type Plan struct {
	Existing []Placement
	Delete   []uint
	New      []NewPlacement
}

func (p Plan) Empty() bool {
	return len(p.Existing) == 0 && len(p.Delete) == 0 && len(p.New) == 0
}

// Plan yields the stored order/primary assignments, the ids to delete and the new files in upload order.
func (g *Gallery) Plan() Plan {
	var p Plan
	p.Delete = append(p.Delete, g.removed...)
	for i, it := range g.items {
		switch it.Kind {
		case KindExisting:
			p.Existing = append(p.Existing, Placement{ID: it.ID, DisplayOrder: i, IsPrimary: it.IsPrimary})
		case KindPending:
			p.New = append(p.New, NewPlacement{Handle: it.Handle, Filename: it.Filename, Type: it.Type, DisplayOrder: i, IsPrimary: it.IsPrimary})
		}
	}
	sort.SliceStable(p.New, func(i, j int) bool { return p.New[i].Handle < p.New[j].Handle })
	return p
}

func (k Kind) String() string {
	switch k {
	case KindExisting:
		return "existing"
	case KindPending:
		return "new"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
