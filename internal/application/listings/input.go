package listings

import (
	"fmt"
	"strconv"
	"strings"

	"realty-backend/internal/application/location"
	"realty-backend/internal/application/media"
	"realty-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Fields are the editable columns of a listing, shared by create and edit.
type Fields struct {
	CustomID     string              `json:"custom_id" validate:"required,max=64,custom_id"`
	PropertyType domain.PropertyType `json:"property_type" validate:"required,oneof=house apartment commercial land"`
	ListingType  domain.ListingType  `json:"listing_type" validate:"required,oneof=sale rent daily_rent"`
	Price        decimal.Decimal     `json:"price"`
	Currency     string              `json:"currency" validate:"omitempty,len=3"`
	Title        string              `json:"title" validate:"required,max=255"`
	Description  string              `json:"description"`
	StateID      uint                `json:"state_id" validate:"required"`
	CityID       *uint               `json:"city_id"`
	DistrictID   *uint               `json:"district_id"`
	Address      string              `json:"address" validate:"max=500"`
	AddressAdmin *string             `json:"address_admin"`
	Latitude     *float64            `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64            `json:"longitude" validate:"omitempty,longitude"`
	IsHidden     bool                `json:"is_hidden"`
	IsExclusive  bool                `json:"is_exclusive"`
	IsFeatured   bool                `json:"is_featured"`
	HasViber     bool                `json:"has_viber"`
	HasWhatsapp  bool                `json:"has_whatsapp"`
	HasTelegram  bool                `json:"has_telegram"`
	OwnerName    string              `json:"owner_name" validate:"required,max=255"`
	OwnerPhone   string              `json:"owner_phone" validate:"required,phone"`
	// Status is a status name or a numeric status id.
	Status     string            `json:"status"`
	FeatureIDs []uint            `json:"features"`
	Attributes map[string]string `json:"attributes"`
}

// Upload is one incoming media file of a create or edit request.
type Upload struct {
	Filename string
	Type     domain.MediaType
	Size     int64
	Open     media.Opener
}

type CreateInput struct {
	Fields
	Uploads []Upload
}

// EditInput replaces a listing's fields. MediaOrder, when set, is the complete final gallery as
// tokens "existing:<media id>" or "new:<upload index>"; existing media left out is deleted.
// Without it existing media keeps its order and uploads are appended.
type EditInput struct {
	Fields
	Uploads      []Upload
	MediaOrder   []string
	PrimaryMedia string
}

func (f *Fields) normalize() {
	f.CustomID = strings.TrimSpace(f.CustomID)
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Address = strings.TrimSpace(f.Address)
	f.OwnerName = strings.TrimSpace(f.OwnerName)
	f.OwnerPhone = strings.TrimSpace(f.OwnerPhone)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	if f.Currency == "" {
		f.Currency = "USD"
	}
	if f.AddressAdmin != nil && strings.TrimSpace(*f.AddressAdmin) == "" {
		f.AddressAdmin = nil
	}
}

func (f *Fields) hasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// prepared holds the resolved references of validated fields.
type prepared struct {
	loc        location.Location
	attrs      domain.Attributes
	statusID   uint
	featureIDs []uint
}

func (f *Fields) listing(p *prepared) domain.Listing {
	return domain.Listing{
		CustomID:          f.CustomID,
		PropertyType:      f.PropertyType,
		ListingType:       f.ListingType,
		Price:             f.Price,
		Currency:          f.Currency,
		Title:             f.Title,
		Description:       f.Description,
		TranslationStatus: domain.TranslationPending,
		StateID:           f.StateID,
		CityID:            p.loc.CityID,
		DistrictID:        p.loc.DistrictID,
		Address:           f.Address,
		Latitude:          f.Latitude,
		Longitude:         f.Longitude,
		AddressAdmin:      f.AddressAdmin,
		IsHidden:          f.IsHidden,
		IsExclusive:       f.IsExclusive,
		IsFeatured:        f.IsFeatured,
		HasViber:          f.HasViber,
		HasWhatsapp:       f.HasWhatsapp,
		HasTelegram:       f.HasTelegram,
		OwnerName:         f.OwnerName,
		OwnerPhone:        f.OwnerPhone,
		StatusID:          p.statusID,
	}
}

// updates is the column map of an edit. Coordinates are added by the caller.
func (f *Fields) updates(p *prepared) map[string]interface{} {
	return map[string]interface{}{
		"custom_id":     f.CustomID,
		"property_type": f.PropertyType,
		"listing_type":  f.ListingType,
		"price":         f.Price,
		"currency":      f.Currency,
		"title":         f.Title,
		"description":   f.Description,
		"state_id":      f.StateID,
		"city_id":       p.loc.CityID,
		"district_id":   p.loc.DistrictID,
		"address":       f.Address,
		"address_admin": f.AddressAdmin,
		"is_hidden":     f.IsHidden,
		"is_exclusive":  f.IsExclusive,
		"is_featured":   f.IsFeatured,
		"has_viber":     f.HasViber,
		"has_whatsapp":  f.HasWhatsapp,
		"has_telegram":  f.HasTelegram,
		"owner_name":    f.OwnerName,
		"owner_phone":   f.OwnerPhone,
		"status_id":     p.statusID,
	}
}

func pendingFiles(uploads []Upload) ([]media.PendingFile, map[int]media.Opener) {
	files := make([]media.PendingFile, 0, len(uploads))
	sources := make(map[int]media.Opener, len(uploads))
	for i, u := range uploads {
		files = append(files, media.PendingFile{Handle: i, Filename: u.Filename, Type: u.Type, Size: u.Size})
		if u.Open != nil {
			sources[i] = u.Open
		}
	}
	return files, sources
}

const (
	tokenExisting = "existing"
	tokenNew      = "new"
)

func itemToken(it media.Item) string {
	if it.Kind == media.KindPending {
		return fmt.Sprintf("%s:%d", tokenNew, it.Handle)
	}
	return fmt.Sprintf("%s:%d", tokenExisting, it.ID)
}

// findToken returns the gallery index of a manifest token.
func findToken(g *media.Gallery, token string) (int, error) {
	kind, raw, ok := strings.Cut(strings.TrimSpace(token), ":")
	n, err := strconv.ParseUint(raw, 10, 64)
	if !ok || err != nil {
		return 0, domain.NewValidationError("media_order", "invalid media reference %q", token)
	}
	var idx int
	var found bool
	switch kind {
	case tokenExisting:
		idx, found = g.IndexOf(uint(n))
	case tokenNew:
		idx, found = g.IndexOfPending(int(n))
	}
	if !found {
		return 0, domain.NewValidationError("media_order", "unknown media reference %q", token)
	}
	return idx, nil
}

// arrange applies an edit's media manifest and primary choice to the gallery.
func arrange(g *media.Gallery, order []string, primary string) error {
	if len(order) > 0 {
		keep := make(map[string]bool, len(order))
		targets := make([]string, 0, len(order))
		for _, tok := range order {
			idx, err := findToken(g, tok)
			if err != nil {
				return err
			}
			tok = itemToken(g.Items()[idx])
			if keep[tok] {
				continue
			}
			keep[tok] = true
			targets = append(targets, tok)
		}
		items := g.Items()
		for i := len(items) - 1; i >= 0; i-- {
			if keep[itemToken(items[i])] {
				continue
			}
			if err := g.Remove(i); err != nil {
				return err
			}
		}
		for pos, tok := range targets {
			idx, err := findToken(g, tok)
			if err != nil {
				return err
			}
			if err := g.Reorder(idx, pos); err != nil {
				return err
			}
		}
	}
	if primary != "" {
		idx, err := findToken(g, primary)
		if err != nil {
			return err
		}
		if err := g.SetPrimary(idx); err != nil {
			return err
		}
	}
	return nil
}
