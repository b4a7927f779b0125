package listings

import (
	"context"
	"sort"

	"realty-backend/internal/application/attributes"
	"realty-backend/internal/application/location"
	"realty-backend/internal/application/statuses"
	"realty-backend/internal/application/translation"
	"realty-backend/internal/domain"
)

// StatusView is the display info of a listing's status.
type StatusView struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	DisplayName   string  `json:"display_name"`
	DisplayNameHy *string `json:"display_name_hy"`
	Color         string  `json:"color"`
}

// Place is a localized region, city or district reference.
type Place struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ViewModel is a listing as returned by the read API.
type ViewModel struct {
	domain.Listing
	DisplayTitle       translation.DisplayText `json:"display_title"`
	DisplayDescription translation.DisplayText `json:"display_description"`
	Status             StatusView              `json:"status"`
	Attributes         domain.Attributes       `json:"attributes"`
	PrimaryImage       *string                 `json:"primary_image"`
	Images             []domain.Media          `json:"images"`
	Videos             []domain.Media          `json:"videos"`
	Features           []domain.Feature        `json:"features"`
	State              *Place                  `json:"state"`
	City               *Place                  `json:"city"`
	District           *Place                  `json:"district"`
	LocationDisplay    string                  `json:"location_display"`
}

// Page is one page of listing results.
type Page struct {
	Items      []ViewModel `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// assemble loads everything the view model joins for a batch of listings, in batch queries.
func (s *Service) assemble(ctx context.Context, actor *domain.Actor, lang string, rows []domain.Listing) ([]ViewModel, error) {
	out := make([]ViewModel, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(rows))
	byType := make(map[domain.PropertyType][]uint)
	for _, l := range rows {
		ids = append(ids, l.ID)
		byType[l.PropertyType] = append(byType[l.PropertyType], l.ID)
	}

	attrs, err := attributes.LoadMany(ctx, s.DB, byType)
	if err != nil {
		return nil, err
	}
	media, err := s.Media.ForListings(ctx, ids)
	if err != nil {
		return nil, err
	}
	feats, err := s.Features.ForListings(ctx, ids)
	if err != nil {
		return nil, err
	}
	status, err := s.statusMap(ctx, rows)
	if err != nil {
		return nil, err
	}
	places, err := s.placeMaps(ctx, rows)
	if err != nil {
		return nil, err
	}

	admin := actor.IsAdmin()
	for _, l := range rows {
		vm := ViewModel{
			Listing:            l,
			DisplayTitle:       translation.SelectDisplayText(lang, l.Title, l.TitleRu, l.TitleEn),
			DisplayDescription: translation.SelectDisplayText(lang, l.Description, l.DescriptionRu, l.DescriptionEn),
			Attributes:         attrs[l.ID],
			Features:           feats[l.ID],
		}
		if !admin {
			vm.OwnerName = ""
			vm.OwnerPhone = ""
			vm.AddressAdmin = nil
		}
		st, ok := status[l.StatusID]
		if !ok {
			st = statuses.Fallback()
		}
		vm.Status = StatusView{ID: st.ID, Name: st.Name, DisplayName: st.DisplayName, DisplayNameHy: st.DisplayNameHy, Color: st.Color}
		vm.Images, vm.Videos = splitMedia(media[l.ID])
		if len(vm.Images) > 0 && vm.Images[0].IsPrimary {
			url := vm.Images[0].URL
			vm.PrimaryImage = &url
		}
		if vm.Features == nil {
			vm.Features = []domain.Feature{}
		}
		places.fill(&vm, lang)
		out = append(out, vm)
	}
	return out, nil
}

// splitMedia returns images primary first then in display order, and videos in display order.
func splitMedia(rows []domain.Media) ([]domain.Media, []domain.Media) {
	images := []domain.Media{}
	videos := []domain.Media{}
	for _, m := range rows {
		if m.Type == domain.MediaVideo {
			videos = append(videos, m)
			continue
		}
		images = append(images, m)
	}
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].IsPrimary != images[j].IsPrimary {
			return images[i].IsPrimary
		}
		return images[i].DisplayOrder < images[j].DisplayOrder
	})
	return images, videos
}

func (s *Service) statusMap(ctx context.Context, rows []domain.Listing) (map[uint]domain.Status, error) {
	ids := make([]uint, 0, len(rows))
	for _, l := range rows {
		ids = append(ids, l.StatusID)
	}
	var list []domain.Status
	if err := s.DB.WithContext(ctx).Where("id IN ?", uniqueIDs(ids)).Find(&list).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]domain.Status, len(list))
	for _, st := range list {
		out[st.ID] = st
	}
	return out, nil
}

type placeMaps struct {
	regions   map[uint]domain.Region
	cities    map[uint]domain.City
	districts map[uint]domain.District
}

func (s *Service) placeMaps(ctx context.Context, rows []domain.Listing) (*placeMaps, error) {
	var regionIDs, cityIDs, districtIDs []uint
	for _, l := range rows {
		regionIDs = append(regionIDs, l.StateID)
		if l.CityID != nil {
			cityIDs = append(cityIDs, *l.CityID)
		}
		if l.DistrictID != nil {
			districtIDs = append(districtIDs, *l.DistrictID)
		}
	}
	db := s.DB.WithContext(ctx)
	pm := &placeMaps{
		regions:   map[uint]domain.Region{},
		cities:    map[uint]domain.City{},
		districts: map[uint]domain.District{},
	}
	var regions []domain.Region
	if err := db.Where("id IN ?", uniqueIDs(regionIDs)).Find(&regions).Error; err != nil {
		return nil, err
	}
	for _, r := range regions {
		pm.regions[r.ID] = r
	}
	if len(cityIDs) > 0 {
		var cities []domain.City
		if err := db.Where("id IN ?", uniqueIDs(cityIDs)).Find(&cities).Error; err != nil {
			return nil, err
		}
		for _, c := range cities {
			pm.cities[c.ID] = c
		}
	}
	if len(districtIDs) > 0 {
		var districts []domain.District
		if err := db.Where("id IN ?", uniqueIDs(districtIDs)).Find(&districts).Error; err != nil {
			return nil, err
		}
		for _, d := range districts {
			pm.districts[d.ID] = d
		}
	}
	return pm, nil
}

func (pm *placeMaps) fill(vm *ViewModel, lang string) {
	var regionName, specific string
	if r, ok := pm.regions[vm.StateID]; ok {
		regionName = location.LocalizedName(r.Name, r.NameRu, r.NameEn, lang)
		vm.State = &Place{ID: r.ID, Name: regionName}
	}
	if vm.CityID != nil {
		if c, ok := pm.cities[*vm.CityID]; ok {
			specific = location.LocalizedName(c.Name, c.NameRu, c.NameEn, lang)
			vm.City = &Place{ID: c.ID, Name: specific}
		}
	}
	if vm.DistrictID != nil {
		if d, ok := pm.districts[*vm.DistrictID]; ok {
			specific = location.LocalizedName(d.Name, d.NameRu, d.NameEn, lang)
			vm.District = &Place{ID: d.ID, Name: specific}
		}
	}
	vm.LocationDisplay = location.Display(specific, regionName)
}
