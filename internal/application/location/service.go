package location

import (
	"context"
	"errors"
	"strings"

	"realty-backend/internal/domain"

	"gorm.io/gorm"
)

// Service resolves and validates the region → district-or-city hierarchy.
type Service struct {
	DB *gorm.DB
}

// Input is the admin's raw selection; either or both ids may be set.
type Input struct {
	CityID     *uint
	DistrictID *uint
}

// Location is the normalized pair stored on a listing; at most one id is non-nil.
type Location struct {
	CityID     *uint `json:"city_id"`
	DistrictID *uint `json:"district_id"`
}

// Normalize keeps the district for district-model regions and the city otherwise.
func Normalize(region domain.Region, in Input) Location {
	if region.UsesDistricts {
		return Location{DistrictID: in.DistrictID}
	}
	return Location{CityID: in.CityID}
}

// ResolveLocation looks up the region and normalizes the selection. It never rejects a
// selection; only a missing region is an error.
func (s *Service) ResolveLocation(ctx context.Context, regionID uint, in Input) (Location, error) {
	region, err := s.region(ctx, regionID)
	if err != nil {
		return Location{}, err
	}
	return Normalize(*region, in), nil
}

// Validate checks that the normalized location is complete and that the chosen district or
// city belongs to the region.
func (s *Service) Validate(ctx context.Context, regionID uint, loc Location) error {
	region, err := s.region(ctx, regionID)
	if err != nil {
		return err
	}
	db := s.DB.WithContext(ctx)
	if region.UsesDistricts {
		if loc.DistrictID == nil {
			return domain.NewValidationError("district_id", "district_id is required for %s", region.Name)
		}
		var d domain.District
		if err := db.First(&d, *loc.DistrictID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewValidationError("district_id", "District %d does not exist", *loc.DistrictID)
			}
			return err
		}
		if d.StateID != region.ID {
			return domain.NewValidationError("district_id", "District %d does not belong to %s", d.ID, region.Name)
		}
		return nil
	}
	if loc.CityID == nil {
		return domain.NewValidationError("city_id", "city_id is required for %s", region.Name)
	}
	var c domain.City
	if err := db.First(&c, *loc.CityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewValidationError("city_id", "City %d does not exist", *loc.CityID)
		}
		return err
	}
	if c.StateID != region.ID {
		return domain.NewValidationError("city_id", "City %d does not belong to %s", c.ID, region.Name)
	}
	return nil
}

// Resolve normalizes then validates; this is what write paths call.
func (s *Service) Resolve(ctx context.Context, regionID uint, in Input) (Location, error) {
	loc, err := s.ResolveLocation(ctx, regionID, in)
	if err != nil {
		return Location{}, err
	}
	if err := s.Validate(ctx, regionID, loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

func (s *Service) region(ctx context.Context, id uint) (*domain.Region, error) {
	var region domain.Region
	if err := s.DB.WithContext(ctx).First(&region, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("Region", id)
		}
		return nil, err
	}
	return &region, nil
}

func (s *Service) Regions(ctx context.Context) ([]domain.Region, error) {
	var regions []domain.Region
	if err := s.DB.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (s *Service) Districts(ctx context.Context, regionID uint) ([]domain.District, error) {
	if _, err := s.region(ctx, regionID); err != nil {
		return nil, err
	}
	var districts []domain.District
	if err := s.DB.WithContext(ctx).Where("state_id = ?", regionID).Order("name ASC").Find(&districts).Error; err != nil {
		return nil, err
	}
	return districts, nil
}

func (s *Service) Cities(ctx context.Context, regionID uint) ([]domain.City, error) {
	if _, err := s.region(ctx, regionID); err != nil {
		return nil, err
	}
	var cities []domain.City
	if err := s.DB.WithContext(ctx).Where("state_id = ?", regionID).Order("name ASC").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// CreateCity adds a city to a city-model region. District-model regions keep their fixed list.
func (s *Service) CreateCity(ctx context.Context, regionID uint, name string) (*domain.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	region, err := s.region(ctx, regionID)
	if err != nil {
		return nil, err
	}
	if region.UsesDistricts {
		return nil, domain.NewValidationError("state_id", "%s uses districts, not cities", region.Name)
	}
	var existing int64
	if err := s.DB.WithContext(ctx).Model(&domain.City{}).
		Where("state_id = ? AND LOWER(name) = LOWER(?)", regionID, name).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &domain.ConflictError{Message: "City already exists in this region"}
	}
	city := &domain.City{StateID: regionID, Name: name}
	if err := s.DB.WithContext(ctx).Create(city).Error; err != nil {
		return nil, err
	}
	return city, nil
}

// LocalizedName picks the ru/en name when present, otherwise the source name.
func LocalizedName(name string, ru, en *string, lang string) string {
	switch lang {
	case "ru":
		if ru != nil && *ru != "" {
			return *ru
		}
	case "en":
		if en != nil && *en != "" {
			return *en
		}
	}
	return name
}

// Display joins the most specific place (district or city) with the region, comma-separated.
func Display(specific, region string) string {
	parts := make([]string, 0, 2)
	if specific != "" {
		parts = append(parts, specific)
	}
	if region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}
