package features

import (
	"context"
	"errors"
	"strings"

	"realty-backend/internal/domain"
	"realty-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type FeatureInput struct {
	Name string  `json:"name" validate:"required,max=100"`
	Icon *string `json:"icon" validate:"omitempty,max=64"`
}

func (s *Service) List(ctx context.Context) ([]domain.Feature, error) {
	var out []domain.Feature
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (s *Service) Create(ctx context.Context, in FeatureInput) (*domain.Feature, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Feature{}).Where("LOWER(name) = LOWER(?)", in.Name).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, &domain.ConflictError{Message: "Feature already exists"}
	}
	f := &domain.Feature{Name: in.Name, Icon: in.Icon}
	if err := s.DB.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a feature and detaches it from every listing.
func (s *Service) Delete(ctx context.Context, id uint) error {
	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var f domain.Feature
	if err := tx.First(&f, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFound("Feature", id)
		}
		return err
	}
	if err := tx.Where("feature_id = ?", id).Delete(&domain.ListingFeature{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&f).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// CheckExist fails with a ValidationError naming the first id that is not a feature.
func (s *Service) CheckExist(ctx context.Context, db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var found []uint
	if err := db.WithContext(ctx).Model(&domain.Feature{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	seen := make(map[uint]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return domain.NewValidationError("features", "feature %d does not exist", id)
		}
	}
	return nil
}

// ForListings returns the features attached to each listing, ordered by name.
func (s *Service) ForListings(ctx context.Context, ids []uint) (map[uint][]domain.Feature, error) {
	out := make(map[uint][]domain.Feature, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	type row struct {
		PropertyID uint
		domain.Feature
	}
	var rows []row
	err := s.DB.WithContext(ctx).Table("property_features pf").
		Select("pf.property_id, f.id, f.name, f.icon").
		Joins("JOIN features f ON f.id = pf.feature_id").
		Where("pf.property_id IN ?", ids).
		Order("f.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PropertyID] = append(out[r.PropertyID], r.Feature)
	}
	return out, nil
}

// Replace sets a listing's features inside the caller's transaction.
func Replace(tx *gorm.DB, listingID uint, featureIDs []uint) error {
	if err := tx.Where("property_id = ?", listingID).Delete(&domain.ListingFeature{}).Error; err != nil {
		return err
	}
	seen := make(map[uint]bool, len(featureIDs))
	rows := make([]domain.ListingFeature, 0, len(featureIDs))
	for _, id := range featureIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, domain.ListingFeature{PropertyID: listingID, FeatureID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
