package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"realty-backend/internal/application/attributes"
	"realty-backend/internal/application/features"
	"realty-backend/internal/application/geocoding"
	"realty-backend/internal/application/location"
	"realty-backend/internal/application/media"
	"realty-backend/internal/application/statuses"
	"realty-backend/internal/application/translation"
	"realty-backend/internal/domain"
	"realty-backend/internal/pkg/validation"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service owns the listing lifecycle and the public search.
type Service struct {
	DB        *gorm.DB
	Rdb       *redis.Client
	Locations *location.Service
	Statuses  *statuses.Resolver
	Features  *features.Service
	Media     *media.Service
	Enricher  *translation.Enricher
	Geocoder  *geocoding.Service
	// ViewDedupWindow counts one view per viewer per window when Rdb is set. Zero disables it.
	ViewDedupWindow time.Duration
	Now             func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func requireAdmin(actor *domain.Actor) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// ListProperties runs a filtered, sorted and paginated search.
func (s *Service) ListProperties(ctx context.Context, actor *domain.Actor, f Filter) (*Page, error) {
	f = f.Normalize()
	qb := buildConditions(f, actor.IsAdmin())
	base := func() *gorm.DB {
		q := s.DB.WithContext(ctx).Table("properties AS p").
			Joins("LEFT JOIN property_statuses s ON s.id = p.status_id")
		return qb.apply(q)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []domain.Listing
	err := base().Select("p.*").Order(f.orderBy()).Limit(f.Limit).Offset(f.offset()).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	items, err := s.assemble(ctx, actor, f.Lang, rows)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int((total + int64(f.Limit) - 1) / int64(f.Limit)),
	}, nil
}

// GetByCustomID returns one listing by its external id. A public fetch counts a view.
func (s *Service) GetByCustomID(ctx context.Context, actor *domain.Actor, customID, viewerKey, lang string) (*ViewModel, error) {
	l, err := s.findBy(ctx, "custom_id = ?", strings.TrimSpace(customID))
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		visible, err := s.publiclyVisible(ctx, l)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, domain.NewNotFound("Listing", customID)
		}
		if s.countView(ctx, l.ID, viewerKey) {
			l.ViewCount++
		}
	}
	return s.view(ctx, actor, l, lang)
}

// Get returns a listing by its internal id without counting a view.
func (s *Service) Get(ctx context.Context, actor *domain.Actor, id uint, lang string) (*ViewModel, error) {
	l, err := s.findBy(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		visible, err := s.publiclyVisible(ctx, l)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, domain.NewNotFound("Listing", id)
		}
	}
	return s.view(ctx, actor, l, lang)
}

func (s *Service) view(ctx context.Context, actor *domain.Actor, l *domain.Listing, lang string) (*ViewModel, error) {
	vms, err := s.assemble(ctx, actor, translation.ParseLanguage(lang), []domain.Listing{*l})
	if err != nil {
		return nil, err
	}
	return &vms[0], nil
}

// Create validates and stores a new listing with its attributes, features and media, then
// translates it. Translation runs after commit and never fails the create.
func (s *Service) Create(ctx context.Context, actor *domain.Actor, in CreateInput) (*ViewModel, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	prep, err := s.prepare(ctx, &in.Fields, 0)
	if err != nil {
		return nil, err
	}
	gallery := media.NewGallery(nil, s.Media.Limits)
	files, sources := pendingFiles(in.Uploads)
	if err := gallery.Append(files...); err != nil {
		return nil, err
	}
	plan := gallery.Plan()

	listing := in.Fields.listing(prep)
	now := s.now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if in.hasCoordinates() {
		gh := geocoding.Geohash(*in.Latitude, *in.Longitude)
		listing.Geohash = &gh
	} else {
		s.locate(ctx, &listing)
	}

	stored := s.Media.UploadPending(ctx, plan, sources)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		if err := attributes.Replace(tx, listing.ID, prep.attrs); err != nil {
			return err
		}
		if err := features.Replace(tx, listing.ID, prep.featureIDs); err != nil {
			return err
		}
		_, err := s.Media.ApplyPlan(tx, listing.ID, plan, stored)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("custom_id", listing.CustomID).Msg("listings: create rolled back")
		s.Media.Purge(ctx, storageIDs(stored))
		return nil, &domain.TransactionError{Op: "create", Err: err}
	}
	log.Info().Uint("listing_id", listing.ID).Str("custom_id", listing.CustomID).Int("media", len(stored)).Msg("listings: created")

	if s.Enricher != nil {
		s.Enricher.Enrich(ctx, listing.ID)
	}
	return s.Get(ctx, actor, listing.ID, "")
}

// Edit replaces a listing's fields, attributes, features and gallery in one transaction.
// Any failure inside it leaves the listing exactly as it was.
func (s *Service) Edit(ctx context.Context, actor *domain.Actor, id uint, in EditInput) (*ViewModel, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.findBy(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	prep, err := s.prepare(ctx, &in.Fields, id)
	if err != nil {
		return nil, err
	}
	existing, err := s.Media.List(ctx, id)
	if err != nil {
		return nil, err
	}
	gallery := media.NewGallery(existing, s.Media.Limits)
	files, sources := pendingFiles(in.Uploads)
	if err := gallery.Append(files...); err != nil {
		return nil, err
	}
	if err := arrange(gallery, in.MediaOrder, in.PrimaryMedia); err != nil {
		return nil, err
	}
	plan := gallery.Plan()

	updates := in.Fields.updates(prep)
	switch {
	case in.hasCoordinates():
		updates["latitude"] = *in.Latitude
		updates["longitude"] = *in.Longitude
		updates["geohash"] = geocoding.Geohash(*in.Latitude, *in.Longitude)
	case in.Address != current.Address || current.Latitude == nil:
		probe := in.Fields.listing(prep)
		s.locate(ctx, &probe)
		updates["latitude"] = probe.Latitude
		updates["longitude"] = probe.Longitude
		updates["geohash"] = probe.Geohash
	}
	retranslate := in.Title != current.Title || in.Description != current.Description
	if retranslate {
		for _, col := range []string{"title_ru", "title_en", "description_ru", "description_en", "last_translated_at"} {
			updates[col] = nil
		}
		updates["translation_status"] = domain.TranslationPending
	}
	updates["updated_at"] = s.now()

	stored := s.Media.UploadPending(ctx, plan, sources)

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	fail := func(err error) (*ViewModel, error) {
		tx.Rollback()
		log.Error().Err(err).Uint("listing_id", id).Msg("listings: edit rolled back")
		s.Media.Purge(ctx, storageIDs(stored))
		return nil, &domain.TransactionError{Op: "update", Err: err}
	}
	if err := tx.Model(&domain.Listing{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fail(err)
	}
	if err := attributes.Replace(tx, id, prep.attrs); err != nil {
		return fail(err)
	}
	if err := features.Replace(tx, id, prep.featureIDs); err != nil {
		return fail(err)
	}
	purge, err := s.Media.ApplyPlan(tx, id, plan, stored)
	if err != nil {
		return fail(err)
	}
	if err := tx.Commit().Error; err != nil {
		return fail(err)
	}
	log.Info().Uint("listing_id", id).Int("media_deleted", len(purge)).Int("media_added", len(stored)).Msg("listings: updated")

	s.Media.Purge(ctx, purge)
	if retranslate && s.Enricher != nil {
		s.Enricher.Enrich(ctx, id)
	}
	return s.Get(ctx, actor, id, "")
}

// Delete removes a listing and everything attached to it, then its files from storage.
func (s *Service) Delete(ctx context.Context, actor *domain.Actor, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	var storage []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l domain.Listing
		if err := tx.Select("id").First(&l, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFound("Listing", id)
			}
			return err
		}
		if err := tx.Model(&domain.Media{}).Where("property_id = ?", id).Pluck("storage_id", &storage).Error; err != nil {
			return err
		}
		if err := attributes.DeleteAll(tx, id); err != nil {
			return err
		}
		children := []interface{}{
			&domain.ListingFeature{},
			&domain.Media{},
			&domain.ListingView{},
			&domain.Favorite{},
			&domain.Translation{},
		}
		for _, model := range children {
			if err := tx.Where("property_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Listing{}, id).Error
	})
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return err
		}
		return &domain.TransactionError{Op: "delete", Err: err}
	}
	log.Info().Uint("listing_id", id).Int("media", len(storage)).Msg("listings: deleted")
	s.Media.Purge(ctx, storage)
	return nil
}

// FavoriteResult is the state after a favorite toggle.
type FavoriteResult struct {
	Favorited bool  `json:"favorited"`
	Count     int64 `json:"count"`
}

// ToggleFavorite saves or unsaves a public listing for an anonymous visitor.
func (s *Service) ToggleFavorite(ctx context.Context, customID, visitorKey string) (*FavoriteResult, error) {
	visitorKey = strings.TrimSpace(visitorKey)
	if visitorKey == "" {
		return nil, domain.NewValidationError("visitor_id", "visitor_id is required")
	}
	l, err := s.findBy(ctx, "custom_id = ?", strings.TrimSpace(customID))
	if err != nil {
		return nil, err
	}
	visible, err := s.publiclyVisible(ctx, l)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, domain.NewNotFound("Listing", customID)
	}

	res := &FavoriteResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("property_id = ? AND visitor_key = ?", l.ID, visitorKey).Delete(&domain.Favorite{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			if err := tx.Create(&domain.Favorite{PropertyID: l.ID, VisitorKey: visitorKey, CreatedAt: s.now()}).Error; err != nil {
				return err
			}
			res.Favorited = true
		}
		return tx.Model(&domain.Favorite{}).Where("property_id = ?", l.ID).Count(&res.Count).Error
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// prepare validates fields and resolves location, attributes, status and features.
// selfID is the listing being edited, zero on create.
func (s *Service) prepare(ctx context.Context, f *Fields, selfID uint) (*prepared, error) {
	f.normalize()
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	if f.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "price must not be negative")
	}
	if err := s.ensureCustomIDFree(ctx, f.CustomID, selfID); err != nil {
		return nil, err
	}
	loc, err := s.Locations.Resolve(ctx, f.StateID, location.Input{CityID: f.CityID, DistrictID: f.DistrictID})
	if err != nil {
		return nil, err
	}
	attrs, err := attributes.Build(f.PropertyType, f.Attributes)
	if err != nil {
		return nil, err
	}
	featureIDs := uniqueIDs(f.FeatureIDs)
	if err := s.Features.CheckExist(ctx, s.DB, featureIDs); err != nil {
		return nil, err
	}
	return &prepared{
		loc:        loc,
		attrs:      attrs,
		statusID:   s.Statuses.ResolveStatusID(ctx, f.Status),
		featureIDs: featureIDs,
	}, nil
}

func (s *Service) ensureCustomIDFree(ctx context.Context, customID string, selfID uint) error {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("custom_id = ? AND id <> ?", customID, selfID).Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return &domain.ConflictError{Message: fmt.Sprintf("Listing with custom id %s already exists", customID)}
	}
	return nil
}

func (s *Service) findBy(ctx context.Context, query string, key interface{}) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.DB.WithContext(ctx).Where(query, key).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("Listing", key)
		}
		return nil, err
	}
	return &l, nil
}

// publiclyVisible is false for hidden listings and listings whose status is inactive.
// A status that no longer exists counts as the default status, which is active.
func (s *Service) publiclyVisible(ctx context.Context, l *domain.Listing) (bool, error) {
	if l.IsHidden {
		return false, nil
	}
	var st domain.Status
	err := s.DB.WithContext(ctx).Select("id", "is_active").First(&st, l.StatusID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return st.IsActive, nil
}

// countView increments the view counter atomically. With a dedup window configured, a viewer
// is counted once per window. Failures are logged and never fail the read.
func (s *Service) countView(ctx context.Context, listingID uint, viewerKey string) bool {
	viewerKey = strings.TrimSpace(viewerKey)
	if s.Rdb != nil && s.ViewDedupWindow > 0 && viewerKey != "" {
		key := fmt.Sprintf("views:%d:%s", listingID, viewerKey)
		first, err := s.Rdb.SetNX(ctx, key, 1, s.ViewDedupWindow).Result()
		if err != nil {
			log.Warn().Err(err).Uint("listing_id", listingID).Msg("listings: view dedup unavailable")
		} else if !first {
			return false
		}
	}
	err := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("id = ?", listingID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		log.Warn().Err(err).Uint("listing_id", listingID).Msg("listings: view count failed")
		return false
	}
	if err := s.DB.WithContext(ctx).Create(&domain.ListingView{PropertyID: listingID, ViewerKey: viewerKey, CreatedAt: s.now()}).Error; err != nil {
		log.Warn().Err(err).Uint("listing_id", listingID).Msg("listings: view record failed")
	}
	return true
}

// locate fills coordinates and geohash from the address, using the listing's place as hint.
func (s *Service) locate(ctx context.Context, l *domain.Listing) {
	if s.Geocoder == nil {
		return
	}
	res := s.Geocoder.Locate(ctx, l.Address, s.placeName(ctx, l))
	if res == nil {
		l.Latitude, l.Longitude, l.Geohash = nil, nil, nil
		return
	}
	lat, lon, gh := res.Lat, res.Lon, res.Geohash
	l.Latitude, l.Longitude, l.Geohash = &lat, &lon, &gh
}

// placeName is the most specific known place name of a listing.
func (s *Service) placeName(ctx context.Context, l *domain.Listing) string {
	db := s.DB.WithContext(ctx)
	var names []string
	switch {
	case l.DistrictID != nil:
		db.Model(&domain.District{}).Where("id = ?", *l.DistrictID).Pluck("name", &names)
	case l.CityID != nil:
		db.Model(&domain.City{}).Where("id = ?", *l.CityID).Pluck("name", &names)
	}
	if len(names) == 0 {
		db.Model(&domain.Region{}).Where("id = ?", l.StateID).Pluck("name", &names)
	}
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func storageIDs(stored map[int]*media.Stored) []string {
	out := make([]string, 0, len(stored))
	for _, st := range stored {
		out = append(out, st.StorageID)
	}
	return out
}
