package media

import (
	"context"
	"errors"
	"io"

	"realty-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Opener opens the bytes of a pending upload.
type Opener func() (io.ReadCloser, error)

// Service persists listing media and talks to external storage.
type Service struct {
	DB       *gorm.DB
	Uploader Uploader
	Limits   Limits
	Folder   string
}

// List returns a listing's media in display order.
func (s *Service) List(ctx context.Context, listingID uint) ([]domain.Media, error) {
	return listMedia(s.DB.WithContext(ctx), listingID)
}

// ForListings returns the media of several listings, each in display order.
func (s *Service) ForListings(ctx context.Context, ids []uint) (map[uint][]domain.Media, error) {
	out := make(map[uint][]domain.Media, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Media
	err := s.DB.WithContext(ctx).Where("property_id IN ?", ids).
		Order("property_id ASC, display_order ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.PropertyID] = append(out[m.PropertyID], m)
	}
	return out, nil
}

// UploadPending uploads every new file of a plan. A failed file is logged and skipped;
// the result only holds the handles that were stored.
func (s *Service) UploadPending(ctx context.Context, plan Plan, sources map[int]Opener) map[int]*Stored {
	stored := make(map[int]*Stored, len(plan.New))
	if len(plan.New) == 0 {
		return stored
	}
	if s.Uploader == nil {
		log.Warn().Int("files", len(plan.New)).Msg("media: no uploader configured, skipping uploads")
		return stored
	}
	for _, n := range plan.New {
		open, ok := sources[n.Handle]
		if !ok {
			log.Warn().Int("handle", n.Handle).Msg("media: no source for pending file")
			continue
		}
		res, err := s.uploadOne(ctx, open, n)
		if err != nil {
			log.Warn().Err(err).Str("file", n.Filename).Msg("media: upload failed, skipping file")
			continue
		}
		stored[n.Handle] = res
	}
	return stored
}

func (s *Service) uploadOne(ctx context.Context, open Opener, n NewPlacement) (*Stored, error) {
	r, err := open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return s.Uploader.Upload(ctx, r, n.Filename, s.Folder, n.Type)
}

// ApplyPlan writes a gallery plan inside the caller's transaction and returns the storage ids
// of deleted rows, to be purged once the transaction commits. New files missing from stored
// were not uploaded and are left out; order and primary are re-derived afterwards.
func (s *Service) ApplyPlan(tx *gorm.DB, listingID uint, plan Plan, stored map[int]*Stored) ([]string, error) {
	current, err := listMedia(tx, listingID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]domain.Media, len(current))
	for _, m := range current {
		byID[m.ID] = m
	}

	var purge []string
	for _, id := range plan.Delete {
		m, ok := byID[id]
		if !ok {
			return nil, domain.NewNotFound("Media", id)
		}
		if err := tx.Delete(&domain.Media{}, m.ID).Error; err != nil {
			return nil, err
		}
		delete(byID, id)
		purge = append(purge, m.StorageID)
	}

	for _, p := range plan.Existing {
		if _, ok := byID[p.ID]; !ok {
			return nil, domain.NewNotFound("Media", p.ID)
		}
		err := tx.Model(&domain.Media{}).Where("id = ?", p.ID).
			UpdateColumns(map[string]interface{}{"display_order": p.DisplayOrder, "is_primary": p.IsPrimary}).Error
		if err != nil {
			return nil, err
		}
	}

	for _, n := range plan.New {
		st, ok := stored[n.Handle]
		if !ok {
			continue
		}
		row := domain.Media{
			PropertyID:   listingID,
			StorageID:    st.StorageID,
			URL:          st.URL,
			ThumbnailURL: st.ThumbnailURL,
			Type:         n.Type,
			IsPrimary:    n.IsPrimary,
			DisplayOrder: n.DisplayOrder,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
	}

	if err := renormalize(tx, listingID); err != nil {
		return nil, err
	}
	return purge, nil
}

// SetPrimary makes a stored image its listing's primary and first item.
func (s *Service) SetPrimary(ctx context.Context, mediaID uint) (*domain.Media, error) {
	var out domain.Media
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := findMedia(tx, mediaID)
		if err != nil {
			return err
		}
		if target.Type != domain.MediaImage {
			return domain.NewValidationError("media", "only an image can be the primary media")
		}
		rows, err := listMedia(tx, target.PropertyID)
		if err != nil {
			return err
		}
		g := NewGallery(rows, s.Limits)
		idx, _ := g.IndexOf(mediaID)
		if err := g.SetPrimary(idx); err != nil {
			return err
		}
		if err := writeOrder(tx, g.Plan().Existing); err != nil {
			return err
		}
		return tx.First(&out, mediaID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes one stored item; if it was primary the next image in order is promoted
// in the same transaction. The file is removed from storage after commit, best-effort.
func (s *Service) Delete(ctx context.Context, mediaID uint) error {
	var storageID string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMedia(tx, mediaID)
		if err != nil {
			return err
		}
		storageID = m.StorageID
		if err := tx.Delete(&domain.Media{}, m.ID).Error; err != nil {
			return err
		}
		return renormalize(tx, m.PropertyID)
	})
	if err != nil {
		return err
	}
	s.Purge(ctx, []string{storageID})
	return nil
}

// Reorder applies a full new order of a listing's stored media.
func (s *Service) Reorder(ctx context.Context, listingID uint, orderedIDs []uint) ([]domain.Media, error) {
	var out []domain.Media
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := listMedia(tx, listingID)
		if err != nil {
			return err
		}
		if len(orderedIDs) != len(rows) {
			return domain.NewValidationError("order", "order must list every media item of the listing exactly once")
		}
		byID := make(map[uint]domain.Media, len(rows))
		for _, m := range rows {
			byID[m.ID] = m
		}
		reordered := make([]domain.Media, 0, len(rows))
		for i, id := range orderedIDs {
			m, ok := byID[id]
			if !ok {
				return domain.NewValidationError("order", "order must list every media item of the listing exactly once")
			}
			delete(byID, id)
			m.DisplayOrder = i
			reordered = append(reordered, m)
		}
		if err := writeOrder(tx, NewGallery(reordered, s.Limits).Plan().Existing); err != nil {
			return err
		}
		out, err = listMedia(tx, listingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Purge deletes files from external storage, logging failures.
func (s *Service) Purge(ctx context.Context, storageIDs []string) {
	if s.Uploader == nil {
		return
	}
	for _, id := range storageIDs {
		if id == "" {
			continue
		}
		if err := s.Uploader.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("storage_id", id).Msg("media: storage delete failed")
		}
	}
}

func findMedia(tx *gorm.DB, id uint) (*domain.Media, error) {
	var m domain.Media
	if err := tx.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("Media", id)
		}
		return nil, err
	}
	return &m, nil
}

func listMedia(db *gorm.DB, listingID uint) ([]domain.Media, error) {
	var rows []domain.Media
	err := db.Where("property_id = ?", listingID).Order("display_order ASC, id ASC").Find(&rows).Error
	return rows, err
}

// renormalize rewrites a dense order and the first-image primary for a listing's rows.
func renormalize(tx *gorm.DB, listingID uint) error {
	rows, err := listMedia(tx, listingID)
	if err != nil {
		return err
	}
	return writeOrder(tx, NewGallery(rows, Limits{}).Plan().Existing)
}

func writeOrder(tx *gorm.DB, placements []Placement) error {
	for _, p := range placements {
		err := tx.Model(&domain.Media{}).Where("id = ?", p.ID).
			UpdateColumns(map[string]interface{}{"display_order": p.DisplayOrder, "is_primary": p.IsPrimary}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
