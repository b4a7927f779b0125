package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"realty-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"

	DefaultBatchLimit = 50
	MaxBatchLimit     = 200
)

// Enricher fills the ru/en columns of a listing after it has been committed.
// Translation failures never surface to the caller; they leave the columns null and
// the listing's translation_status at "failed".
type Enricher struct {
	DB         *gorm.DB
	Translator Translator
	Now        func() time.Time
}

// BatchResult summarises one TranslateMissing run.
type BatchResult struct {
	Processed int    `json:"processed"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	IDs       []uint `json:"ids"`
}

type fieldText struct {
	lang, field, text string
}

func (e *Enricher) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Enrich translates a listing's title and description into every target language and
// reports the resulting translation status.
func (e *Enricher) Enrich(ctx context.Context, listingID uint) domain.TranslationStatus {
	var listing domain.Listing
	if err := e.DB.WithContext(ctx).Select("id", "title", "description").First(&listing, listingID).Error; err != nil {
		log.Warn().Err(err).Uint("listing_id", listingID).Msg("translation: listing not loaded")
		return domain.TranslationFailed
	}
	if e.Translator == nil {
		log.Warn().Uint("listing_id", listingID).Msg("translation: no translator configured")
		e.setStatus(ctx, listingID, domain.TranslationFailed)
		return domain.TranslationFailed
	}
	e.setStatus(ctx, listingID, domain.TranslationTranslating)

	var results []fieldText
	for _, lang := range TargetLanguages {
		for _, f := range []fieldText{{field: FieldTitle, text: listing.Title}, {field: FieldDescription, text: listing.Description}} {
			if strings.TrimSpace(f.text) == "" {
				continue
			}
			out, err := e.Translator.Translate(ctx, f.text, LangSource, lang)
			if err != nil {
				log.Warn().Err(err).Uint("listing_id", listingID).Str("lang", lang).Str("field", f.field).
					Msg("translation: machine translation failed")
				e.setStatus(ctx, listingID, domain.TranslationFailed)
				return domain.TranslationFailed
			}
			results = append(results, fieldText{lang: lang, field: f.field, text: out})
		}
	}

	now := e.now()
	updates := map[string]interface{}{
		"translation_status": domain.TranslationCompleted,
		"last_translated_at": now,
	}
	for _, r := range results {
		updates[column(r.field, r.lang)] = r.text
	}
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Listing{}).Where("id = ?", listingID).UpdateColumns(updates).Error; err != nil {
			return err
		}
		for _, r := range results {
			if err := upsertRecord(tx, listingID, r, domain.TranslationMachine, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Uint("listing_id", listingID).Msg("translation: saving translations failed")
		e.setStatus(ctx, listingID, domain.TranslationFailed)
		return domain.TranslationFailed
	}
	return domain.TranslationCompleted
}

// TranslateMissing runs Enrich over listings not yet completed, oldest first, one at a time.
func (e *Enricher) TranslateMissing(ctx context.Context, limit int) (*BatchResult, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	if limit > MaxBatchLimit {
		limit = MaxBatchLimit
	}
	var ids []uint
	err := e.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("translation_status <> ?", domain.TranslationCompleted).
		Order("id ASC").Limit(limit).Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch untranslated listings: %w", err)
	}
	res := &BatchResult{IDs: ids}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		res.Processed++
		if e.Enrich(ctx, id) == domain.TranslationCompleted {
			res.Completed++
		} else {
			res.Failed++
		}
	}
	log.Info().Int("processed", res.Processed).Int("completed", res.Completed).Int("failed", res.Failed).
		Msg("translation: batch finished")
	return res, nil
}

// SetManual stores an admin-supplied translation of one field.
func (e *Enricher) SetManual(ctx context.Context, listingID uint, lang, field, text string) error {
	if lang != LangRu && lang != LangEn {
		return domain.NewValidationError("language", "language must be one of: ru en")
	}
	if field != FieldTitle && field != FieldDescription {
		return domain.NewValidationError("field", "field must be one of: title description")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NewValidationError("text", "text is required")
	}
	now := e.now()
	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Listing{}).Where("id = ?", listingID).UpdateColumns(map[string]interface{}{
			column(field, lang): text,
			"last_translated_at": now,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NewNotFound("Listing", listingID)
		}
		return upsertRecord(tx, listingID, fieldText{lang: lang, field: field, text: text}, domain.TranslationManual, now)
	})
}

// Records returns the translation audit rows of a listing.
func (e *Enricher) Records(ctx context.Context, listingID uint) ([]domain.Translation, error) {
	var out []domain.Translation
	err := e.DB.WithContext(ctx).Where("property_id = ?", listingID).
		Order("language_code ASC, field_name ASC").Find(&out).Error
	return out, err
}

func (e *Enricher) setStatus(ctx context.Context, listingID uint, status domain.TranslationStatus) {
	err := e.DB.WithContext(ctx).Model(&domain.Listing{}).Where("id = ?", listingID).
		UpdateColumn("translation_status", status).Error
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Uint("listing_id", listingID).Str("status", string(status)).Msg("translation: status not saved")
	}
}

func upsertRecord(tx *gorm.DB, listingID uint, r fieldText, source domain.TranslationSource, now time.Time) error {
	meta, _ := json.Marshal(map[string]string{"source_language": LangSource})
	rec := domain.Translation{
		PropertyID: listingID,
		Language:   r.lang,
		Field:      r.field,
		Text:       r.text,
		Source:     source,
		Meta:       datatypes.JSON(meta),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}, {Name: "language_code"}, {Name: "field_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"translated_text", "source", "meta", "updated_at"}),
	}).Create(&rec).Error
}

func column(field, lang string) string {
	return field + "_" + lang
}
