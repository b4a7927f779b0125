package domain

import (
	"time"

	"gorm.io/datatypes"
)

type TranslationSource string

const (
	TranslationMachine TranslationSource = "machine"
	TranslationManual  TranslationSource = "manual"
)

// Translation is the audit copy of a translated field; the listing's *_ru / *_en columns stay the read path.
type Translation struct {
	ID         uint              `gorm:"column:id;primaryKey" json:"id"`
	PropertyID uint              `gorm:"column:property_id;not null;uniqueIndex:idx_translation_key" json:"property_id"`
	Language   string            `gorm:"column:language_code;size:5;not null;uniqueIndex:idx_translation_key" json:"language_code"`
	Field      string            `gorm:"column:field_name;size:32;not null;uniqueIndex:idx_translation_key" json:"field_name"`
	Text       string            `gorm:"column:translated_text;type:text;not null" json:"translated_text"`
	Source     TranslationSource `gorm:"column:source;size:10;not null" json:"source"`
	Meta       datatypes.JSON    `gorm:"column:meta" json:"meta,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Translation) TableName() string {
	return "property_translations"
}
