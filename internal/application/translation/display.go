package translation

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LangSource = "hy"
	LangRu     = "ru"
	LangEn     = "en"
)

// TargetLanguages are the languages machine translation fills in.
var TargetLanguages = []string{LangRu, LangEn}

const (
	StatusOriginal   = "original"
	StatusTranslated = "translated"
	StatusFallback   = "fallback"
)

type DisplayText struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// SelectDisplayText picks the text shown for lang: the translation when present, else the source text.
func SelectDisplayText(lang, source string, ru, en *string) DisplayText {
	var translated *string
	switch lang {
	case LangRu:
		translated = ru
	case LangEn:
		translated = en
	default:
		return DisplayText{Text: source, Status: StatusOriginal}
	}
	if translated != nil {
		return DisplayText{Text: *translated, Status: StatusTranslated}
	}
	return DisplayText{Text: source, Status: StatusFallback}
}

var supported = []language.Tag{language.Armenian, language.Russian, language.English}

var matcher = language.NewMatcher(supported)

var codes = []string{LangSource, LangRu, LangEn}

// ParseLanguage maps a lang query value or Accept-Language header to hy, ru or en.
// Anything unrecognised is the source language.
func ParseLanguage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LangSource
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return LangSource
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return LangSource
	}
	return codes[idx]
}
