package geocoding

import (
	"context"
	"strings"

	"github.com/mmcloughlin/geohash"
	"github.com/rs/zerolog/log"
)

const (
	geohashPrecision = 9
	minSuggestQuery  = 3
	maxSuggestions   = 10

	SourceGeocoder = "geocoder"
	SourceFallback = "fallback"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Suggestion struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Geocoder resolves free-text addresses. Geocode returns nil, nil when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

// Result is a located address.
type Result struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Geohash string  `json:"geohash"`
	Source  string  `json:"source"`
}

// Service geocodes addresses, falling back to known city coordinates when the geocoder
// is down or finds nothing.
type Service struct {
	Geocoder Geocoder
}

// Locate returns the coordinates of address, or nil when neither the geocoder nor the
// fallback table knows it. cityHint is the listing's city or region name.
func (s *Service) Locate(ctx context.Context, address, cityHint string) *Result {
	address = strings.TrimSpace(address)
	if address != "" && s.Geocoder != nil {
		query := address
		if cityHint != "" && !strings.Contains(strings.ToLower(address), strings.ToLower(cityHint)) {
			query = address + ", " + cityHint
		}
		c, err := s.Geocoder.Geocode(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("address", query).Msg("geocoding: lookup failed, using fallback table")
		} else if c != nil {
			return NewResult(c.Lat, c.Lon, SourceGeocoder)
		}
	}
	if c, ok := KnownCity(cityHint); ok {
		return NewResult(c.Lat, c.Lon, SourceFallback)
	}
	if c, ok := cityInText(address); ok {
		return NewResult(c.Lat, c.Lon, SourceFallback)
	}
	return nil
}

// Suggest returns ranked address suggestions; a failing geocoder yields none.
func (s *Service) Suggest(ctx context.Context, query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSuggestQuery || s.Geocoder == nil {
		return []Suggestion{}
	}
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}
	out, err := s.Geocoder.Suggest(ctx, query, limit)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("geocoding: suggest failed")
		return []Suggestion{}
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out
}

func NewResult(lat, lon float64, source string) *Result {
	return &Result{Lat: lat, Lon: lon, Geohash: Geohash(lat, lon), Source: source}
}

func Geohash(lat, lon float64) string {
	return geohash.EncodeWithPrecision(lat, lon, geohashPrecision)
}
