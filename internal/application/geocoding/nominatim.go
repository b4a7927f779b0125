package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"realty-backend/internal/domain"
)

// NominatimClient is a Geocoder backed by a Nominatim-compatible search API.
type NominatimClient struct {
	BaseURL     string
	UserAgent   string
	CountryCode string
	Client      *http.Client
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *NominatimClient) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	places, err := c.search(ctx, address, 1)
	if err != nil {
		return nil, err
	}
	for _, p := range places {
		if s, ok := p.suggestion(); ok {
			return &Coordinates{Lat: s.Lat, Lon: s.Lon}, nil
		}
	}
	return nil, nil
}

func (c *NominatimClient) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	places, err := c.search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Suggestion, 0, len(places))
	for _, p := range places {
		if s, ok := p.suggestion(); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *NominatimClient) search(ctx context.Context, q string, limit int) ([]nominatimPlace, error) {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.BaseURL == "" {
		return nil, c.fail(fmt.Errorf("GEOCODER_URL is not set"))
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	if c.CountryCode != "" {
		params.Set("countrycodes", c.CountryCode)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.BaseURL, "/")+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, c.fail(err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, c.fail(fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(fmt.Errorf("status %d body: %s", resp.StatusCode, string(body)))
	}
	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, c.fail(fmt.Errorf("response decode: %w", err))
	}
	return places, nil
}

func (p nominatimPlace) suggestion() (Suggestion, bool) {
	lat, err1 := strconv.ParseFloat(p.Lat, 64)
	lon, err2 := strconv.ParseFloat(p.Lon, 64)
	if err1 != nil || err2 != nil {
		return Suggestion{}, false
	}
	return Suggestion{DisplayName: p.DisplayName, Lat: lat, Lon: lon}, true
}

func (c *NominatimClient) fail(err error) error {
	return &domain.ExternalServiceError{Service: "geocoding", Err: err}
}
