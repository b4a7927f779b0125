package listings

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	listsvc "realty-backend/internal/application/listings"
	"realty-backend/internal/domain"
	"realty-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	dataField         = "data"
	mediaField        = "media"
	mediaOrderField   = "media_order"
	primaryMediaField = "primary_media"
)

// filterFromQuery reads the search predicates of GET /properties. Malformed numbers are a
// ValidationError naming the parameter.
func filterFromQuery(c *fiber.Ctx) (listsvc.Filter, error) {
	f := listsvc.Filter{
		PropertyType: domain.PropertyType(c.Query("property_type")),
		ListingType:  domain.ListingType(c.Query("listing_type")),
		Sort:         c.Query("sort"),
		Order:        c.Query("order"),
		Lang:         c.Query("lang", c.Get(fiber.HeaderAcceptLanguage)),
	}
	var err error
	if f.RegionID, err = queryUint(c, "region_id"); err != nil {
		return f, err
	}
	if f.CityID, err = queryUint(c, "city_id"); err != nil {
		return f, err
	}
	if f.DistrictID, err = queryUint(c, "district_id"); err != nil {
		return f, err
	}
	if f.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return f, err
	}
	if f.Bedrooms, err = queryInt(c, "bedrooms"); err != nil {
		return f, err
	}
	if f.Bathrooms, err = queryInt(c, "bathrooms"); err != nil {
		return f, err
	}
	if f.FeatureIDs, err = uintList(c.Query("features"), "features"); err != nil {
		return f, err
	}
	f.Page = c.QueryInt("page", 1)
	f.Limit = c.QueryInt("limit", listsvc.DefaultLimit)
	return f, nil
}

func queryUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError(key, "%s must be a positive integer", key)
	}
	u := uint(v)
	return &u, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, domain.NewValidationError(key, "%s must be a non-negative integer", key)
	}
	return &v, nil
}

func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, domain.NewValidationError(key, "%s must be a non-negative number", key)
	}
	return &d, nil
}

// uintList parses "1,2,3"; blanks are skipped.
func uintList(raw, key string) ([]uint, error) {
	var out []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, domain.NewValidationError(key, "%s must be a comma separated list of ids", key)
		}
		out = append(out, uint(v))
	}
	return out, nil
}

// listingForm is the body of an admin create or edit. Multipart requests carry it as JSON in
// the "data" field next to the "media" files; JSON requests carry it as the whole body.
type listingForm struct {
	listsvc.Fields
	Status       flexString            `json:"status"`
	Attributes   map[string]flexString `json:"attributes"`
	MediaOrder   []string              `json:"media_order"`
	PrimaryMedia string                `json:"primary_media"`
}

func (f *listingForm) fields() listsvc.Fields {
	out := f.Fields
	out.Status = string(f.Status)
	out.Attributes = make(map[string]string, len(f.Attributes))
	for k, v := range f.Attributes {
		out.Attributes[k] = string(v)
	}
	return out
}

// flexString accepts a JSON string, number or bool and keeps its text.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

func parseListingForm(c *fiber.Ctx) (*listingForm, []listsvc.Upload, error) {
	var form listingForm
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		if err := json.Unmarshal(c.Body(), &form); err != nil {
			return nil, nil, domain.NewValidationError("body", "Invalid request body")
		}
		return &form, nil, nil
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return nil, nil, domain.NewValidationError("body", "Invalid multipart form")
	}
	if data := first(mf.Value[dataField]); data != "" {
		if err := json.Unmarshal([]byte(data), &form); err != nil {
			return nil, nil, domain.NewValidationError(dataField, "data must be a JSON object")
		}
	}
	if order := first(mf.Value[mediaOrderField]); order != "" {
		form.MediaOrder = splitTokens(order)
	}
	if primary := first(mf.Value[primaryMediaField]); primary != "" {
		form.PrimaryMedia = primary
	}

	files := mf.File[mediaField]
	uploads := make([]listsvc.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, uploadFromHeader(fh))
	}
	return &form, uploads, nil
}

func uploadFromHeader(fh *multipart.FileHeader) listsvc.Upload {
	var t domain.MediaType
	switch ct := fh.Header.Get(fiber.HeaderContentType); {
	case strings.HasPrefix(ct, "image/"):
		t = domain.MediaImage
	case strings.HasPrefix(ct, "video/"):
		t = domain.MediaVideo
	}
	return listsvc.Upload{
		Filename: fh.Filename,
		Type:     t,
		Size:     fh.Size,
		Open:     func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// splitTokens accepts either a JSON array or a comma separated list.
func splitTokens(raw string) []string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var out []string
		if json.Unmarshal([]byte(raw), &out) == nil {
			return out
		}
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// viewerKey identifies a visitor for view dedup and favorites: an explicit header, then the
// visitor cookie, then the client address.
func viewerKey(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Get(middleware.VisitorIDHeader)); v != "" {
		return v
	}
	if v := c.Cookies("visitor_id"); v != "" {
		return v
	}
	return c.IP()
}
