// Package attributes maps a property type to its exclusive attribute record.
package attributes

import (
	"math"
	"strconv"
	"strings"

	"realty-backend/internal/domain"
)

// MaxBathrooms is the data-entry sanity bound; values at or above it are rejected.
const MaxBathrooms = 100

// Build casts raw form fields into the attribute variant for propertyType.
// Required fields that are blank or non-numeric fail with a ValidationError naming the field;
// blank optional fields become nil.
func Build(propertyType domain.PropertyType, raw map[string]string) (domain.Attributes, error) {
	r := &reader{raw: raw}
	var attrs domain.Attributes
	switch propertyType {
	case domain.PropertyHouse:
		attrs = &domain.HouseAttributes{
			Bedrooms:      r.requiredInt("bedrooms"),
			Bathrooms:     r.requiredInt("bathrooms"),
			AreaSqm:       r.requiredFloat("area"),
			LotSizeSqm:    r.optionalFloat("lot_size"),
			Floors:        r.optionalInt("floors"),
			CeilingHeight: r.optionalFloat("ceiling_height"),
		}
	case domain.PropertyApartment:
		attrs = &domain.ApartmentAttributes{
			Bedrooms:      r.requiredInt("bedrooms"),
			Bathrooms:     r.requiredInt("bathrooms"),
			AreaSqm:       r.requiredFloat("area"),
			Floor:         r.requiredInt("floor"),
			TotalFloors:   r.requiredInt("total_floors"),
			CeilingHeight: r.optionalFloat("ceiling_height"),
		}
	case domain.PropertyCommercial:
		attrs = &domain.CommercialAttributes{
			BusinessType:  r.requiredString("business_type"),
			AreaSqm:       r.requiredFloat("area"),
			Floors:        r.optionalInt("floors"),
			CeilingHeight: r.optionalFloat("ceiling_height"),
		}
	case domain.PropertyLand:
		attrs = &domain.LandAttributes{
			AreaAcres: r.requiredFloat("area_acres"),
		}
	default:
		return nil, domain.NewValidationError("property_type", "Invalid property type: %q", propertyType)
	}
	if r.err != nil {
		return nil, r.err
	}
	if n, ok := Bathrooms(attrs); ok && n >= MaxBathrooms {
		return nil, domain.NewValidationError("bathrooms", "bathrooms must be less than %d", MaxBathrooms)
	}
	return attrs, nil
}

// Bedrooms returns the bedroom count for variants that record it.
func Bedrooms(a domain.Attributes) (int, bool) {
	switch v := a.(type) {
	case *domain.HouseAttributes:
		return v.Bedrooms, true
	case *domain.ApartmentAttributes:
		return v.Bedrooms, true
	}
	return 0, false
}

// Bathrooms returns the bathroom count for variants that record it.
func Bathrooms(a domain.Attributes) (int, bool) {
	switch v := a.(type) {
	case *domain.HouseAttributes:
		return v.Bathrooms, true
	case *domain.ApartmentAttributes:
		return v.Bathrooms, true
	}
	return 0, false
}

// reader keeps the first casting error so Build reads as a flat field list.
type reader struct {
	raw map[string]string
	err error
}

func (r *reader) value(field string) string {
	return strings.TrimSpace(r.raw[field])
}

func (r *reader) fail(field, format string, args ...interface{}) {
	if r.err == nil {
		r.err = domain.NewValidationError(field, format, args...)
	}
}

func (r *reader) requiredString(field string) string {
	v := r.value(field)
	if v == "" {
		r.fail(field, "%s is required", field)
	}
	return v
}

func (r *reader) requiredInt(field string) int {
	v := r.value(field)
	if v == "" {
		r.fail(field, "%s is required", field)
		return 0
	}
	return r.parseInt(field, v)
}

func (r *reader) optionalInt(field string) *int {
	v := r.value(field)
	if v == "" {
		return nil
	}
	n := r.parseInt(field, v)
	return &n
}

func (r *reader) requiredFloat(field string) float64 {
	v := r.value(field)
	if v == "" {
		r.fail(field, "%s is required", field)
		return 0
	}
	return r.parseFloat(field, v)
}

func (r *reader) optionalFloat(field string) *float64 {
	v := r.value(field)
	if v == "" {
		return nil
	}
	f := r.parseFloat(field, v)
	return &f
}

func (r *reader) parseInt(field, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(field, "%s must be a whole number", field)
		return 0
	}
	if n < 0 {
		r.fail(field, "%s must not be negative", field)
	}
	return n
}

func (r *reader) parseFloat(field, v string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(field, "%s must be a number", field)
		return 0
	}
	if f < 0 {
		r.fail(field, "%s must not be negative", field)
	}
	return f
}
