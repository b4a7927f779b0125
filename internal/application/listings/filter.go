package listings

import (
	"fmt"
	"strings"

	"realty-backend/internal/application/translation"
	"realty-backend/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	SortCreatedAt = "created_at"
	SortPrice     = "price"
	SortViews     = "views"
	SortTitle     = "title"
)

var sortColumns = map[string]string{
	SortCreatedAt: "p.created_at",
	SortPrice:     "p.price",
	SortViews:     "p.views",
	SortTitle:     "p.title",
}

// Filter holds the optional predicates of a listing search. Zero values mean "not set".
type Filter struct {
	PropertyType domain.PropertyType
	ListingType  domain.ListingType
	RegionID     *uint
	CityID       *uint
	DistrictID   *uint
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Bedrooms     *int
	Bathrooms    *int
	FeatureIDs   []uint
	Sort         string
	Order        string
	Page         int
	Limit        int
	Lang         string
}

// Normalize applies the pagination and sort defaults. Unknown sort keys fall back to created_at.
func (f Filter) Normalize() Filter {
	if _, ok := sortColumns[f.Sort]; !ok {
		f.Sort = SortCreatedAt
	}
	f.Order = strings.ToLower(strings.TrimSpace(f.Order))
	if f.Order != "asc" {
		f.Order = "desc"
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	f.Lang = translation.ParseLanguage(f.Lang)
	return f
}

func (f Filter) offset() int {
	return (f.Page - 1) * f.Limit
}

func (f Filter) orderBy() string {
	return fmt.Sprintf("%s %s, p.id %s", sortColumns[f.Sort], strings.ToUpper(f.Order), strings.ToUpper(f.Order))
}

// queryBuilder accumulates AND-composed predicates with their placeholder arguments.
type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (qb *queryBuilder) add(condition string, args ...interface{}) {
	qb.conditions = append(qb.conditions, condition)
	qb.args = append(qb.args, args...)
}

func (qb *queryBuilder) apply(db *gorm.DB) *gorm.DB {
	if len(qb.conditions) == 0 {
		return db
	}
	return db.Where(strings.Join(qb.conditions, " AND "), qb.args...)
}

// roomTypes are the property types whose attribute tables carry bedrooms and bathrooms.
var roomTypes = []string{string(domain.PropertyHouse), string(domain.PropertyApartment)}

// buildConditions turns a normalized filter into predicates over properties p joined with
// property_statuses s. Public callers only see visible listings with an active status.
func buildConditions(f Filter, admin bool) *queryBuilder {
	qb := &queryBuilder{}
	if !admin {
		qb.add("(s.is_active = ? OR s.id IS NULL)", true)
		qb.add("p.is_hidden = ?", false)
	}
	if f.PropertyType != "" {
		qb.add("p.property_type = ?", string(f.PropertyType))
	}
	if f.ListingType != "" {
		qb.add("p.listing_type = ?", string(f.ListingType))
	}
	if f.RegionID != nil {
		qb.add("p.state_id = ?", *f.RegionID)
	}
	if f.CityID != nil {
		qb.add("p.city_id = ?", *f.CityID)
	}
	if f.DistrictID != nil {
		qb.add("p.district_id = ?", *f.DistrictID)
	}
	if f.MinPrice != nil {
		qb.add("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		qb.add("p.price <= ?", *f.MaxPrice)
	}
	if f.Bedrooms != nil {
		addRoomCondition(qb, "bedrooms", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		addRoomCondition(qb, "bathrooms", *f.Bathrooms)
	}
	if ids := uniqueIDs(f.FeatureIDs); len(ids) > 0 {
		qb.add(`p.id IN (SELECT pf.property_id FROM property_features pf WHERE pf.feature_id IN ?
			GROUP BY pf.property_id HAVING COUNT(DISTINCT pf.feature_id) = ?)`, ids, len(ids))
	}
	return qb
}

// addRoomCondition adds a minimum on a room column. Types without rooms are left untouched,
// so the predicate never narrows commercial or land results.
func addRoomCondition(qb *queryBuilder, column string, min int) {
	qb.add(fmt.Sprintf(`(p.property_type NOT IN ?
		OR EXISTS (SELECT 1 FROM house_attributes h WHERE h.property_id = p.id AND h.%[1]s >= ?)
		OR EXISTS (SELECT 1 FROM apartment_attributes a WHERE a.property_id = p.id AND a.%[1]s >= ?))`, column),
		roomTypes, min, min)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
