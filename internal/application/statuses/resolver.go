package statuses

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"realty-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Resolver maps status names to ids and back with a guaranteed "available" default.
// Callers never see a lookup failure; every miss is logged and resolved to the default.
type Resolver struct {
	DB *gorm.DB
}

// ResolveStatusID accepts a numeric id (passed through) or a status name.
// Names resolve only against active statuses; anything unresolved yields DefaultStatusID.
func (r *Resolver) ResolveStatusID(ctx context.Context, nameOrID string) uint {
	key := strings.TrimSpace(nameOrID)
	if key == "" {
		return domain.DefaultStatusID
	}
	if id, err := strconv.ParseUint(key, 10, 64); err == nil && id > 0 {
		return uint(id)
	}
	var status domain.Status
	err := r.DB.WithContext(ctx).Where("name = ? AND is_active = ?", key, true).First(&status).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Str("status", key).Msg("statuses: lookup failed, using default")
		} else {
			log.Warn().Str("status", key).Msg("statuses: unknown or inactive status, using default")
		}
		return domain.DefaultStatusID
	}
	return status.ID
}

// ResolveStatusName returns the status name for id, or "available" when the status is gone.
func (r *Resolver) ResolveStatusName(ctx context.Context, id uint) string {
	var status domain.Status
	if err := r.DB.WithContext(ctx).Select("id", "name").First(&status, id).Error; err != nil {
		return domain.DefaultStatusName
	}
	return status.Name
}

// CanDeleteStatus is false while any listing references the status.
func (r *Resolver) CanDeleteStatus(ctx context.Context, id uint) (bool, error) {
	n, err := r.usage(ctx, r.DB, id)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (r *Resolver) usage(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Listing{}).Where("status_id = ?", id).Count(&n).Error
	return n, err
}

// Fallback is the display entry used for listings whose status join misses.
func Fallback() domain.Status {
	return domain.Status{
		ID:          domain.DefaultStatusID,
		Name:        domain.DefaultStatusName,
		DisplayName: "Available",
		Color:       "green",
		IsActive:    true,
	}
}
