package statuses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"realty-backend/internal/domain"
	"realty-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// Service is the admin status catalog.
type Service struct {
	DB       *gorm.DB
	Resolver *Resolver
}

type StatusInput struct {
	Name          string  `json:"name" validate:"required,max=64"`
	DisplayName   string  `json:"display_name" validate:"required,max=128"`
	DisplayNameHy *string `json:"display_name_hy"`
	Color         string  `json:"color" validate:"omitempty,status_color"`
	IsActive      *bool   `json:"is_active"`
	SortOrder     int     `json:"sort_order"`
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]domain.Status, error) {
	q := s.DB.WithContext(ctx).Order("sort_order ASC, id ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var out []domain.Status
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch statuses: %w", err)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, in StatusInput) (*domain.Status, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}
	status := &domain.Status{
		Name:          in.Name,
		DisplayName:   in.DisplayName,
		DisplayNameHy: in.DisplayNameHy,
		Color:         colorOrDefault(in.Color),
		IsActive:      in.IsActive == nil || *in.IsActive,
		SortOrder:     in.SortOrder,
	}
	active := status.IsActive
	if err := s.DB.WithContext(ctx).Create(status).Error; err != nil {
		return nil, err
	}
	// a zero bool falls back to the column default on insert
	if !active {
		if err := s.DB.WithContext(ctx).Model(status).Update("is_active", false).Error; err != nil {
			return nil, err
		}
	}
	return status, nil
}

func (s *Service) Update(ctx context.Context, id uint, in StatusInput) (*domain.Status, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	status, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, in.Name, id); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":            in.Name,
		"display_name":    in.DisplayName,
		"display_name_hy": in.DisplayNameHy,
		"color":           colorOrDefault(in.Color),
		"sort_order":      in.SortOrder,
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if err := s.DB.WithContext(ctx).Model(status).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Delete removes an unused status. The default status and statuses referenced by listings stay.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if id == domain.DefaultStatusID {
		return &domain.ConflictError{Message: "The default status cannot be deleted"}
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var status domain.Status
		if err := tx.First(&status, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFound("Status", id)
			}
			return err
		}
		n, err := s.resolver().usage(ctx, tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.ConflictError{Message: fmt.Sprintf("Status is used by %d listing(s) and cannot be deleted", n)}
		}
		return tx.Delete(&status).Error
	})
}

func (s *Service) get(ctx context.Context, id uint) (*domain.Status, error) {
	var status domain.Status
	if err := s.DB.WithContext(ctx).First(&status, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("Status", id)
		}
		return nil, err
	}
	return &status, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, exceptID uint) error {
	var n int64
	q := s.DB.WithContext(ctx).Model(&domain.Status{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &domain.ConflictError{Message: "Status name already exists"}
	}
	return nil
}

func (s *Service) resolver() *Resolver {
	if s.Resolver != nil {
		return s.Resolver
	}
	return &Resolver{DB: s.DB}
}

func colorOrDefault(c string) string {
	if c == "" {
		return "green"
	}
	return c
}
