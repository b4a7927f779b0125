package auth

import (
	"context"
	"errors"
	"strings"

	"realty-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Authenticator checks admin credentials and returns the actor to keep in the session.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Actor, error)
}

// Service authenticates against admin_users with bcrypt password hashes.
type Service struct {
	DB *gorm.DB
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Actor, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	var u domain.AdminUser
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	actor := &domain.Actor{UserID: u.UserID.String(), Email: u.Email, Fullname: u.Fullname, Role: u.Role}
	if !actor.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return actor, nil
}

// EnsureAdmin creates the bootstrap superadmin if no account uses the email yet.
func EnsureAdmin(db *gorm.DB, email, password, fullname string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	var n int64
	if err := db.Model(&domain.AdminUser{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := domain.AdminUser{Email: email, PasswordHash: string(hash), Fullname: fullname, Role: domain.RoleSuperadmin}
	if err := db.Create(&u).Error; err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("auth: bootstrap admin created")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
