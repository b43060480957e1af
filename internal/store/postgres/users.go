package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the email is taken (case-insensitive).
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	u.CreatedAt = u.CreatedAt.UTC().Truncate(time.Microsecond)

	m := &userModel{
		ID:           u.ID,
		Email:        u.Email,
		EmailLower:   strings.ToLower(u.Email),
		Name:         ptr(u.Name),
		AvatarURL:    ptr(u.AvatarURL),
		Role:         string(role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	err := s.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrAlreadyExists.WithMessage("email already registered").WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := s.db.WithContext(ctx).Where("email_lower = ?", strings.ToLower(email)).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// UpdateUserRole sets a user's role.
func (s *Store) UpdateUserRole(ctx context.Context, id string, role domain.Role) error {
	res := s.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update("role", string(role))
	if res.Error != nil {
		return fmt.Errorf("update user role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
