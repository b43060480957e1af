package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, email, name, avatar_url, role, password_hash, created_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		name      sql.NullString
		avatarURL sql.NullString
		role      string
		createdAt string
	)

	if err := scanner.Scan(&u.ID, &u.Email, &name, &avatarURL, &role, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}

	u.Name = name.String
	u.AvatarURL = avatarURL.String
	u.Role = domain.Role(role)

	var err error
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the email is taken (case-insensitive).
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, email_lower, name, avatar_url, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		strings.ToLower(u.Email),
		nullString(u.Name),
		nullString(u.AvatarURL),
		string(role),
		u.PasswordHash,
		formatTime(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("email already registered").WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	return u, err
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, strings.ToLower(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	return u, err
}

// UpdateUserRole sets a user's role.
func (s *Store) UpdateUserRole(ctx context.Context, id string, role domain.Role) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
