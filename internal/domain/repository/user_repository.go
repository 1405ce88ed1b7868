package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-register-login/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// ExistsByEmail reports whether a user with exactly this email is stored.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// GetByEmail returns ErrNotFound when no user matches.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Create fills ID and CreatedAt from the inserted row. A unique violation
	// on email is reported as ErrDuplicateEmail.
	Create(ctx context.Context, u *entity.User) error
}
