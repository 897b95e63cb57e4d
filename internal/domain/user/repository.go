package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists administrators
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, criteria UserCriteria) ([]User, int64, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
