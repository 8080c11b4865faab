package user

import "context"

type Repository interface {
	// Create returns ErrEmailTaken when the address is already registered.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uint64, changes Changes) (bool, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}
