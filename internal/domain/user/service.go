package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// HashPassword returns the bcrypt hash stored for password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	role := input.Role
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hashed,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uint64, input UpdateInput) error {
	var changes Changes

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ErrInvalidInput
		}
		changes.Name = &name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return ErrInvalidInput
		}
		changes.Email = &email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return ErrInvalidRole
		}
		changes.Role = input.Role
	}
	if input.Password != nil && *input.Password != "" {
		hashed, err := HashPassword(*input.Password)
		if err != nil {
			return err
		}
		changes.PasswordHash = &hashed
	}

	if changes.IsEmpty() {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// Authenticate checks a password against the stored hash. Unknown addresses
// yield ErrUserNotFound and mismatches ErrInvalidPassword.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// EnsureAdmin creates the admin account when the address is unknown and
// promotes an existing account otherwise. The password of an existing account
// is left alone.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (*User, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err == nil {
		if existing.IsAdmin() {
			return existing, false, nil
		}
		role := RoleAdmin
		if _, err := s.repo.Update(ctx, existing.ID, Changes{Role: &role}); err != nil {
			return nil, false, fmt.Errorf("promote admin: %w", err)
		}
		existing.Role = RoleAdmin
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	created, err := s.Create(ctx, CreateInput{Name: name, Email: email, Password: password, Role: RoleAdmin})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
