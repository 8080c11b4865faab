package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uint64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id uint64, changes Changes) (bool, error) {
	args := m.Called(ctx, id, changes)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestCreateHashesPasswordAndDefaultsRole(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

	svc := NewService(repo)
	created, err := svc.Create(ctx, CreateInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, RoleUser, created.Role)
	assert.NotEqual(t, "secret1", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")))
	repo.AssertExpectations(t)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Ana", Email: "ana@example.com", Password: "secret1", Role: "root"})

	assert.ErrorIs(t, err, ErrInvalidRole)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRequiresFields(t *testing.T) {
	svc := NewService(new(MockRepository))

	_, err := svc.Create(context.Background(), CreateInput{Name: " ", Email: "ana@example.com", Password: "secret1"})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreatePropagatesDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Create", ctx, mock.Anything).Return(ErrEmailTaken)

	_, err := NewService(repo).Create(ctx, CreateInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	stored := &User{ID: 1, Email: "ana@example.com", PasswordHash: hashed(t, "secret1"), Role: RoleAdmin}

	t.Run("valid password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ana@example.com").Return(stored, nil)

		user, err := NewService(repo).Authenticate(ctx, "ana@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ana@example.com").Return(stored, nil)

		_, err := NewService(repo).Authenticate(ctx, "ana@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, ErrUserNotFound)

		_, err := NewService(repo).Authenticate(ctx, "ghost@example.com", "secret1")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateRehashesPassword(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Update", ctx, uint64(3), mock.MatchedBy(func(changes Changes) bool {
		if changes.PasswordHash == nil || changes.Name != nil {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(*changes.PasswordHash), []byte("newpass")) == nil
	})).Return(true, nil)

	password := "newpass"
	err := NewService(repo).Update(ctx, 3, UpdateInput{Password: &password})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateMissingUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Update", ctx, uint64(9), mock.Anything).Return(false, nil)

	name := "Bea"
	err := NewService(repo).Update(ctx, 9, UpdateInput{Name: &name})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("Delete", ctx, uint64(2)).Return(true, nil)
	repo.On("Delete", ctx, uint64(5)).Return(false, nil)
	svc := NewService(repo)

	assert.NoError(t, svc.Delete(ctx, 2))
	assert.ErrorIs(t, svc.Delete(ctx, 5), ErrUserNotFound)
}

func TestEnsureAdminCreatesMissingAccount(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByEmail", ctx, "admin@example.com").Return(nil, ErrUserNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool { return u.Role == RoleAdmin })).Return(nil)

	user, created, err := NewService(repo).EnsureAdmin(ctx, "Admin", "admin@example.com", "secret1")

	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, user.IsAdmin())
}

func TestEnsureAdminPromotesExistingAccount(t *testing.T) {
	ctx := context.Background()
	existing := &User{ID: 4, Email: "admin@example.com", Role: RoleUser}
	repo := new(MockRepository)
	repo.On("GetByEmail", ctx, "admin@example.com").Return(existing, nil)
	repo.On("Update", ctx, uint64(4), mock.MatchedBy(func(c Changes) bool {
		return c.Role != nil && *c.Role == RoleAdmin
	})).Return(true, nil)

	user, created, err := NewService(repo).EnsureAdmin(ctx, "Admin", "admin@example.com", "secret1")

	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, user.IsAdmin())
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureAdminPropagatesStoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetByEmail", ctx, "admin@example.com").Return(nil, errors.New("db down"))

	_, _, err := NewService(repo).EnsureAdmin(ctx, "Admin", "admin@example.com", "secret1")

	assert.Error(t, err)
}
