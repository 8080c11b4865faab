package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lead-intake-go/internal/domain/user"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("admin role required")
)

// Users is the part of the user service the gate needs.
type Users interface {
	Get(ctx context.Context, id uint64) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

// Identity is the caller resolved from a token, looked up once per request.
type Identity struct {
	UserID    uint64
	Name      string
	Email     string
	Role      user.Role
	TokenID   string
	ExpiresAt time.Time
}

func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}

type SignInResult struct {
	User        *user.User
	AccessToken string
}

type Gate struct {
	tokens  *JWTService
	revoked RevocationStore
	users   Users
	now     func() time.Time
}

func NewGate(tokens *JWTService, revoked RevocationStore, users Users) *Gate {
	return &Gate{
		tokens:  tokens,
		revoked: revoked,
		users:   users,
		now:     time.Now,
	}
}

// Authenticate verifies token and loads the caller. Tokens of deleted users
// and revoked tokens are invalid.
func (g *Gate) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoToken
	}

	claims, err := g.tokens.Validate(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Identity{}, err
		}
		if revoked {
			return Identity{}, fmt.Errorf("%w: revoked", ErrInvalidToken)
		}
	}

	caller, err := g.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return Identity{}, fmt.Errorf("%w: unknown user", ErrInvalidToken)
		}
		return Identity{}, fmt.Errorf("load caller: %w", err)
	}

	identity := Identity{
		UserID:  caller.ID,
		Name:    caller.Name,
		Email:   caller.Email,
		Role:    caller.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

func Authorize(identity Identity, role user.Role) error {
	if identity.Role != role {
		return ErrForbidden
	}
	return nil
}

func (g *Gate) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	account, err := g.users.Authenticate(ctx, email, password)
	if err != nil {
		return SignInResult{}, err
	}

	token, _, err := g.tokens.Issue(account.ID)
	if err != nil {
		return SignInResult{}, err
	}
	return SignInResult{User: account, AccessToken: token}, nil
}

// SignOut revokes the caller's token for the rest of its lifetime.
func (g *Gate) SignOut(ctx context.Context, identity Identity) error {
	if identity.TokenID == "" {
		return nil
	}
	return g.revoked.Revoke(ctx, identity.TokenID, identity.ExpiresAt.Sub(g.now()))
}
