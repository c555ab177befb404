// AngelaMos | 2026
// opaque.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alwaysdemon/storefront/internal/core"
	"github.com/alwaysdemon/storefront/internal/middleware"
)

// TokenStore keeps the hash of each user's current opaque token.
type TokenStore interface {
	SetTokenHash(ctx context.Context, userID, tokenHash string) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*UserInfo, error)
}

// OpaqueIssuer hands out random tokens and remembers only their SHA-256
// hash on the user record. Issuing overwrites the stored hash, which
// revokes whatever token the user held before.
type OpaqueIssuer struct {
	store TokenStore
}

func NewOpaqueIssuer(store TokenStore) *OpaqueIssuer {
	return &OpaqueIssuer{store: store}
}

func (o *OpaqueIssuer) Issue(
	ctx context.Context,
	identity middleware.Identity,
) (string, *time.Time, error) {
	token, err := core.NewOpaqueToken()
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	if err := o.store.SetTokenHash(ctx, identity.UserID, core.HashToken(token)); err != nil {
		return "", nil, fmt.Errorf("store session token: %w", err)
	}

	return token, nil, nil
}

func (o *OpaqueIssuer) Validate(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	user, err := o.store.GetByTokenHash(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return &middleware.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
