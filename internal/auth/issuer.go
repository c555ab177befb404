// AngelaMos | 2026
// issuer.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/middleware"
)

const DefaultTokenTTL = 24 * time.Hour

// TokenIssuer creates and checks the bearer credential presented on each
// request. A nil expiry means the token lives until it is rotated.
type TokenIssuer interface {
	Issue(
		ctx context.Context,
		identity middleware.Identity,
	) (string, *time.Time, error)
	Validate(ctx context.Context, token string) (*middleware.Identity, error)
}

// NewIssuer selects the strategy named by cfg.Auth.TokenStrategy.
func NewIssuer(cfg *config.Config, store TokenStore) (TokenIssuer, error) {
	switch cfg.Auth.TokenStrategy {
	case config.TokenStrategyOpaque:
		return NewOpaqueIssuer(store), nil
	case config.TokenStrategyJWT, "":
		return NewJWTManager(cfg.JWT)
	default:
		return nil, fmt.Errorf(
			"unknown token strategy %q",
			cfg.Auth.TokenStrategy,
		)
	}
}

var (
	_ TokenIssuer              = (*JWTManager)(nil)
	_ TokenIssuer              = (*OpaqueIssuer)(nil)
	_ middleware.TokenVerifier = (TokenIssuer)(nil)
)
