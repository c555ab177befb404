// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alwaysdemon/storefront/internal/core"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	IdentityKey contextKey = "identity"
)

// Identity is the validated caller behind a bearer token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

type TokenVerifier interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// Authorize is the single access rule: an admin requirement needs an
// identity whose role is admin, every other requirement is allowed even
// for anonymous callers. A missing identity yields ErrUnauthorized and a
// wrong role ErrForbidden.
func Authorize(identity *Identity, requiredRole string) error {
	if requiredRole != RoleAdmin {
		return nil
	}

	if identity == nil {
		return fmt.Errorf("authorize: %w", core.ErrUnauthorized)
	}

	if !identity.IsAdmin() {
		return fmt.Errorf("authorize: %w", core.ErrForbidden)
	}

	return nil
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			identity, err := verifier.Validate(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := Authorize(GetIdentity(r.Context()), role)

			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, core.ErrUnauthorized):
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
			default:
				core.JSONError(
					w,
					core.ForbiddenError("admin access required"),
				)
			}
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.InternalServerError(w, err)
	}
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}
