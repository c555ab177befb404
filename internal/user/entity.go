// AngelaMos | 2026
// entity.go

package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/alwaysdemon/storefront/internal/core"
)

type User struct {
	ID           string    `db:"id"            json:"id"`
	Username     string    `db:"username"      json:"username"`
	Email        string    `db:"email"         json:"email"`
	PasswordHash string    `db:"password_hash" json:"password"`
	Role         string    `db:"role"          json:"role"`
	TokenHash    *string   `db:"token_hash"    json:"tokenHash,omitempty"`
	CreatedAt    time.Time `db:"created_at"    json:"createdAt"`
}

var (
	ErrUsernameExists = fmt.Errorf("username exists: %w", core.ErrDuplicateKey)
	ErrEmailExists    = fmt.Errorf("email exists: %w", core.ErrDuplicateKey)
	ErrInvalidRole    = errors.New("invalid role")
)
