// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/core"
	"github.com/alwaysdemon/storefront/internal/middleware"
)

const (
	InvalidCredentialsMessage = "Invalid username or password."

	minUsernameLen = 3
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = fmt.Errorf("username taken: %w", core.ErrDuplicateKey)
	ErrEmailTaken         = fmt.Errorf("email taken: %w", core.ErrDuplicateKey)
)

type UserInfo struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserProvider interface {
	// GetByLogin matches a username or an email, ignoring case.
	GetByLogin(ctx context.Context, login string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		username, email, passwordHash, role string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	users  UserProvider
	issuer TokenIssuer
}

func NewService(users UserProvider, issuer TokenIssuer) *Service {
	return &Service{
		users:  users,
		issuer: issuer,
	}
}

// Signup always creates a regular user. Admin accounts come only from
// EnsureAdmin.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*AuthResponse, error) {
	req.Normalize()
	if utf8.RuneCountInString(req.Username) < minUsernameLen {
		return nil, fmt.Errorf("signup: username %q too short: %w", req.Username, core.ErrInvalidInput)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(
		ctx,
		req.Username,
		req.Email,
		passwordHash,
		middleware.RoleUser,
	)
	if err != nil {
		return nil, err
	}

	// The account stays if issuing fails; the caller recovers through Login.
	resp, err := s.createAuthResponse(ctx, user, "Account created successfully!")
	if err != nil {
		slog.ErrorContext(ctx, "signup token issue failed",
			"user_id", user.ID,
			"error", err,
		)
		return nil, err
	}

	return resp, nil
}

// Login answers ErrInvalidCredentials for both an unknown login and a wrong
// password, and spends the same hashing work on either path.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.users.GetByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	check, err := core.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash unreadable",
			"user_id", user.ID,
			"error", err,
		)
		return nil, ErrInvalidCredentials
	}

	if !check.Match {
		return nil, ErrInvalidCredentials
	}

	if check.Upgrade != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, check.Upgrade); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.createAuthResponse(ctx, user, "Login successful!")
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("get current user: %w", core.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// EnsureAdmin provisions the configured bootstrap admin if no account with
// that username or email exists yet. It reports whether one was created.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	cfg config.BootstrapConfig,
) (bool, error) {
	if !cfg.Enabled() {
		return false, nil
	}

	if _, err := s.users.GetByLogin(ctx, cfg.AdminUsername); err == nil {
		return false, nil
	} else if !errors.Is(err, core.ErrNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	email := cfg.AdminEmail
	if email == "" {
		email = strings.ToLower(cfg.AdminUsername) + "@localhost"
	}

	passwordHash, err := core.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	_, err = s.users.Create(
		ctx,
		cfg.AdminUsername,
		strings.ToLower(email),
		passwordHash,
		middleware.RoleAdmin,
	)
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	return true, nil
}

func (s *Service) createAuthResponse(
	ctx context.Context,
	user *UserInfo,
	message string,
) (*AuthResponse, error) {
	token, expiresAt, err := s.issuer.Issue(ctx, middleware.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		Message:   message,
		User:      toUserResponse(user),
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, nil
}
