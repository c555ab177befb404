// AngelaMos | 2026
// repository_file.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alwaysdemon/storefront/internal/core"
)

type fileRepository struct {
	store *core.FileStore
}

func NewFileRepository(store *core.FileStore) Repository {
	return &fileRepository{store: store}
}

func (r *fileRepository) Create(ctx context.Context, user *User) error {
	return core.MutateSection(ctx, r.store, core.SectionUsers,
		func(users *[]User) error {
			for _, existing := range *users {
				if strings.EqualFold(existing.Username, user.Username) {
					return fmt.Errorf("create user: %w", ErrUsernameExists)
				}
				if strings.EqualFold(existing.Email, user.Email) {
					return fmt.Errorf("create user: %w", ErrEmailExists)
				}
			}
			*users = append(*users, *user)
			return nil
		},
	)
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.find(ctx, "get user", func(u *User) bool {
		return u.ID == id
	})
}

// GetByLogin prefers a username match over an email match.
func (r *fileRepository) GetByLogin(
	ctx context.Context,
	login string,
) (*User, error) {
	users, err := core.ReadSection[[]User](ctx, r.store, core.SectionUsers)
	if err != nil {
		return nil, fmt.Errorf("get user by login: %w", err)
	}

	var byEmail *User
	for i := range users {
		if strings.EqualFold(users[i].Username, login) {
			return &users[i], nil
		}
		if byEmail == nil && strings.EqualFold(users[i].Email, login) {
			byEmail = &users[i]
		}
	}

	if byEmail == nil {
		return nil, fmt.Errorf("get user by login: %w", core.ErrNotFound)
	}
	return byEmail, nil
}

func (r *fileRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*User, error) {
	return r.find(ctx, "get user by token", func(u *User) bool {
		return u.TokenHash != nil && *u.TokenHash == tokenHash
	})
}

func (r *fileRepository) SetTokenHash(
	ctx context.Context,
	id, tokenHash string,
) error {
	return r.update(ctx, "set token hash", id, func(u *User) {
		u.TokenHash = &tokenHash
	})
}

func (r *fileRepository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.update(ctx, "update password", id, func(u *User) {
		u.PasswordHash = passwordHash
	})
}

func (r *fileRepository) List(ctx context.Context) ([]User, error) {
	users, err := core.ReadSection[[]User](ctx, r.store, core.SectionUsers)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []User{}
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}

func (r *fileRepository) Count(ctx context.Context) (int, error) {
	users, err := core.ReadSection[[]User](ctx, r.store, core.SectionUsers)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return len(users), nil
}

func (r *fileRepository) find(
	ctx context.Context,
	op string,
	match func(*User) bool,
) (*User, error) {
	users, err := core.ReadSection[[]User](ctx, r.store, core.SectionUsers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range users {
		if match(&users[i]) {
			return &users[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
}

func (r *fileRepository) update(
	ctx context.Context,
	op, id string,
	apply func(*User),
) error {
	return core.MutateSection(ctx, r.store, core.SectionUsers,
		func(users *[]User) error {
			for i := range *users {
				if (*users)[i].ID == id {
					apply(&(*users)[i])
					return nil
				}
			}
			return fmt.Errorf("%s: %w", op, core.ErrNotFound)
		},
	)
}
