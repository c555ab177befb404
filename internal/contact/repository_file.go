// AngelaMos | 2026
// repository_file.go

package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/alwaysdemon/storefront/internal/core"
)

type fileRepository struct {
	store *core.FileStore
}

func NewFileRepository(store *core.FileStore) Repository {
	return &fileRepository{store: store}
}

func (r *fileRepository) Init(
	ctx context.Context,
	defaults Settings,
) (*Settings, error) {
	existing, err := core.ReadSection[*Settings](ctx, r.store, core.SectionContactSettings)
	if err != nil {
		return nil, fmt.Errorf("init contact settings: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	var current Settings

	err = core.MutateSection(ctx, r.store, core.SectionContactSettings,
		func(s **Settings) error {
			if *s != nil {
				current = **s
				return core.ErrUnchanged
			}
			current = defaults
			*s = &current
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("init contact settings: %w", err)
	}

	return &current, nil
}

func (r *fileRepository) Update(
	ctx context.Context,
	patch Patch,
	defaults Settings,
	updatedAt time.Time,
) (*Settings, error) {
	var updated Settings

	err := core.MutateSection(ctx, r.store, core.SectionContactSettings,
		func(s **Settings) error {
			if *s == nil {
				created := defaults
				*s = &created
			}
			patch.Apply(*s)
			(*s).UpdatedAt = &updatedAt
			updated = **s
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("update contact settings: %w", err)
	}

	return &updated, nil
}
