// AngelaMos | 2026
// repository_file.go

package inquiry

import (
	"context"
	"fmt"

	"github.com/alwaysdemon/storefront/internal/core"
)

type fileRepository struct {
	store *core.FileStore
}

// NewFileRepository keeps inquiries in document order, newest at index 0.
func NewFileRepository(store *core.FileStore) Repository {
	return &fileRepository{store: store}
}

func (r *fileRepository) Create(
	ctx context.Context,
	inq *Inquiry,
	maxEntries int,
) error {
	err := core.MutateSection(ctx, r.store, core.SectionInquiries,
		func(inquiries *[]Inquiry) error {
			next := make([]Inquiry, 0, len(*inquiries)+1)
			next = append(next, *inq)
			next = append(next, *inquiries...)
			if len(next) > maxEntries {
				next = next[:maxEntries]
			}
			*inquiries = next
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

func (r *fileRepository) List(ctx context.Context) ([]Inquiry, error) {
	inquiries, err := core.ReadSection[[]Inquiry](ctx, r.store, core.SectionInquiries)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	if inquiries == nil {
		inquiries = []Inquiry{}
	}
	return inquiries, nil
}

func (r *fileRepository) Delete(ctx context.Context, id string) error {
	err := core.MutateSection(ctx, r.store, core.SectionInquiries,
		func(inquiries *[]Inquiry) error {
			for i := range *inquiries {
				if (*inquiries)[i].ID != id {
					continue
				}
				*inquiries = append((*inquiries)[:i], (*inquiries)[i+1:]...)
				return nil
			}
			return core.ErrNotFound
		},
	)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	return nil
}

func (r *fileRepository) Clear(ctx context.Context) (int, error) {
	removed := 0

	err := core.MutateSection(ctx, r.store, core.SectionInquiries,
		func(inquiries *[]Inquiry) error {
			removed = len(*inquiries)
			*inquiries = []Inquiry{}
			return nil
		},
	)
	if err != nil {
		return 0, fmt.Errorf("clear inquiries: %w", err)
	}

	return removed, nil
}

func (r *fileRepository) Count(ctx context.Context) (int, error) {
	inquiries, err := core.ReadSection[[]Inquiry](ctx, r.store, core.SectionInquiries)
	if err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return len(inquiries), nil
}

func (r *fileRepository) CountByPlatform(ctx context.Context) (map[string]int, error) {
	inquiries, err := core.ReadSection[[]Inquiry](ctx, r.store, core.SectionInquiries)
	if err != nil {
		return nil, fmt.Errorf("count inquiries by platform: %w", err)
	}

	counts := make(map[string]int)
	for i := range inquiries {
		counts[inquiries[i].Platform]++
	}
	return counts, nil
}
