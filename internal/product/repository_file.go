// AngelaMos | 2026
// repository_file.go

package product

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

func (r *fileRepository) List(ctx context.Context) ([]Product, error) {
	products, err := core.ReadSection[[]Product](ctx, r.store, core.SectionProducts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	products, err := core.ReadSection[[]Product](ctx, r.store, core.SectionProducts)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}

	return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
}

func (r *fileRepository) Create(ctx context.Context, p *Product) error {
	err := core.MutateSection(ctx, r.store, core.SectionProducts,
		func(products *[]Product) error {
			*products = append(*products, *p)
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *fileRepository) Update(
	ctx context.Context,
	id string,
	patch Patch,
	updatedAt time.Time,
) (*Product, error) {
	var updated Product

	err := core.MutateSection(ctx, r.store, core.SectionProducts,
		func(products *[]Product) error {
			for i := range *products {
				p := &(*products)[i]
				if p.ID != id {
					continue
				}
				patch.Apply(p)
				p.UpdatedAt = &updatedAt
				updated = *p
				return nil
			}
			return core.ErrNotFound
		},
	)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return &updated, nil
}

func (r *fileRepository) Delete(ctx context.Context, id string) (*Product, error) {
	var removed Product

	err := core.MutateSection(ctx, r.store, core.SectionProducts,
		func(products *[]Product) error {
			for i := range *products {
				if (*products)[i].ID != id {
					continue
				}
				removed = (*products)[i]
				*products = append((*products)[:i], (*products)[i+1:]...)
				return nil
			}
			return core.ErrNotFound
		},
	)
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	return &removed, nil
}

func (r *fileRepository) Count(ctx context.Context) (int, error) {
	products, err := core.ReadSection[[]Product](ctx, r.store, core.SectionProducts)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return len(products), nil
}

func (r *fileRepository) SeedIfEmpty(
	ctx context.Context,
	items []Product,
) (int, error) {
	inserted := 0

	err := core.MutateSection(ctx, r.store, core.SectionProducts,
		func(products *[]Product) error {
			if len(*products) > 0 {
				return nil
			}
			*products = append(*products, items...)
			inserted = len(items)
			return nil
		},
	)
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}

	return inserted, nil
}
