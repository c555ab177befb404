// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/alwaysdemon/storefront/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(
		ctx context.Context,
		id string,
		patch Patch,
		updatedAt time.Time,
	) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
	Count(ctx context.Context) (int, error)
	SeedIfEmpty(ctx context.Context, items []Product) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, price, image, category, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, id ASC`

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	if err := insertProduct(ctx, r.db, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update merges the patch in a single statement so concurrent patches to
// different fields never overwrite each other.
func (r *repository) Update(
	ctx context.Context,
	id string,
	patch Patch,
	updatedAt time.Time,
) (*Product, error) {
	query := `
		UPDATE products SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			price       = COALESCE($4::numeric, price),
			image       = COALESCE($5, image),
			category    = COALESCE($6, category),
			updated_at  = $7
		WHERE id = $1
		RETURNING ` + productColumns

	var p Product
	err := r.db.GetContext(ctx, &p, query,
		id,
		patch.Name,
		patch.Description,
		patch.Price,
		patch.Image,
		patch.Category,
		updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id string) (*Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("delete product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	return &p, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (r *repository) SeedIfEmpty(
	ctx context.Context,
	items []Product,
) (int, error) {
	inserted := 0

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `LOCK TABLE products IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock products: %w", err)
		}

		var total int
		if err := tx.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if total > 0 {
			return nil
		}

		for i := range items {
			if err := insertProduct(ctx, tx, &items[i]); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}

	return inserted, nil
}

func insertProduct(ctx context.Context, db core.DBTX, p *Product) error {
	query := `
		INSERT INTO products (id, name, description, price, image, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Image,
		p.Category,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}
