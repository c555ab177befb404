// AngelaMos | 2026
// repository.go

package inquiry

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/alwaysdemon/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, inq *Inquiry, maxEntries int) error
	List(ctx context.Context) ([]Inquiry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	CountByPlatform(ctx context.Context) (map[string]int, error)
}

// inquiryLockKey serializes insert-and-trim across every API replica.
const inquiryLockKey int64 = 0x696e71

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const inquiryColumns = `id, product_id, product_name, platform, customer_name, created_at`

func (r *repository) Create(
	ctx context.Context,
	inq *Inquiry,
	maxEntries int,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := core.LockXact(ctx, tx, inquiryLockKey); err != nil {
			return err
		}

		query := `
			INSERT INTO inquiries (` + inquiryColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6)`

		_, err := tx.ExecContext(ctx, query,
			inq.ID,
			inq.ProductID,
			inq.ProductName,
			inq.Platform,
			inq.CustomerName,
			inq.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert inquiry: %w", err)
		}

		trim := `
			DELETE FROM inquiries
			WHERE seq NOT IN (
				SELECT seq FROM inquiries ORDER BY seq DESC LIMIT $1
			)`

		if _, err := tx.ExecContext(ctx, trim, maxEntries); err != nil {
			return fmt.Errorf("trim inquiries: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries ORDER BY seq DESC`

	inquiries := []Inquiry{}
	if err := r.db.SelectContext(ctx, &inquiries, query); err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}

	return inquiries, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete inquiry: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Clear(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inquiries`)
	if err != nil {
		return 0, fmt.Errorf("clear inquiries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear inquiries: %w", err)
	}

	return int(rows), nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM inquiries`); err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return total, nil
}

func (r *repository) CountByPlatform(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Platform string `db:"platform"`
		Total    int    `db:"total"`
	}

	query := `SELECT platform, COUNT(*) AS total FROM inquiries GROUP BY platform`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count inquiries by platform: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Platform] = row.Total
	}

	return counts, nil
}
