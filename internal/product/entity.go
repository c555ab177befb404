// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prices are JSON numbers everywhere they are encoded, in API responses and
// in the file store alike.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          string          `db:"id"          json:"id"`
	Name        string          `db:"name"        json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price"       json:"price"`
	Image       string          `db:"image"       json:"image"`
	Category    string          `db:"category"    json:"category"`
	CreatedAt   time.Time       `db:"created_at"  json:"createdAt"`
	UpdatedAt   *time.Time      `db:"updated_at"  json:"updatedAt,omitempty"`
}

// Patch holds the fields of an update. A nil field is left unchanged.
type Patch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Category    *string
}

// Apply merges the non-nil fields of p into prod.
func (p Patch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Image != nil {
		prod.Image = *p.Image
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
}
