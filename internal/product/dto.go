// AngelaMos | 2026
// dto.go

package product

import (
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string           `json:"name"        validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Image       string           `json:"image"       validate:"omitempty,max=2048"`
	Category    string           `json:"category"    validate:"max=100"`
}

// UpdateProductRequest distinguishes an absent field (nil) from an explicit
// zero value such as a price of 0 or an empty description.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"        validate:"omitempty,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"       validate:"omitempty,max=2048"`
	Category    *string          `json:"category,omitempty"    validate:"omitempty,max=100"`
}

func (r UpdateProductRequest) ToPatch() Patch {
	return Patch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
	}
}
