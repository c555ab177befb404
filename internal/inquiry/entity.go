// AngelaMos | 2026
// entity.go

package inquiry

import (
	"time"
)

const (
	PlatformWhatsApp  = "whatsapp"
	PlatformInstagram = "instagram"
	PlatformTelegram  = "telegram"

	DefaultCustomerName = "Anonymous"
	DefaultMaxEntries   = 100
)

var Platforms = []string{PlatformWhatsApp, PlatformInstagram, PlatformTelegram}

func IsValidPlatform(p string) bool {
	switch p {
	case PlatformWhatsApp, PlatformInstagram, PlatformTelegram:
		return true
	default:
		return false
	}
}

// Inquiry records a shopper reaching out about a product. The product name
// is a snapshot and survives deletion of the product.
type Inquiry struct {
	ID           string    `db:"id"            json:"id"`
	ProductID    string    `db:"product_id"    json:"productId"`
	ProductName  string    `db:"product_name"  json:"productName"`
	Platform     string    `db:"platform"      json:"platform"`
	CustomerName string    `db:"customer_name" json:"customerName"`
	CreatedAt    time.Time `db:"created_at"    json:"timestamp"`
}
