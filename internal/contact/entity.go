// AngelaMos | 2026
// entity.go

package contact

import (
	"time"

	"github.com/alwaysdemon/storefront/internal/config"
)

// Settings is the deployment-wide set of outbound contact handles. Exactly
// one record exists; it is created on first read.
type Settings struct {
	WhatsApp  string     `db:"whatsapp"   json:"whatsapp"`
	Instagram string     `db:"instagram"  json:"instagram"`
	Telegram  string     `db:"telegram"   json:"telegram"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

type Patch struct {
	WhatsApp  *string
	Instagram *string
	Telegram  *string
}

func (p Patch) Apply(s *Settings) {
	if p.WhatsApp != nil {
		s.WhatsApp = *p.WhatsApp
	}
	if p.Instagram != nil {
		s.Instagram = *p.Instagram
	}
	if p.Telegram != nil {
		s.Telegram = *p.Telegram
	}
}

func DefaultsFromConfig(cfg config.ContactsConfig) Settings {
	return Settings{
		WhatsApp:  cfg.WhatsApp,
		Instagram: cfg.Instagram,
		Telegram:  cfg.Telegram,
	}
}

// withDefaults fills any empty handle from d.
func (s Settings) withDefaults(d Settings) Settings {
	if s.WhatsApp == "" {
		s.WhatsApp = d.WhatsApp
	}
	if s.Instagram == "" {
		s.Instagram = d.Instagram
	}
	if s.Telegram == "" {
		s.Telegram = d.Telegram
	}
	return s
}
