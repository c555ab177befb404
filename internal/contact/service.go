// AngelaMos | 2026
// service.go

package contact

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo     Repository
	defaults Settings
	now      func() time.Time
}

func NewService(repo Repository, defaults Settings) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the singleton, creating it from the defaults on first use.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	current, err := s.repo.Init(ctx, s.defaults)
	if err != nil {
		return nil, err
	}

	out := current.withDefaults(s.defaults)
	return &out, nil
}

// Update changes only the supplied handles. An explicitly empty handle
// falls back to its default.
func (s *Service) Update(ctx context.Context, patch Patch) (*Settings, error) {
	patch.WhatsApp = s.normalize(patch.WhatsApp, s.defaults.WhatsApp)
	patch.Instagram = s.normalize(patch.Instagram, s.defaults.Instagram)
	patch.Telegram = s.normalize(patch.Telegram, s.defaults.Telegram)

	updated, err := s.repo.Update(ctx, patch, s.defaults, s.now())
	if err != nil {
		return nil, err
	}

	out := updated.withDefaults(s.defaults)
	return &out, nil
}

func (s *Service) normalize(value *string, fallback string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		trimmed = fallback
	}
	return &trimmed
}
