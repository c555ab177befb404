// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/alwaysdemon/storefront/internal/core"
)

type Repository interface {
	// Init creates the record from defaults when absent and returns the
	// stored record.
	Init(ctx context.Context, defaults Settings) (*Settings, error)
	// Update applies patch, creating the record from defaults first when
	// absent.
	Update(
		ctx context.Context,
		patch Patch,
		defaults Settings,
		updatedAt time.Time,
	) (*Settings, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Init(
	ctx context.Context,
	defaults Settings,
) (*Settings, error) {
	insert := `
		INSERT INTO contact_settings (id, whatsapp, instagram, telegram)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insert,
		defaults.WhatsApp,
		defaults.Instagram,
		defaults.Telegram,
	); err != nil {
		return nil, fmt.Errorf("init contact settings: %w", err)
	}

	query := `
		SELECT whatsapp, instagram, telegram, updated_at
		FROM contact_settings
		WHERE id = 1`

	var s Settings
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return nil, fmt.Errorf("get contact settings: %w", err)
	}

	return &s, nil
}

func (r *repository) Update(
	ctx context.Context,
	patch Patch,
	defaults Settings,
	updatedAt time.Time,
) (*Settings, error) {
	query := `
		INSERT INTO contact_settings (id, whatsapp, instagram, telegram, updated_at)
		VALUES (1, COALESCE($1, $4), COALESCE($2, $5), COALESCE($3, $6), $7)
		ON CONFLICT (id) DO UPDATE SET
			whatsapp   = COALESCE($1, contact_settings.whatsapp),
			instagram  = COALESCE($2, contact_settings.instagram),
			telegram   = COALESCE($3, contact_settings.telegram),
			updated_at = $7
		RETURNING whatsapp, instagram, telegram, updated_at`

	var s Settings
	err := r.db.GetContext(ctx, &s, query,
		patch.WhatsApp,
		patch.Instagram,
		patch.Telegram,
		defaults.WhatsApp,
		defaults.Instagram,
		defaults.Telegram,
		updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update contact settings: %w", err)
	}

	return &s, nil
}
