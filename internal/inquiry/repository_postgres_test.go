// AngelaMos | 2026
// repository_postgres_test.go

//go:build integration

package inquiry

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/core"
)

// Run with: STOREFRONT_TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/inquiry/
func newPostgresTestRepository(t *testing.T) Repository {
	t.Helper()

	url := os.Getenv("STOREFRONT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("STOREFRONT_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := core.NewDatabase(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, core.Migrate(ctx, db.DB))

	_, err = db.DB.ExecContext(ctx, `TRUNCATE inquiries`)
	require.NoError(t, err)

	return NewRepository(db.DB)
}

func TestPostgresConcurrentCreatesHoldCap(t *testing.T) {
	repo := newPostgresTestRepository(t)
	ctx := context.Background()

	const (
		writers = 20
		limit   = 5
	)

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &Inquiry{
				ID:           fmt.Sprintf("inq-%02d", i),
				Platform:     PlatformWhatsApp,
				CustomerName: "Anonymous",
				CreatedAt:    time.Now().UTC(),
			}, limit)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, limit, total)
}
