// AngelaMos | 2026
// service_test.go

package contact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/core"
)

var testDefaults = DefaultsFromConfig(config.ContactsConfig{
	WhatsApp:  "+1234567890",
	Instagram: "always_demon",
	Telegram:  "always_demon",
})

func newTestService(t *testing.T) (*Service, *core.FileStore) {
	t.Helper()

	fs, err := core.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	return NewService(NewFileRepository(fs), testDefaults), fs
}

func strPtr(s string) *string {
	return &s
}

func TestGetCreatesDefaultsLazily(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	before, err := core.ReadSection[*Settings](ctx, fs, core.SectionContactSettings)
	require.NoError(t, err)
	assert.Nil(t, before)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+1234567890", got.WhatsApp)
	assert.Equal(t, "always_demon", got.Instagram)
	assert.Equal(t, "always_demon", got.Telegram)

	after, err := core.ReadSection[*Settings](ctx, fs, core.SectionContactSettings)
	require.NoError(t, err)
	require.NotNil(t, after)
}

func TestGetDoesNotRewriteExistingSettings(t *testing.T) {
	svc, fs := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	before, err := os.Stat(fs.Path())
	require.NoError(t, err)

	for range 2 {
		_, err = svc.Get(ctx)
		require.NoError(t, err)
	}

	after, err := os.Stat(fs.Path())
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.True(t, os.SameFile(before, after))
}

func TestUpdateKeepsUnspecifiedHandles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, Patch{Instagram: strPtr("demon_shop")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, Patch{WhatsApp: strPtr("123")})
	require.NoError(t, err)
	assert.Equal(t, "123", updated.WhatsApp)
	assert.Equal(t, "demon_shop", updated.Instagram)
	assert.Equal(t, "always_demon", updated.Telegram)
	require.NotNil(t, updated.UpdatedAt)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123", got.WhatsApp)
	assert.Equal(t, "demon_shop", got.Instagram)
}

func TestUpdateEmptyHandleFallsBackToDefault(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, Patch{Telegram: strPtr("custom")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, Patch{Telegram: strPtr("   ")})
	require.NoError(t, err)
	assert.Equal(t, "always_demon", updated.Telegram)
}
