// AngelaMos | 2026
// service_test.go

package product

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/core"
)

var testCatalog = config.CatalogConfig{
	PlaceholderImage: "https://via.placeholder.com/400",
	DefaultCategory:  "General",
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	fs, err := core.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	return NewService(NewFileRepository(fs), testCatalog)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateAppliesDefaultsAndRoundTrips(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{Name: "Demon Cap", Price: price("19.99")})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demon Cap", got.Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.Price))
	assert.Equal(t, "", got.Description)
	assert.Equal(t, testCatalog.PlaceholderImage, got.Image)
	assert.Equal(t, "General", got.Category)
	assert.Nil(t, got.UpdatedAt)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductRequest{Name: "  ", Price: price("1")})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateProductRequest{Name: "Cap"})
	assert.ErrorIs(t, err, ErrPriceRequired)

	_, err = svc.Create(ctx, CreateProductRequest{Name: "Cap", Price: price("-1")})
	assert.ErrorIs(t, err, ErrPriceNegative)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateAcceptsZeroPrice(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Create(context.Background(), CreateProductRequest{Name: "Sticker", Price: price("0")})
	require.NoError(t, err)
	assert.True(t, p.Price.IsZero())
}

func TestUpdateDistinguishesAbsentFromEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{
		Name:        "Hoodie",
		Description: "Warm",
		Price:       price("49.99"),
		Image:       "https://img.example/hoodie.png",
		Category:    "Apparel",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Patch{
		Description: ptr(""),
		Price:       price("0"),
		Image:       ptr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "Hoodie", updated.Name)
	assert.Equal(t, "", updated.Description)
	assert.True(t, updated.Price.IsZero())
	assert.Equal(t, testCatalog.PlaceholderImage, updated.Image)
	assert.Equal(t, "Apparel", updated.Category)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestUpdateRejectsEmptyNameAndNegativePrice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{Name: "Hoodie", Price: price("10")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, Patch{Name: ptr("")})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Update(ctx, created.ID, Patch{Price: price("-0.01")})
	assert.ErrorIs(t, err, ErrPriceNegative)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hoodie", got.Name)
	assert.Nil(t, got.UpdatedAt)
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "missing", Patch{Name: ptr("x")})
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteReturnsRemovedProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{Name: "Cap", Price: price("5")})
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSeedDefaultsOnlyWhenEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inserted, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaultCatalog), inserted)

	inserted, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(defaultCatalog))
	assert.Equal(t, defaultCatalog[0].name, list[0].Name)
}

func TestFileStoreKeepsPricesNumeric(t *testing.T) {
	fs, err := core.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	svc := NewService(NewFileRepository(fs), testCatalog)

	_, err = svc.SeedDefaults(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(fs.Path())
	require.NoError(t, err)

	var doc struct {
		Products []map[string]json.RawMessage `json:"products"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.NotEmpty(t, doc.Products)

	for _, p := range doc.Products {
		raw := p["price"]
		require.NotEmpty(t, raw)
		assert.NotEqual(t, byte('"'), raw[0], string(raw))
	}
}

func TestLookupName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{Name: "Demon Cap", Price: price("19.99")})
	require.NoError(t, err)

	name, err := svc.LookupName(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Demon Cap", name)

	_, err = svc.LookupName(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
