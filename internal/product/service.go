// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/core"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrPriceRequired = errors.New("price is required")
	ErrPriceNegative = errors.New("price must not be negative")
)

type Service struct {
	repo             Repository
	placeholderImage string
	defaultCategory  string
	now              func() time.Time
}

func NewService(repo Repository, cfg config.CatalogConfig) *Service {
	return &Service{
		repo:             repo,
		placeholderImage: cfg.PlaceholderImage,
		defaultCategory:  cfg.DefaultCategory,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateProductRequest,
) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("create product: %w: %w", ErrNameRequired, core.ErrInvalidInput)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("create product: %w: %w", ErrPriceRequired, core.ErrInvalidInput)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("create product: %w: %w", ErrPriceNegative, core.ErrInvalidInput)
	}

	p := &Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: req.Description,
		Price:       *req.Price,
		Image:       s.orDefault(req.Image, s.placeholderImage),
		Category:    s.orDefault(req.Category, s.defaultCategory),
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Update applies the supplied fields only. An explicit empty image or
// category resets it to the catalog default; an explicit empty name or a
// negative price is rejected before the store is touched.
func (s *Service) Update(
	ctx context.Context,
	id string,
	patch Patch,
) (*Product, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("update product: %w: %w", ErrNameRequired, core.ErrInvalidInput)
		}
		patch.Name = &name
	}

	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, fmt.Errorf("update product: %w: %w", ErrPriceNegative, core.ErrInvalidInput)
	}

	if patch.Image != nil {
		image := s.orDefault(*patch.Image, s.placeholderImage)
		patch.Image = &image
	}

	if patch.Category != nil {
		category := s.orDefault(*patch.Category, s.defaultCategory)
		patch.Category = &category
	}

	return s.repo.Update(ctx, id, patch, s.now())
}

func (s *Service) Delete(ctx context.Context, id string) (*Product, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// LookupName returns the product's name for inquiry snapshots.
func (s *Service) LookupName(ctx context.Context, id string) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// SeedDefaults inserts the starter catalog when the collection is empty.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	now := s.now()

	items := make([]Product, 0, len(defaultCatalog))
	for i, item := range defaultCatalog {
		items = append(items, Product{
			ID:          uuid.New().String(),
			Name:        item.name,
			Description: item.description,
			Price:       decimal.RequireFromString(item.price),
			Image:       item.image,
			Category:    item.category,
			CreatedAt:   now.Add(time.Duration(i) * time.Millisecond),
		})
	}

	return s.repo.SeedIfEmpty(ctx, items)
}

func (s *Service) orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

type catalogItem struct {
	name        string
	description string
	price       string
	image       string
	category    string
}

var defaultCatalog = []catalogItem{
	{
		name:        "Demon Hoodie",
		description: "Premium quality black hoodie with demon print. Made with 100% cotton for ultimate comfort.",
		price:       "59.99",
		image:       "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400&h=400&fit=crop",
		category:    "Clothing",
	},
	{
		name:        "Dark Soul T-Shirt",
		description: "Exclusive design t-shirt featuring unique demon artwork. Limited edition.",
		price:       "34.99",
		image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop",
		category:    "Clothing",
	},
	{
		name:        "Demon Cap",
		description: "Stylish cap with embroidered demon logo. Adjustable strap for perfect fit.",
		price:       "24.99",
		image:       "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=400&h=400&fit=crop",
		category:    "Accessories",
	},
	{
		name:        "Shadow Jacket",
		description: "Lightweight jacket perfect for any season. Water-resistant material.",
		price:       "89.99",
		image:       "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=400&h=400&fit=crop",
		category:    "Clothing",
	},
}
