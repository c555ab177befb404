// AngelaMos | 2026
// service.go

package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alwaysdemon/storefront/internal/core"
)

var (
	ErrInvalidPlatform = errors.New("invalid platform")
	ErrProductRequired = errors.New("product reference required")
	ErrUnknownProduct  = errors.New("unknown product")
)

// ProductLookup resolves a product id to its current name.
type ProductLookup interface {
	LookupName(ctx context.Context, id string) (string, error)
}

type Recorder interface {
	InquiryCreated(platform string)
	InquiriesCleared()
}

type Service struct {
	repo       Repository
	products   ProductLookup
	recorder   Recorder
	maxEntries int
	tracer     trace.Tracer
	now        func() time.Time
}

func NewService(
	repo Repository,
	products ProductLookup,
	recorder Recorder,
	maxEntries int,
) *Service {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &Service{
		repo:       repo,
		products:   products,
		recorder:   recorder,
		maxEntries: maxEntries,
		tracer:     otel.Tracer("github.com/alwaysdemon/storefront/internal/inquiry"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and records an inquiry at the head of the log, evicting
// the oldest entries beyond the configured maximum in the same write.
func (s *Service) Create(
	ctx context.Context,
	req CreateInquiryRequest,
) (*Inquiry, error) {
	ctx, span := s.tracer.Start(ctx, "inquiry.create")
	defer span.End()

	inq, err := s.build(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.repo.Create(ctx, inq, s.maxEntries); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failure")
		return nil, err
	}

	span.AddEvent("inquiry.recorded", trace.WithAttributes(
		attribute.String("inquiry.id", inq.ID),
		attribute.String("inquiry.platform", inq.Platform),
	))

	if s.recorder != nil {
		s.recorder.InquiryCreated(inq.Platform)
	}

	return inq, nil
}

func (s *Service) build(
	ctx context.Context,
	req CreateInquiryRequest,
) (*Inquiry, error) {
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if !IsValidPlatform(platform) {
		return nil, fmt.Errorf("create inquiry: %w: %w", ErrInvalidPlatform, core.ErrInvalidInput)
	}

	productID := strings.TrimSpace(req.ProductID)
	productName := strings.TrimSpace(req.ProductName)
	if productID == "" && productName == "" {
		return nil, fmt.Errorf("create inquiry: %w: %w", ErrProductRequired, core.ErrInvalidInput)
	}

	if productName == "" {
		name, err := s.lookupName(ctx, productID)
		if err != nil {
			return nil, err
		}
		productName = name
	}

	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = DefaultCustomerName
	}

	return &Inquiry{
		ID:           uuid.New().String(),
		ProductID:    productID,
		ProductName:  productName,
		Platform:     platform,
		CustomerName: customer,
		CreatedAt:    s.now(),
	}, nil
}

func (s *Service) lookupName(ctx context.Context, productID string) (string, error) {
	if s.products == nil {
		return "", fmt.Errorf("create inquiry: %w: %w", ErrProductRequired, core.ErrInvalidInput)
	}

	name, err := s.products.LookupName(ctx, productID)
	if errors.Is(err, core.ErrNotFound) {
		return "", fmt.Errorf("create inquiry: %w: %w", ErrUnknownProduct, core.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("look up product: %w", err)
	}

	return name, nil
}

// List returns every inquiry, newest first.
func (s *Service) List(ctx context.Context) ([]Inquiry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Clear(ctx context.Context) (int, error) {
	removed, err := s.repo.Clear(ctx)
	if err != nil {
		return 0, err
	}

	core.AddSpanEvent(ctx, "inquiry.cleared", attribute.Int("inquiry.removed", removed))

	if s.recorder != nil {
		s.recorder.InquiriesCleared()
	}

	return removed, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// CountByPlatform always reports every known platform, zero when unused.
func (s *Service) CountByPlatform(ctx context.Context) (map[string]int, error) {
	counts, err := s.repo.CountByPlatform(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(Platforms))
	for _, p := range Platforms {
		out[p] = counts[p]
	}
	return out, nil
}
