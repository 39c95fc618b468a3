package cart

import (
	"context"
	"strings"

	"hoodies-be/internal/logger"
	"hoodies-be/internal/pricing"
	"hoodies-be/internal/product"

	"go.uber.org/zap"
)

// Service is the cart use-case layer used by the HTTP handlers.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	Add(ctx context.Context, params AddParams) (*View, error)
	UpdateQuantity(ctx context.Context, params UpdateParams) (*View, error)
	Remove(ctx context.Context, sessionID string, productID int64, size string) (*View, error)
	Clear(ctx context.Context, sessionID string) error
}

type AddParams struct {
	SessionID string
	ProductID int64
	Size      string
	Quantity  int
}

type UpdateParams struct {
	SessionID string
	ProductID int64
	Size      string
	Quantity  int
}

type service struct {
	carts    *Manager
	products product.Repository
}

func NewService(carts *Manager, products product.Repository) Service {
	return &service{carts: carts, products: products}
}

// ViewOf snapshots a store together with its pricing summary.
func ViewOf(store *Store) *View {
	return &View{
		Lines:      store.Lines(),
		TotalItems: store.TotalItems(),
		Summary:    pricing.Summarize(store.TotalPrice()),
	}
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	store, err := s.carts.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ViewOf(store), nil
}

func (s *service) Add(ctx context.Context, params AddParams) (*View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
		zap.Int64("product_id", params.ProductID),
		zap.String("size", params.Size),
		zap.Int("quantity", params.Quantity),
	)

	size := strings.TrimSpace(params.Size)
	if size == "" {
		return nil, ErrSizeRequired
	}

	if strings.TrimSpace(params.SessionID) == "" {
		return nil, ErrMissingSession
	}

	p, err := s.products.GetByID(ctx, params.ProductID)
	if err != nil {
		log.Warn("product lookup failed", zap.Error(err))
		return nil, err
	}
	if !p.InStock {
		return nil, ErrOutOfStock
	}
	if !p.HasSize(size) {
		return nil, ErrInvalidSize
	}

	store, release, err := s.carts.Acquire(ctx, params.SessionID)
	if err != nil {
		log.Error("failed to open cart", zap.Error(err))
		return nil, err
	}
	defer release()

	store.AddToCart(ctx, *p, size, params.Quantity)

	log.Info("added to cart", zap.Int("total_items", store.TotalItems()))
	return ViewOf(store), nil
}

func (s *service) UpdateQuantity(ctx context.Context, params UpdateParams) (*View, error) {
	store, release, err := s.carts.Acquire(ctx, params.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	store.UpdateQuantity(ctx, params.ProductID, params.Size, params.Quantity)
	return ViewOf(store), nil
}

func (s *service) Remove(ctx context.Context, sessionID string, productID int64, size string) (*View, error) {
	store, release, err := s.carts.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	store.RemoveFromCart(ctx, productID, size)
	return ViewOf(store), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	store, release, err := s.carts.Acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer release()

	store.ClearCart(ctx)
	return nil
}
