package order

import (
	"context"
	"strings"

	"hoodies-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	MyOrders(ctx context.Context, userID string) ([]*Order, error)
	AdminList(ctx context.Context, status string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Stats(ctx context.Context) (*Stats, error)
}

// ProductCounter is the slice of the catalogue the dashboard needs.
type ProductCounter interface {
	Count(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	products ProductCounter
}

func NewService(repo Repository, products ProductCounter) Service {
	return &service{repo: repo, products: products}
}

func (s *service) MyOrders(ctx context.Context, userID string) ([]*Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

// AdminList returns every order, optionally narrowed to one status.
// An empty or "all" status lists everything.
func (s *service) AdminList(ctx context.Context, status string) ([]*Order, error) {
	var opts ListOptions

	raw := strings.TrimSpace(status)
	if raw != "" && !strings.EqualFold(raw, "all") {
		st, err := ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		opts.Status = &st
	}

	return s.repo.List(ctx, opts)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", id),
		zap.String("status", status),
	)

	st, err := ParseStatus(status)
	if err != nil {
		log.Warn("rejected order status")
		return err
	}

	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		log.Warn("order status update failed", zap.Error(err))
		return err
	}

	log.Info("order status updated")
	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.Count(ctx, nil)
	if err != nil {
		return nil, err
	}

	pending := StatusPending
	pendingOrders, err := s.repo.Count(ctx, &pending)
	if err != nil {
		return nil, err
	}

	return &Stats{Products: products, Orders: orders, PendingOrders: pendingOrders}, nil
}
