package product

import (
	"context"
	"fmt"
	"strings"

	"hoodies-be/internal/logger"

	"go.uber.org/zap"
)

const FeaturedLimit = 4

type Service interface {
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Featured(ctx context.Context) ([]*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, input Input) (*Product, error)
	Update(ctx context.Context, id int64, input Input) (*Product, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	switch opts.Sort {
	case SortNewest, SortPriceLow, SortPriceHigh:
	default:
		opts.Sort = SortNewest
	}
	return s.repo.List(ctx, opts)
}

// Featured returns the first few in-stock products for the home page.
func (s *service) Featured(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx, ListOptions{InStock: true, Limit: FeaturedLimit})
}

func (s *service) Get(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input Input) (*Product, error) {
	input, err := normalize(input)
	if err != nil {
		logger.FromCtx(ctx).Warn("rejected product input",
			zap.String("layer", "service"),
			zap.String("method", "Create"),
			zap.Error(err),
		)
		return nil, err
	}
	return s.repo.Create(ctx, input)
}

func (s *service) Update(ctx context.Context, id int64, input Input) (*Product, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	input, err := normalize(input)
	if err != nil {
		logger.FromCtx(ctx).Warn("rejected product input",
			zap.String("layer", "service"),
			zap.String("method", "Update"),
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return s.repo.Update(ctx, id, input)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// normalize trims the input and enforces name, non-negative price and at least one size.
func normalize(input Input) (Input, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if input.Price.IsNegative() {
		return input, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}

	sizes := make([]string, 0, len(input.Sizes))
	seen := make(map[string]bool, len(input.Sizes))
	for _, size := range input.Sizes {
		size = strings.TrimSpace(size)
		if size == "" || seen[size] {
			continue
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	if len(sizes) == 0 {
		return input, fmt.Errorf("%w: at least one size is required", ErrInvalidProduct)
	}
	input.Sizes = sizes

	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		input.Description = nil
	}
	if input.ImageURL != nil && strings.TrimSpace(*input.ImageURL) == "" {
		input.ImageURL = nil
	}

	return input, nil
}
