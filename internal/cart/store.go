package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"hoodies-be/internal/logger"
	"hoodies-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Storage is durable key/value storage for serialized carts.
type Storage interface {
	// Load returns ErrNotFound when nothing is stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Store holds the lines of one session's cart. Every mutation writes the
// full line sequence back to storage; write failures are logged only.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	lines   []Line
}

// Open rehydrates the cart stored under key. Missing or corrupt data
// yields an empty cart. Any other read failure is returned so callers do
// not overwrite a cart they could not see.
func Open(ctx context.Context, storage Storage, key string) (*Store, error) {
	s := &Store{key: key, storage: storage, lines: []Line{}}

	data, err := storage.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	lines, err := decode(data)
	if err != nil {
		logger.FromCtx(ctx).Warn("discarding corrupt cart",
			zap.String("layer", "cart"),
			zap.String("key", key),
			zap.Error(err),
		)
		return s, nil
	}
	s.lines = lines

	return s, nil
}

func decode(data []byte) ([]Line, error) {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		k := fmt.Sprintf("%d/%s", l.Product.ID, l.Size)
		if l.Quantity < 1 || seen[k] {
			return nil, fmt.Errorf("decode cart: invalid line %s", k)
		}
		seen[k] = true
	}

	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.lines)
	if err == nil {
		err = s.storage.Save(ctx, s.key, data)
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to persist cart",
			zap.String("layer", "cart"),
			zap.String("key", s.key),
			zap.Error(err),
		)
	}
}

func (s *Store) indexOf(productID int64, size string) int {
	for i, l := range s.lines {
		if l.matches(productID, size) {
			return i
		}
	}
	return -1
}

// AddToCart increments the line for (product, size) or appends a new one.
// A quantity below one counts as one.
func (s *Store) AddToCart(ctx context.Context, p product.Product, size string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID, size); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, Line{Product: p, Size: size, Quantity: quantity})
	}

	s.persist(ctx)
}

// UpdateQuantity replaces a line's quantity; below one removes the line.
// Unknown keys are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, size string, quantity int) {
	if quantity < 1 {
		s.RemoveFromCart(ctx, productID, size)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID, size)
	if i < 0 {
		return
	}
	s.lines[i].Quantity = quantity

	s.persist(ctx)
}

func (s *Store) RemoveFromCart(ctx context.Context, productID int64, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID, size)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)

	s.persist(ctx)
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []Line{}
	s.persist(ctx)
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
