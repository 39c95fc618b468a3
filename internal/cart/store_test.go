package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hoodies-be/internal/pricing"
	"hoodies-be/internal/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// memoryStorage is an in-process Storage double.
type memoryStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	loadErr error
	saveErr error

	// loadDelay widens the window between reading and writing a cart.
	loadDelay time.Duration
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: map[string][]byte{}}
}

func (m *memoryStorage) Load(_ context.Context, key string) ([]byte, error) {
	time.Sleep(m.loadDelay)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *memoryStorage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = data
	return nil
}

func hoodie(id int64, price int64) product.Product {
	return product.Product{
		ID:      id,
		Name:    "Hoodie",
		Price:   decimal.NewFromInt(price),
		Sizes:   []string{"S", "M", "L"},
		InStock: true,
	}
}

const testKey = "cart:test"

func mustOpen(t *testing.T, storage Storage) *Store {
	t.Helper()
	store, err := Open(context.Background(), storage, testKey)
	require.NoError(t, err)
	return store
}

func TestStore_AddSameKeyIncrements(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, newMemoryStorage())
	p := hoodie(1, 500)

	quantities := []int{1, 2, 3, 4}
	sum := 0
	for _, q := range quantities {
		store.AddToCart(ctx, p, "M", q)
		sum += q
	}

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, sum, lines[0].Quantity)
	assert.Equal(t, sum, store.TotalItems())
}

func TestStore_DistinctSizesAreDistinctLines(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, newMemoryStorage())
	p := hoodie(1, 500)

	store.AddToCart(ctx, p, "M", 1)
	store.AddToCart(ctx, p, "L", 1)
	store.AddToCart(ctx, hoodie(2, 300), "M", 0)

	lines := store.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "M", lines[0].Size)
	assert.Equal(t, "L", lines[1].Size)
	assert.Equal(t, 1, lines[2].Quantity, "non-positive add counts as one")
	assert.Equal(t, 3, store.TotalItems())
}

func TestStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	p := hoodie(1, 500)

	t.Run("Replaces", func(t *testing.T) {
		store := mustOpen(t, newMemoryStorage())
		store.AddToCart(ctx, p, "M", 1)

		store.UpdateQuantity(ctx, p.ID, "M", 5)
		assert.Equal(t, 5, store.TotalItems())
	})

	for _, q := range []int{0, -1, -10} {
		t.Run("RemovesBelowOne", func(t *testing.T) {
			store := mustOpen(t, newMemoryStorage())
			store.AddToCart(ctx, p, "M", 2)

			store.UpdateQuantity(ctx, p.ID, "M", q)
			assert.True(t, store.IsEmpty())
		})
	}

	t.Run("UnknownKeyIsNoop", func(t *testing.T) {
		storage := newMemoryStorage()
		store := mustOpen(t, storage)
		store.AddToCart(ctx, p, "M", 2)
		saves := storage.saves

		store.UpdateQuantity(ctx, p.ID, "XL", 4)
		store.UpdateQuantity(ctx, 99, "M", 4)

		assert.Equal(t, 2, store.TotalItems())
		assert.Equal(t, saves, storage.saves)
	})
}

func TestStore_RemoveFromCart(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	store := mustOpen(t, storage)
	p := hoodie(1, 500)

	store.AddToCart(ctx, p, "M", 1)
	store.AddToCart(ctx, p, "L", 1)

	store.RemoveFromCart(ctx, p.ID, "M")
	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "L", lines[0].Size)

	saves := storage.saves
	before := store.Lines()
	store.RemoveFromCart(ctx, p.ID, "M")
	assert.Equal(t, before, store.Lines())
	assert.Equal(t, saves, storage.saves)
}

func TestStore_ClearThenReloadIsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()

	store := mustOpen(t, storage)
	store.AddToCart(ctx, hoodie(1, 500), "M", 3)
	store.ClearCart(ctx)
	assert.True(t, store.IsEmpty())

	reloaded := mustOpen(t, storage)
	assert.True(t, reloaded.IsEmpty())
	assert.Equal(t, []byte("[]"), storage.data[testKey])
}

func TestStore_PersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	desc := "Heavyweight"

	p := hoodie(7, 1299)
	p.Description = &desc

	store := mustOpen(t, storage)
	store.AddToCart(ctx, p, "L", 2)
	store.AddToCart(ctx, hoodie(8, 450), "S", 1)

	reloaded := mustOpen(t, storage)
	lines := reloaded.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(7), lines[0].Product.ID)
	assert.Equal(t, "L", lines[0].Size)
	assert.Equal(t, 2, lines[0].Quantity)
	require.NotNil(t, lines[0].Product.Description)
	assert.Equal(t, desc, *lines[0].Product.Description)
	assert.True(t, store.TotalPrice().Equal(reloaded.TotalPrice()))
}

func TestStore_LoadOrDefault(t *testing.T) {
	cases := map[string]func(*memoryStorage){
		"Missing":    func(*memoryStorage) {},
		"Corrupt":    func(m *memoryStorage) { m.data[testKey] = []byte("{not json") },
		"WrongShape": func(m *memoryStorage) { m.data[testKey] = []byte(`{"items":1}`) },
		"ZeroQty":    func(m *memoryStorage) { m.data[testKey] = []byte(`[{"product":{"id":1},"size":"M","quantity":0}]`) },
		"DuplicateKey": func(m *memoryStorage) {
			m.data[testKey] = []byte(`[{"product":{"id":1},"size":"M","quantity":1},{"product":{"id":1},"size":"M","quantity":2}]`)
		},
		"Null": func(m *memoryStorage) { m.data[testKey] = []byte("null") },
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			storage := newMemoryStorage()
			setup(storage)

			var store *Store
			require.NotPanics(t, func() { store = mustOpen(t, storage) })
			assert.True(t, store.IsEmpty())
			assert.NotNil(t, store.Lines())
			assert.Equal(t, 0, store.TotalItems())
		})
	}
}

func TestStore_ReadErrorKeepsStoredCart(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()

	store := mustOpen(t, storage)
	store.AddToCart(ctx, hoodie(1, 500), "M", 2)
	store.AddToCart(ctx, hoodie(2, 300), "L", 3)
	saved := storage.data[testKey]
	saves := storage.saves

	storage.loadErr = errors.New("i/o timeout")
	_, err := Open(ctx, storage, testKey)
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, saves, storage.saves)

	m := NewManager(storage)
	_, _, err = m.Acquire(ctx, "test")
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, saved, storage.data[testKey])

	storage.loadErr = nil
	store, release, err := m.Acquire(ctx, "test")
	require.NoError(t, err)
	store.AddToCart(ctx, hoodie(3, 100), "S", 1)
	release()

	reloaded := mustOpen(t, storage)
	assert.Len(t, reloaded.Lines(), 3)
	assert.Equal(t, 6, reloaded.TotalItems())
}

func TestStore_SaveFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	storage.saveErr = errors.New("redis down")

	store := mustOpen(t, storage)
	store.AddToCart(ctx, hoodie(1, 500), "M", 2)

	assert.Equal(t, 2, store.TotalItems())
	assert.Equal(t, 1, storage.saves)
}

func TestStore_TotalPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("FreeShippingScenario", func(t *testing.T) {
		store := mustOpen(t, newMemoryStorage())
		store.AddToCart(ctx, hoodie(1, 500), "M", 2)

		total := store.TotalPrice()
		assert.True(t, decimal.NewFromInt(1000).Equal(total))
		assert.True(t, total.Equal(store.TotalPrice()), "total is stable without mutation")

		summary := pricing.Summarize(total)
		assert.True(t, summary.Shipping.IsZero())
		assert.True(t, decimal.NewFromInt(1000).Equal(summary.Total))
	})

	t.Run("FlatShippingScenario", func(t *testing.T) {
		store := mustOpen(t, newMemoryStorage())
		store.AddToCart(ctx, hoodie(2, 400), "L", 1)

		summary := pricing.Summarize(store.TotalPrice())
		assert.True(t, decimal.NewFromInt(400).Equal(summary.Subtotal))
		assert.True(t, decimal.NewFromInt(99).Equal(summary.Shipping))
		assert.True(t, decimal.NewFromInt(499).Equal(summary.Total))
	})

	t.Run("Empty", func(t *testing.T) {
		store := mustOpen(t, newMemoryStorage())
		assert.True(t, store.TotalPrice().IsZero())
	})
}

func TestStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := mustOpen(t, newMemoryStorage())
	p := hoodie(1, 100)

	const N = 100
	var g errgroup.Group
	for i := 0; i < N; i++ {
		g.Go(func() error {
			store.AddToCart(ctx, p, "M", 1)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, store.Lines(), 1)
	assert.Equal(t, N, store.TotalItems())
}

func TestManager_Open(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	m := NewManager(storage)

	_, err := m.Open(ctx, "  ")
	assert.ErrorIs(t, err, ErrMissingSession)

	store, err := m.Open(ctx, "user-1")
	require.NoError(t, err)
	store.AddToCart(ctx, hoodie(1, 100), "S", 1)

	_, ok := storage.data["cart:user-1"]
	assert.True(t, ok)
}

func TestManager_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingSession", func(t *testing.T) {
		_, _, err := NewManager(newMemoryStorage()).Acquire(ctx, "")
		assert.ErrorIs(t, err, ErrMissingSession)
	})

	t.Run("WaitsForHolder", func(t *testing.T) {
		m := NewManager(newMemoryStorage())
		_, release, err := m.Acquire(ctx, "s1")
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, _, err = m.Acquire(waitCtx, "s1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		_, releaseOther, err := m.Acquire(ctx, "s2")
		require.NoError(t, err, "other sessions are not blocked")
		releaseOther()

		release()
		release()

		_, release, err = m.Acquire(ctx, "s1")
		require.NoError(t, err)
		release()
	})

	t.Run("ForgetsIdleSessions", func(t *testing.T) {
		m := NewManager(newMemoryStorage())
		_, release, err := m.Acquire(ctx, "s1")
		require.NoError(t, err)
		release()

		m.mu.Lock()
		defer m.mu.Unlock()
		assert.Empty(t, m.locks)
	})

	t.Run("ReadErrorReleasesLock", func(t *testing.T) {
		storage := newMemoryStorage()
		storage.loadErr = errors.New("i/o timeout")
		m := NewManager(storage)

		_, _, err := m.Acquire(ctx, "s1")
		require.ErrorIs(t, err, ErrStorageUnavailable)

		storage.loadErr = nil
		_, release, err := m.Acquire(ctx, "s1")
		require.NoError(t, err)
		release()
	})
}
