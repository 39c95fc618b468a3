package cart

import (
	"context"
	"strings"
	"sync"
)

const keyPrefix = "cart:"

// Manager opens per-session cart stores. It is created once by the
// composition root and handed to every consumer of carts.
//
// Mutations go through Acquire, which serializes load, change and persist
// per session inside this process.
type Manager struct {
	storage Storage

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	sem  chan struct{}
	refs int
}

func NewManager(storage Storage) *Manager {
	return &Manager{storage: storage, locks: map[string]*sessionLock{}}
}

func Key(sessionID string) string {
	return keyPrefix + sessionID
}

// Open loads a read-only snapshot of the session's cart.
func (m *Manager) Open(ctx context.Context, sessionID string) (*Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	return Open(ctx, m.storage, Key(sessionID))
}

// Acquire locks the session and loads its cart. The caller must call
// release once its mutations have been persisted.
func (m *Manager) Acquire(ctx context.Context, sessionID string) (store *Store, release func(), err error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil, ErrMissingSession
	}
	key := Key(sessionID)

	unlock, err := m.lock(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	store, err = Open(ctx, m.storage, key)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return store, unlock, nil
}

func (m *Manager) lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sessionLock{sem: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		m.unref(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			m.unref(key, l)
		})
	}, nil
}

func (m *Manager) unref(key string, l *sessionLock) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}
