// Package session keeps per-visitor storefront state: filters, the
// single-supplier view, the shopping list and the last reported position.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/geo"
	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/shoplist"
)

// HeaderName carries the anonymous session id
const HeaderName = "X-Session-ID"

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 24 * time.Hour

var (
	ErrNotFound  = errors.New("session not found")
	ErrInvalidID = errors.New("invalid session id")
)

// State is everything remembered for one session
type State struct {
	Filters          models.SearchFilters `json:"filters"`
	SupplierOverride string               `json:"supplier_override"`
	List             shoplist.List        `json:"list"`
	Location         *geo.Position        `json:"location,omitempty"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// NewState returns the state of a fresh session
func NewState() *State {
	return &State{
		Filters: catalog.DefaultFilters(),
		List:    *shoplist.New(nil),
	}
}

// Store persists session state
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, st *State) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a new anonymous session id
func NewID() string {
	return uuid.NewString()
}

// UserID returns the session id used for an authenticated user
func UserID(userID int) string {
	return fmt.Sprintf("user:%d", userID)
}

// ValidID reports whether id is an anonymous uuid or a user session id
func ValidID(id string) bool {
	if _, err := uuid.Parse(id); err == nil {
		return true
	}
	var n int
	_, err := fmt.Sscanf(id, "user:%d", &n)
	return err == nil && n > 0 && UserID(n) == id
}

// Manager loads and mutates session state. Mutations of the same session are
// serialized; different sessions proceed in parallel.
type Manager struct {
	store Store
	ids   shoplist.IDGenerator
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithListIDs sets the id generator for new shopping list lines
func WithListIDs(gen shoplist.IDGenerator) ManagerOption {
	return func(m *Manager) {
		m.ids = gen
	}
}

// WithNow overrides time.Now
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager backed by store
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
		locks: make(map[string]*keyLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &keyLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) load(ctx context.Context, id string) (*State, error) {
	st, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		st = NewState()
	} else if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if st.List.Items == nil {
		st.List.Items = []models.ShoppingListItem{}
	}
	st.List.WithIDs(m.ids)
	return st, nil
}

// Get returns the session state, or a fresh state for unknown ids
func (m *Manager) Get(ctx context.Context, id string) (*State, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return m.load(ctx, id)
}

// Update applies fn to the session state and saves the result. If fn returns
// an error nothing is saved.
func (m *Manager) Update(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	unlock := m.lock(id)
	defer unlock()

	st, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	st.UpdatedAt = m.now()
	if err := m.store.Save(ctx, id, st); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return st, nil
}

// Reset forgets a session
func (m *Manager) Reset(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}
