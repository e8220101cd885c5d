package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// MemoryStore keeps accounts and appointments in process memory. It is used
// when no DATABASE_URL is configured and in tests.
type MemoryStore struct {
	mu           sync.RWMutex
	nextID       int
	users        map[int]*models.User
	byEmail      map[string]int
	appointments []models.Appointment
	now          func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		users:   make(map[int]*models.User),
		byEmail: make(map[string]int),
		now:     time.Now,
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.DietaryRestrictions = append([]string{}, u.DietaryRestrictions...)
	return &c
}

func (m *MemoryStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := m.byEmail[key]; ok {
		return nil, ErrEmailExists
	}

	user := copyUser(u)
	user.ID = m.nextID
	m.nextID++
	if user.UserType == "" {
		user.UserType = models.UserTypeUser
	}
	user.CreatedAt = m.now()
	user.UpdatedAt = user.CreatedAt

	m.users[user.ID] = user
	m.byEmail[key] = user.ID
	return copyUser(user), nil
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(u), nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(m.users[id]), nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.BirthDate != nil {
		u.BirthDate = req.BirthDate
	}
	if req.Address != nil {
		u.Address = req.Address
	}
	if req.DietaryRestrictions != nil {
		u.DietaryRestrictions = append([]string{}, req.DietaryRestrictions...)
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	if req.CRN != nil {
		u.CRN = req.CRN
	}
	u.UpdatedAt = m.now()
	return copyUser(u), nil
}

func (m *MemoryStore) UpdateUserLastLogin(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	now := m.now()
	u.LastLoginAt = &now
	return nil
}

func (m *MemoryStore) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = append(m.appointments, *a)
	return nil
}

func (m *MemoryStore) ListAppointmentsByUser(ctx context.Context, userID int) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Appointment{}
	for _, a := range m.appointments {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var (
	_ AccountStore = (*MemoryStore)(nil)
	_ AccountStore = (*DB)(nil)
)
