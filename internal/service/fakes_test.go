package service

import (
	"context"
	"sync"
	"time"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
)

// memoryPurchaseStore is a linearizable in-memory purchase store: each step
// takes the lock on its own, as the real backends do per statement.
type memoryPurchaseStore struct {
	mu          sync.Mutex
	atomic      bool
	selections  map[string]models.Selection
	enrollments map[string]models.Enrollment
	insertErr   error
	findErr     error
	restored    []string
	runs        int
}

func newMemoryPurchaseStore(atomic bool, selections ...models.Selection) *memoryPurchaseStore {
	m := &memoryPurchaseStore{
		atomic:      atomic,
		selections:  map[string]models.Selection{},
		enrollments: map[string]models.Enrollment{},
	}
	for _, s := range selections {
		m.selections[s.ID] = s
	}
	return m
}

func enrollmentKey(selectedID, buyer string) string { return selectedID + "|" + buyer }

func (m *memoryPurchaseStore) Atomic() bool { return m.atomic }

func (m *memoryPurchaseStore) RunPurchase(ctx context.Context, fn repository.PurchaseFunc) error {
	m.mu.Lock()
	m.runs++
	m.mu.Unlock()
	return fn(ctx, m)
}

func (m *memoryPurchaseStore) FindEnrollment(_ context.Context, selectedID, buyerEmail string) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	e, ok := m.enrollments[enrollmentKey(selectedID, buyerEmail)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *memoryPurchaseStore) TakeSelection(_ context.Context, selectedID, buyerEmail string) (*models.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.selections[selectedID]
	if !ok || s.BuyerEmail != buyerEmail {
		return nil, repository.ErrNotFound
	}
	delete(m.selections, selectedID)
	return &s, nil
}

func (m *memoryPurchaseStore) InsertEnrollment(_ context.Context, e *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	key := enrollmentKey(e.SelectedID, e.BuyerEmail)
	if _, ok := m.enrollments[key]; ok {
		return repository.ErrDuplicate
	}
	m.enrollments[key] = *e
	return nil
}

func (m *memoryPurchaseStore) RestoreSelection(_ context.Context, s *models.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[s.ID] = *s
	m.restored = append(m.restored, s.ID)
	return nil
}

func (m *memoryPurchaseStore) enrollmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enrollments)
}

func (m *memoryPurchaseStore) hasSelection(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.selections[id]
	return ok
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Enrollment
}

func (n *recordingNotifier) EnrollmentCompleted(e models.Enrollment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, e)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type memoryUserRepo struct {
	users   map[string]*models.User
	findErr error
	setErr  error
}

func newMemoryUserRepo(users ...models.User) *memoryUserRepo {
	r := &memoryUserRepo{users: map[string]*models.User{}}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryUserRepo) List(context.Context) ([]models.User, error) {
	users := []models.User{}
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *memoryUserRepo) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	users := []models.User{}
	for _, u := range r.users {
		if u.Role == role {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (r *memoryUserRepo) CreateIfAbsent(_ context.Context, user *models.User) (bool, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return false, nil
		}
	}
	if user.ID == "" {
		user.ID = "u-" + user.Email
	}
	user.CreatedAt = time.Now()
	copy := *user
	r.users[user.ID] = &copy
	return true, nil
}

func (r *memoryUserRepo) SetRole(_ context.Context, id string, role models.UserRole) error {
	if r.setErr != nil {
		return r.setErr
	}
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
