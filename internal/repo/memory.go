package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

// MemOrders is an in-process order store with the same contract as OrdersPG.
type MemOrders struct {
	mu sync.RWMutex
	m  map[string]models.Order
}

func NewMemOrders() *MemOrders {
	return &MemOrders{m: map[string]models.Order{}}
}

func (s *MemOrders) Ping(context.Context) error { return nil }

func (s *MemOrders) Create(_ context.Context, o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[o.ID] = cloneOrder(o)
	return nil
}

func (s *MemOrders) Get(_ context.Context, id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.m[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *MemOrders) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.m[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	o.Status = status
	s.m[id] = o
	return cloneOrder(o), nil
}

func (s *MemOrders) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	s.mu.RLock()
	out := make([]models.Order, 0)
	for _, o := range s.m {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemOrders) deleteByUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, o := range s.m {
		if o.UserID == userID {
			delete(s.m, id)
		}
	}
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.Item, len(o.Items))
	for i, it := range o.Items {
		cp := make(models.Item, len(it))
		for k, v := range it {
			cp[k] = v
		}
		items[i] = cp
	}
	o.Items = items
	return o
}

// MemUsers assigns sequential ids starting at 1, like a serial column.
type MemUsers struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]models.User
	byEmail map[string]int64
	orders  *MemOrders
}

// NewMemUsers links the user store to orders so Delete cascades.
func NewMemUsers(orders *MemOrders) *MemUsers {
	return &MemUsers{
		nextID:  1,
		byID:    map[int64]models.User{},
		byEmail: map[string]int64{},
		orders:  orders,
	}
}

func (s *MemUsers) Create(_ context.Context, email, hashedPassword string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return models.User{}, ErrEmailExists
	}
	u := models.User{ID: s.nextID, Email: email, HashedPassword: hashedPassword}
	s.nextID++
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID
	return u, nil
}

func (s *MemUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemUsers) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	u, ok := s.byID[id]
	if ok {
		delete(s.byID, id)
		delete(s.byEmail, u.Email)
	}
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if s.orders != nil {
		s.orders.deleteByUser(id)
	}
	return nil
}
