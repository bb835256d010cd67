package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vyhuholl/order-management-rest-api/internal/notify"
	"github.com/vyhuholl/order-management-rest-api/internal/repo"
	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

// countingStore wraps the in-memory store and counts reads.
type countingStore struct {
	*repo.MemOrders

	mu      sync.Mutex
	gets    int
	failAll error
}

func newCountingStore() *countingStore {
	return &countingStore{MemOrders: repo.NewMemOrders()}
}

func (s *countingStore) Get(ctx context.Context, id string) (models.Order, error) {
	s.mu.Lock()
	s.gets++
	fail := s.failAll
	s.mu.Unlock()
	if fail != nil {
		return models.Order{}, fail
	}
	return s.MemOrders.Get(ctx, id)
}

func (s *countingStore) Create(ctx context.Context, o models.Order) error {
	if s.failAll != nil {
		return s.failAll
	}
	return s.MemOrders.Create(ctx, o)
}

func (s *countingStore) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	if s.failAll != nil {
		return nil, s.failAll
	}
	return s.MemOrders.ListByUser(ctx, userID)
}

func (s *countingStore) reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

// mapCache is an in-memory OrderCache that records deletes.
type mapCache struct {
	mu      sync.Mutex
	m       map[string]models.Order
	deletes []string
}

func newMapCache() *mapCache { return &mapCache{m: map[string]models.Order{}} }

func (c *mapCache) Get(_ context.Context, id string) (models.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.m[id]
	return o, ok
}

func (c *mapCache) Set(_ context.Context, o models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[o.ID] = o
}

func (c *mapCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
	c.deletes = append(c.deletes, id)
}

type notification struct {
	OrderID string
	UserID  int64
}

type recordingNotifier struct {
	mu      sync.Mutex
	calls   []notification
	outcome notify.Outcome
}

func (n *recordingNotifier) Publish(_ context.Context, orderID string, userID int64) notify.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{OrderID: orderID, UserID: userID})
	return n.outcome
}

func (n *recordingNotifier) recorded() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.calls...)
}

var errStoreDown = errors.New("connection refused")
