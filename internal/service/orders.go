package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vyhuholl/order-management-rest-api/internal/notify"
	"github.com/vyhuholl/order-management-rest-api/internal/repo"
	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

// OrdersStore is the authoritative order storage. Lookups of absent orders
// return repo.ErrNotFound.
type OrdersStore interface {
	Create(ctx context.Context, o models.Order) error
	Get(ctx context.Context, id string) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
}

// OrderCache never reports errors; a failed read is a miss.
type OrderCache interface {
	Get(ctx context.Context, orderID string) (models.Order, bool)
	Set(ctx context.Context, o models.Order)
	Delete(ctx context.Context, orderID string)
}

type Notifier interface {
	Publish(ctx context.Context, orderID string, userID int64) notify.Outcome
}

const notifyTimeout = 10 * time.Second

type OrdersService struct {
	Store    OrdersStore
	Cache    OrderCache
	Notifier Notifier
	Log      zerolog.Logger

	Now   func() time.Time
	NewID func() string

	inflight sync.WaitGroup
}

func NewOrdersService(store OrdersStore, cache OrderCache, notifier Notifier, log zerolog.Logger) *OrdersService {
	if cache == nil {
		cache = repo.NopCache{}
	}
	return &OrdersService{
		Store:    store,
		Cache:    cache,
		Notifier: notifier,
		Log:      log,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Create persists a PENDING order and then notifies the queue in the
// background. Notification never affects the result.
func (s *OrdersService) Create(ctx context.Context, ownerID int64, items []models.Item, totalPrice decimal.Decimal) (models.Order, error) {
	if !totalPrice.IsPositive() {
		return models.Order{}, validationError("total_price must be greater than 0")
	}
	if items == nil {
		items = []models.Item{}
	}

	o := models.Order{
		ID:         s.NewID(),
		UserID:     ownerID,
		Items:      items,
		TotalPrice: totalPrice,
		Status:     models.OrderStatusPending,
		CreatedAt:  s.Now().UTC(),
	}

	if err := s.Store.Create(ctx, o); err != nil {
		return models.Order{}, dependencyError("create order", err)
	}

	s.notifyNewOrder(ctx, o)
	return o, nil
}

// GetByID serves from cache when possible. Orders owned by someone else are
// reported as ErrNotFound so their existence does not leak.
func (s *OrdersService) GetByID(ctx context.Context, orderID string, requesterID int64) (models.Order, error) {
	if o, ok := s.Cache.Get(ctx, orderID); ok {
		if o.UserID != requesterID {
			return models.Order{}, ErrNotFound
		}
		return o, nil
	}

	o, err := s.Store.Get(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, dependencyError("get order", err)
	}
	if o.UserID != requesterID {
		return models.Order{}, ErrNotFound
	}

	s.Cache.Set(ctx, o)
	return o, nil
}

// UpdateStatus always decides on the stored record, never the cached one.
// A nil status leaves the order unchanged. The cache entry is dropped after
// every successful call.
func (s *OrdersService) UpdateStatus(ctx context.Context, orderID string, requesterID int64, status *models.OrderStatus) (models.Order, error) {
	if status != nil && !status.Valid() {
		return models.Order{}, validationError("unknown status %q", *status)
	}

	o, err := s.Store.Get(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, dependencyError("get order", err)
	}
	if o.UserID != requesterID {
		return models.Order{}, ErrNotFound
	}

	if status != nil {
		o, err = s.Store.UpdateStatus(ctx, orderID, *status)
		if errors.Is(err, repo.ErrNotFound) {
			return models.Order{}, ErrNotFound
		}
		if err != nil {
			return models.Order{}, dependencyError("update order status", err)
		}
	}

	s.Cache.Delete(ctx, orderID)
	return o, nil
}

// ListByOwner answers ErrForbidden, not ErrNotFound, when the requester asks
// for somebody else's orders.
func (s *OrdersService) ListByOwner(ctx context.Context, targetUserID, requesterID int64) ([]models.Order, error) {
	if targetUserID != requesterID {
		return nil, ErrForbidden
	}

	orders, err := s.Store.ListByUser(ctx, targetUserID)
	if err != nil {
		return nil, dependencyError("list orders", err)
	}
	return orders, nil
}

// Wait blocks until background notifications started by Create finish.
func (s *OrdersService) Wait() {
	s.inflight.Wait()
}

func (s *OrdersService) notifyNewOrder(ctx context.Context, o models.Order) {
	if s.Notifier == nil {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		out := s.Notifier.Publish(nctx, o.ID, o.UserID)
		s.Log.Debug().
			Str("order_id", o.ID).
			Int64("user_id", o.UserID).
			Stringer("outcome", out).
			Msg("new order notification")
	}()
}
