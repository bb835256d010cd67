package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/vyhuholl/order-management-rest-api/pkg/cache"
	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

// StringCache is the slice of pkg/cache.Redis the order cache needs.
type StringCache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OrdersCache keeps serialized orders with a fixed TTL. Every backend or
// encoding failure is logged and degrades to a miss or a no-op.
type OrdersCache struct {
	Backend StringCache
	TTL     time.Duration
	Log     zerolog.Logger
}

func OrderKey(orderID string) string { return "order:" + orderID }

func (c *OrdersCache) Get(ctx context.Context, orderID string) (models.Order, bool) {
	s, err := c.Backend.GetString(ctx, OrderKey(orderID))
	if errors.Is(err, cache.ErrMiss) {
		return models.Order{}, false
	}
	if err != nil {
		c.Log.Warn().Err(err).Str("order_id", orderID).Msg("cache get failed, falling back to store")
		return models.Order{}, false
	}

	var o models.Order
	if err := json.Unmarshal([]byte(s), &o); err != nil {
		c.Log.Warn().Err(err).Str("order_id", orderID).Msg("cache entry undecodable, ignoring")
		return models.Order{}, false
	}
	return o, true
}

func (c *OrdersCache) Set(ctx context.Context, o models.Order) {
	b, err := json.Marshal(o)
	if err != nil {
		c.Log.Warn().Err(err).Str("order_id", o.ID).Msg("cache encode failed")
		return
	}
	if err := c.Backend.SetString(ctx, OrderKey(o.ID), string(b), c.TTL); err != nil {
		c.Log.Warn().Err(err).Str("order_id", o.ID).Msg("cache set failed")
	}
}

func (c *OrdersCache) Delete(ctx context.Context, orderID string) {
	if err := c.Backend.Delete(ctx, OrderKey(orderID)); err != nil {
		c.Log.Warn().Err(err).Str("order_id", orderID).Msg("cache delete failed")
	}
}

// NopCache is used when no cache is configured: every Get misses.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (models.Order, bool) { return models.Order{}, false }
func (NopCache) Set(context.Context, models.Order)                {}
func (NopCache) Delete(context.Context, string)                   {}
