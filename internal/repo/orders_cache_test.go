package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyhuholl/order-management-rest-api/pkg/cache"
	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

func newTestCache(t *testing.T) (*OrdersCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := cache.New(mr.Addr())
	t.Cleanup(func() { _ = r.Close() })
	return &OrdersCache{Backend: r, TTL: 300 * time.Second, Log: zerolog.Nop()}, mr
}

func sampleOrder() models.Order {
	return models.Order{
		ID:         "0b7c6d1e-6f3a-4a55-9d0e-3f1b2c4d5e6f",
		UserID:     3,
		Items:      []models.Item{{"sku": "A1", "qty": float64(2)}},
		TotalPrice: decimal.RequireFromString("15.50"),
		Status:     models.OrderStatusPending,
		CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 123000, time.UTC),
	}
}

func TestOrdersCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	o := sampleOrder()

	_, ok := c.Get(ctx, o.ID)
	assert.False(t, ok)

	c.Set(ctx, o)
	assert.True(t, mr.Exists("order:"+o.ID))
	assert.Equal(t, 300*time.Second, mr.TTL("order:"+o.ID))

	got, ok := c.Get(ctx, o.ID)
	require.True(t, ok)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.UserID, got.UserID)
	assert.Equal(t, o.Items, got.Items)
	assert.True(t, o.TotalPrice.Equal(got.TotalPrice))
	assert.Equal(t, o.Status, got.Status)
	assert.True(t, o.CreatedAt.Equal(got.CreatedAt))
}

func TestOrdersCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	o := sampleOrder()

	c.Set(ctx, o)
	mr.FastForward(301 * time.Second)

	_, ok := c.Get(ctx, o.ID)
	assert.False(t, ok)
}

func TestOrdersCache_Delete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	o := sampleOrder()

	c.Set(ctx, o)
	c.Delete(ctx, o.ID)
	assert.False(t, mr.Exists(OrderKey(o.ID)))

	// deleting a missing key is fine too
	c.Delete(ctx, "missing")
}

func TestOrdersCache_UndecodableEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(OrderKey("x"), "{not json"))

	_, ok := c.Get(context.Background(), "x")
	assert.False(t, ok)
}

func TestOrdersCache_BackendDownIsSwallowed(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	o := sampleOrder()
	mr.Close()

	assert.NotPanics(t, func() {
		c.Set(ctx, o)
		_, ok := c.Get(ctx, o.ID)
		assert.False(t, ok)
		c.Delete(ctx, o.ID)
	})
}

func TestNopCache(t *testing.T) {
	var c NopCache
	ctx := context.Background()
	c.Set(ctx, sampleOrder())
	_, ok := c.Get(ctx, sampleOrder().ID)
	assert.False(t, ok)
}
