package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCanceled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("pending").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrder_JSONShape(t *testing.T) {
	o := Order{
		ID:         "5b1f",
		UserID:     7,
		Items:      []Item{{"sku": "A1"}},
		TotalPrice: decimal.RequireFromString("15.0"),
		Status:     OrderStatusPending,
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	b, err := json.Marshal(o)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, float64(15), raw["total_price"])
	assert.Equal(t, float64(7), raw["user_id"])
	assert.Equal(t, "PENDING", raw["status"])
	assert.Equal(t, "2026-01-02T03:04:05Z", raw["created_at"])
	assert.Equal(t, []any{map[string]any{"sku": "A1"}}, raw["items"])
}
