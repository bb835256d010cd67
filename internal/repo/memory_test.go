package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

func memOrder(id string, userID int64, at time.Time) models.Order {
	return models.Order{
		ID:         id,
		UserID:     userID,
		Items:      []models.Item{{"sku": id}},
		TotalPrice: decimal.NewFromInt(1),
		Status:     models.OrderStatusPending,
		CreatedAt:  at,
	}
}

func TestMemOrders_ListByUserNewestFirst(t *testing.T) {
	s := NewMemOrders()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, memOrder("a", 1, base)))
	require.NoError(t, s.Create(ctx, memOrder("c", 1, base.Add(2*time.Minute))))
	require.NoError(t, s.Create(ctx, memOrder("b", 1, base.Add(time.Minute))))
	require.NoError(t, s.Create(ctx, memOrder("z", 2, base.Add(time.Hour))))
	require.NoError(t, s.Create(ctx, memOrder("d", 1, base.Add(time.Minute))))

	got, err := s.ListByUser(ctx, 1)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"c", "b", "d", "a"}, ids)

	empty, err := s.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemOrders_UpdateStatus(t *testing.T) {
	s := NewMemOrders()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, memOrder("a", 1, time.Now())))

	o, err := s.UpdateStatus(ctx, "a", models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, o.Status)

	_, err = s.UpdateStatus(ctx, "missing", models.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemOrders_ReturnsCopies(t *testing.T) {
	s := NewMemOrders()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, memOrder("a", 1, time.Now())))

	o, err := s.Get(ctx, "a")
	require.NoError(t, err)
	o.Items[0]["sku"] = "mutated"

	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Items[0]["sku"])
}

func TestMemUsers_CreateAndLookup(t *testing.T) {
	s := NewMemUsers(nil)
	ctx := context.Background()

	u1, err := s.Create(ctx, "a@example.com", "h1")
	require.NoError(t, err)
	u2, err := s.Create(ctx, "b@example.com", "h2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u1.ID)
	assert.Equal(t, int64(2), u2.ID)

	_, err = s.Create(ctx, "a@example.com", "h3")
	assert.ErrorIs(t, err, ErrEmailExists)

	// emails are matched exactly as stored
	_, err = s.GetByEmail(ctx, "A@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)
}

func TestMemUsers_DeleteCascadesToOrders(t *testing.T) {
	orders := NewMemOrders()
	users := NewMemUsers(orders)
	ctx := context.Background()

	u, err := users.Create(ctx, "a@example.com", "h")
	require.NoError(t, err)
	other, err := users.Create(ctx, "b@example.com", "h")
	require.NoError(t, err)
	require.NoError(t, orders.Create(ctx, memOrder("mine", u.ID, time.Now())))
	require.NoError(t, orders.Create(ctx, memOrder("theirs", other.ID, time.Now())))

	require.NoError(t, users.Delete(ctx, u.ID))

	_, err = orders.Get(ctx, "mine")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = orders.Get(ctx, "theirs")
	assert.NoError(t, err)

	assert.ErrorIs(t, users.Delete(ctx, u.ID), ErrNotFound)
}
