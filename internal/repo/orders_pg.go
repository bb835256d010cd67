package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

type OrdersPG struct {
	DB *pgxpool.Pool
}

const orderColumns = `id, user_id, items, total_price::text, status::text, created_at`

func (r *OrdersPG) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

func (r *OrdersPG) Create(ctx context.Context, o models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	_, err = r.DB.Exec(ctx, `
		insert into orders (id, user_id, items, total_price, status, created_at)
		values ($1, $2, $3::jsonb, $4::numeric, $5::order_status, $6)
	`, o.ID, o.UserID, string(items), o.TotalPrice.String(), string(o.Status), o.CreatedAt)
	return err
}

func (r *OrdersPG) Get(ctx context.Context, id string) (models.Order, error) {
	row := r.DB.QueryRow(ctx, `select `+orderColumns+` from orders where id = $1`, id)
	return scanOrder(row)
}

func (r *OrdersPG) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	row := r.DB.QueryRow(ctx, `
		update orders
		set status = $2::order_status
		where id = $1
		returning `+orderColumns, id, string(status))
	return scanOrder(row)
}

// ListByUser returns newest orders first; id breaks created_at ties.
func (r *OrdersPG) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := r.DB.Query(ctx, `
		select `+orderColumns+`
		from orders
		where user_id = $1
		order by created_at desc, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		o      models.Order
		items  []byte
		total  string
		status string
	)
	err := row.Scan(&o.ID, &o.UserID, &items, &total, &status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("decode items of order %s: %w", o.ID, err)
	}
	if o.Items == nil {
		o.Items = []models.Item{}
	}
	if o.TotalPrice, err = decimal.NewFromString(total); err != nil {
		return models.Order{}, fmt.Errorf("decode total_price of order %s: %w", o.ID, err)
	}
	o.Status = models.OrderStatus(status)
	o.CreatedAt = o.CreatedAt.UTC()

	return o, nil
}
