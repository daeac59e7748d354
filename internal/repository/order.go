package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nordvik/go-shop-api/internal/model"
)

type OrderRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error
	CreateItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, completed bool) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *pgOrderRepo) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	err := pick(r.pool, tx).QueryRow(ctx,
		`INSERT INTO orders (user_id, order_status) VALUES ($1, $2) RETURNING id, created_at`,
		order.UserID, order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) CreateItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error {
	err := pick(r.pool, tx).QueryRow(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, price)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		item.OrderID, item.ProductID, item.Quantity, item.Price,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var (
		orderID, userID int64
		status          bool
		createdAt       time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, order_status, created_at FROM orders WHERE id = $1`, id,
	).Scan(&orderID, &userID, &status, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	order, err := model.NewOrder(orderID, userID, status, createdAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, quantity, price, created_at
		 FROM order_items WHERE order_id = $1 ORDER BY id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID, oID, productID int64
			quantity               int
			price                  decimal.Decimal
			itemCreatedAt          time.Time
		)
		if err := rows.Scan(&itemID, &oID, &productID, &quantity, &price, &itemCreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item, err := model.NewOrderItem(itemID, oID, productID, quantity, price, itemCreatedAt)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	return order, rows.Err()
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, order_status, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var (
			id, uID   int64
			status    bool
			createdAt time.Time
		)
		if err := rows.Scan(&id, &uID, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order, err := model.NewOrder(id, uID, status, createdAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, completed bool) error {
	ct, err := pick(r.pool, tx).Exec(ctx,
		`UPDATE orders SET order_status = $2 WHERE id = $1`, id, completed,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
