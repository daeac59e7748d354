package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nordvik/go-shop-api/internal/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	GetByID(ctx context.Context, id int64) (*model.Cart, error)
	// LockByID reads the cart row FOR UPDATE so concurrent placements of the
	// same cart serialize on each other.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error)
	ListItemsTx(ctx context.Context, tx pgx.Tx, cartID int64) ([]model.CartItem, error)
	GetItem(ctx context.Context, itemID int64) (*model.CartItem, error)
	AddItem(ctx context.Context, item *model.CartItem) error
	UpdateItem(ctx context.Context, item *model.CartItem) error
	DeleteItem(ctx context.Context, itemID int64) error
	DeleteItemTx(ctx context.Context, tx pgx.Tx, itemID int64) error
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) Create(ctx context.Context, cart *model.Cart) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO carts (user_id) VALUES ($1) RETURNING id, created_at`,
		cart.UserID,
	).Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		return fmt.Errorf("create cart: %w", err)
	}
	return nil
}

func (r *pgCartRepo) GetByID(ctx context.Context, id int64) (*model.Cart, error) {
	return r.getByID(ctx, r.pool, id, "")
}

func (r *pgCartRepo) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Cart, error) {
	return r.getByID(ctx, pick(r.pool, tx), id, " FOR UPDATE")
}

func (r *pgCartRepo) getByID(ctx context.Context, q querier, id int64, suffix string) (*model.Cart, error) {
	var (
		cartID, userID int64
		createdAt      time.Time
	)
	err := q.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM carts WHERE id = $1`+suffix, id,
	).Scan(&cartID, &userID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return model.NewCart(cartID, userID, createdAt)
}

func (r *pgCartRepo) ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	return r.listItems(ctx, r.pool, cartID)
}

func (r *pgCartRepo) ListItemsTx(ctx context.Context, tx pgx.Tx, cartID int64) ([]model.CartItem, error) {
	return r.listItems(ctx, pick(r.pool, tx), cartID)
}

// listItems returns items in insertion order; placement relies on it.
func (r *pgCartRepo) listItems(ctx context.Context, q querier, cartID int64) ([]model.CartItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, cart_id, product_id, quantity, added_at
		 FROM cart_items WHERE cart_id = $1 ORDER BY id`, cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var (
			id, cID, productID int64
			quantity           int
			addedAt            time.Time
		)
		if err := rows.Scan(&id, &cID, &productID, &quantity, &addedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item, err := model.NewCartItem(id, cID, productID, quantity, addedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *pgCartRepo) GetItem(ctx context.Context, itemID int64) (*model.CartItem, error) {
	var (
		id, cartID, productID int64
		quantity              int
		addedAt               time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, cart_id, product_id, quantity, added_at FROM cart_items WHERE id = $1`, itemID,
	).Scan(&id, &cartID, &productID, &quantity, &addedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return model.NewCartItem(id, cartID, productID, quantity, addedAt)
}

func (r *pgCartRepo) AddItem(ctx context.Context, item *model.CartItem) error {
	query := `INSERT INTO cart_items (cart_id, product_id, quantity)
			  VALUES ($1, $2, $3)
			  RETURNING id, added_at`
	err := r.pool.QueryRow(ctx, query, item.CartID, item.ProductID, item.Quantity).
		Scan(&item.ID, &item.AddedAt)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) UpdateItem(ctx context.Context, item *model.CartItem) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $2 WHERE id = $1`,
		item.ID, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCartRepo) DeleteItem(ctx context.Context, itemID int64) error {
	return r.deleteItem(ctx, r.pool, itemID)
}

func (r *pgCartRepo) DeleteItemTx(ctx context.Context, tx pgx.Tx, itemID int64) error {
	return r.deleteItem(ctx, pick(r.pool, tx), itemID)
}

func (r *pgCartRepo) deleteItem(ctx context.Context, q querier, itemID int64) error {
	ct, err := q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
