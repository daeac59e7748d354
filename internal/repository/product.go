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

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// GetByIDTx reads through an open transaction, so placement sees prices
	// consistent with its own isolation level.
	GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error)
	List(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	query := `INSERT INTO products (name, description, price)
			  VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, product.Name, product.Description, product.Price).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return r.getByID(ctx, r.pool, id)
}

func (r *pgProductRepo) GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error) {
	return r.getByID(ctx, pick(r.pool, tx), id)
}

func (r *pgProductRepo) getByID(ctx context.Context, q querier, id int64) (*model.Product, error) {
	product, err := scanProduct(q.QueryRow(ctx,
		`SELECT id, name, description, price, created_at FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *pgProductRepo) List(ctx context.Context, limit, offset int, search string) ([]model.Product, int, error) {
	var total int
	countQ := `SELECT COUNT(*) FROM products
			   WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`
	if err := r.pool.QueryRow(ctx, countQ, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT id, name, description, price, created_at
			  FROM products
			  WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
			  ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, description = $3, price = $4 WHERE id = $1`,
		product.ID, product.Name, product.Description, product.Price,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		id         int64
		name, desc string
		price      decimal.Decimal
		createdAt  time.Time
	)
	if err := row.Scan(&id, &name, &desc, &price, &createdAt); err != nil {
		return nil, err
	}
	return model.NewProduct(id, name, desc, price, createdAt)
}
