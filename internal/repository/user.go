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

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByName(ctx context.Context, name string) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type pgUserRepo struct{ pool *pgxpool.Pool }

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepo{pool: pool}
}

func (r *pgUserRepo) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (name, password_hash, role)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, user.Name, user.Password, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, name, password_hash, role, created_at FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *pgUserRepo) GetByName(ctx context.Context, name string) (*model.User, error) {
	user, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT id, name, password_hash, role, created_at FROM users WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by name: %w", err)
	}
	return user, nil
}

func (r *pgUserRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// scanUser materializes a row through the validating constructor so no invalid
// user ever escapes the repository.
func (r *pgUserRepo) scanUser(row pgx.Row) (*model.User, error) {
	var (
		id             int64
		name, password string
		role           model.Role
		createdAt      time.Time
	)
	if err := row.Scan(&id, &name, &password, &role, &createdAt); err != nil {
		return nil, err
	}
	return model.NewUser(id, name, password, role, createdAt)
}
