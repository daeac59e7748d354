package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/go-shop-api/internal/model"
)

func TestUserRepo_CreateAndGetByName(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := &model.User{Name: "alice", Password: "hashed", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, user))
	assert.Positive(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.GetByName(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, model.RoleUser, found.Role)

	missing, err := repo.GetByName(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, user.ID))
	gone, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestProductRepo_CRUD(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	product := &model.Product{
		Name: "Lamp", Description: "Desk lamp",
		Price: decimal.NewFromFloat(29.99),
	}
	require.NoError(t, repo.Create(ctx, product))
	assert.Positive(t, product.ID)

	found, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Lamp", found.Name)
	assert.True(t, found.Price.Equal(decimal.NewFromFloat(29.99)))

	product.Name = "Updated Lamp"
	product.Price = decimal.NewFromFloat(34.99)
	require.NoError(t, repo.Update(ctx, product))

	found, _ = repo.GetByID(ctx, product.ID)
	assert.Equal(t, "Updated Lamp", found.Name)

	require.NoError(t, repo.Delete(ctx, product.ID))
	found, _ = repo.GetByID(ctx, product.ID)
	assert.Nil(t, found)
}

func TestProductRepo_ListWithSearch(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products")

	repo := NewProductRepository(testPool)
	ctx := context.Background()

	for _, name := range []string{"Red Chair", "Blue Chair", "Table"} {
		require.NoError(t, repo.Create(ctx, &model.Product{
			Name: name, Price: decimal.NewFromInt(10),
		}))
	}

	all, total, err := repo.List(ctx, 10, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	chairs, total, err := repo.List(ctx, 10, 0, "chair")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, chairs, 2)
}

func TestCartRepo_ItemsKeepInsertionOrder(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "users")

	userRepo := NewUserRepository(testPool)
	productRepo := NewProductRepository(testPool)
	cartRepo := NewCartRepository(testPool)
	ctx := context.Background()

	user := &model.User{Name: "cart-owner", Password: "h", Role: model.RoleUser}
	require.NoError(t, userRepo.Create(ctx, user))

	first := &model.Product{Name: "First", Price: decimal.NewFromInt(15)}
	second := &model.Product{Name: "Second", Price: decimal.NewFromInt(20)}
	require.NoError(t, productRepo.Create(ctx, first))
	require.NoError(t, productRepo.Create(ctx, second))

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, cartRepo.Create(ctx, cart))
	assert.Positive(t, cart.ID)

	itemA := &model.CartItem{CartID: cart.ID, ProductID: first.ID, Quantity: 2}
	itemB := &model.CartItem{CartID: cart.ID, ProductID: second.ID, Quantity: 3}
	require.NoError(t, cartRepo.AddItem(ctx, itemA))
	require.NoError(t, cartRepo.AddItem(ctx, itemB))

	items, err := cartRepo.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ProductID)
	assert.Equal(t, second.ID, items[1].ProductID)

	got, err := cartRepo.GetItem(ctx, itemA.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Quantity)

	got.Quantity = 5
	require.NoError(t, cartRepo.UpdateItem(ctx, got))
	got, _ = cartRepo.GetItem(ctx, itemA.ID)
	assert.Equal(t, 5, got.Quantity)

	require.NoError(t, cartRepo.DeleteItem(ctx, itemB.ID))
	items, err = cartRepo.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderRepo_CreateWithItemsInTx(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "products", "users")

	userRepo := NewUserRepository(testPool)
	productRepo := NewProductRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := &model.User{Name: "buyer", Password: "h", Role: model.RoleUser}
	require.NoError(t, userRepo.Create(ctx, user))

	product := &model.Product{Name: "Widget", Price: decimal.NewFromFloat(25)}
	require.NoError(t, productRepo.Create(ctx, product))

	tx, err := orderRepo.BeginTx(ctx)
	require.NoError(t, err)

	order := &model.Order{UserID: user.ID, Status: model.StatusPending}
	require.NoError(t, orderRepo.Create(ctx, tx, order))
	assert.Positive(t, order.ID)

	require.NoError(t, orderRepo.CreateItem(ctx, tx, &model.OrderItem{
		OrderID: order.ID, ProductID: product.ID, Quantity: 2, Price: product.Price,
	}))
	require.NoError(t, tx.Commit(ctx))

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.StatusPending, found.Status)
	require.Len(t, found.Items, 1)
	assert.True(t, found.Items[0].Price.Equal(decimal.NewFromFloat(25)))

	orders, err := orderRepo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderRepo_RollbackDiscardsOrder(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "users")

	userRepo := NewUserRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := &model.User{Name: "rollback", Password: "h", Role: model.RoleUser}
	require.NoError(t, userRepo.Create(ctx, user))

	tx, err := orderRepo.BeginTx(ctx)
	require.NoError(t, err)

	order := &model.Order{UserID: user.ID, Status: model.StatusPending}
	require.NoError(t, orderRepo.Create(ctx, tx, order))
	require.NoError(t, tx.Rollback(ctx))

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestOrderRepo_UpdateStatus(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "users")

	userRepo := NewUserRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := &model.User{Name: "status", Password: "h", Role: model.RoleUser}
	require.NoError(t, userRepo.Create(ctx, user))

	tx, err := orderRepo.BeginTx(ctx)
	require.NoError(t, err)
	order := &model.Order{UserID: user.ID, Status: model.StatusPending}
	require.NoError(t, orderRepo.Create(ctx, tx, order))
	require.NoError(t, tx.Commit(ctx))

	require.NoError(t, orderRepo.UpdateStatus(ctx, nil, order.ID, model.StatusCompleted))

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, found.Status)
}

func TestCartRepo_LockByID(t *testing.T) {
	cleanupTable(t, "order_items", "orders", "cart_items", "carts", "users")

	userRepo := NewUserRepository(testPool)
	cartRepo := NewCartRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := &model.User{Name: "locker", Password: "h", Role: model.RoleUser}
	require.NoError(t, userRepo.Create(ctx, user))

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, cartRepo.Create(ctx, cart))

	tx, err := orderRepo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	locked, err := cartRepo.LockByID(ctx, tx, cart.ID)
	require.NoError(t, err)
	require.NotNil(t, locked)
	assert.Equal(t, user.ID, locked.UserID)

	missing, err := cartRepo.LockByID(ctx, tx, cart.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
