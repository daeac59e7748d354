package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/go-shop-api/internal/model"
)

type mockCartRepo struct {
	carts      map[int64]*model.Cart
	items      []*model.CartItem // slice keeps insertion order, as storage does
	nextCartID int64
	nextItemID int64
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[int64]*model.Cart)}
}

func (m *mockCartRepo) Create(_ context.Context, cart *model.Cart) error {
	m.nextCartID++
	cart.ID = m.nextCartID
	cart.CreatedAt = time.Now()
	m.carts[cart.ID] = cart
	return nil
}

func (m *mockCartRepo) GetByID(_ context.Context, id int64) (*model.Cart, error) {
	return m.carts[id], nil
}

func (m *mockCartRepo) LockByID(_ context.Context, _ pgx.Tx, id int64) (*model.Cart, error) {
	return m.carts[id], nil
}

func (m *mockCartRepo) ListItems(_ context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	for _, item := range m.items {
		if item.CartID == cartID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *mockCartRepo) ListItemsTx(ctx context.Context, _ pgx.Tx, cartID int64) ([]model.CartItem, error) {
	return m.ListItems(ctx, cartID)
}

func (m *mockCartRepo) GetItem(_ context.Context, itemID int64) (*model.CartItem, error) {
	for _, item := range m.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, nil
}

func (m *mockCartRepo) AddItem(_ context.Context, item *model.CartItem) error {
	m.nextItemID++
	item.ID = m.nextItemID
	item.AddedAt = time.Now()
	m.items = append(m.items, item)
	return nil
}

func (m *mockCartRepo) UpdateItem(_ context.Context, item *model.CartItem) error {
	for _, existing := range m.items {
		if existing.ID == item.ID {
			existing.Quantity = item.Quantity
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockCartRepo) DeleteItem(_ context.Context, itemID int64) error {
	for i, item := range m.items {
		if item.ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockCartRepo) DeleteItemTx(ctx context.Context, _ pgx.Tx, itemID int64) error {
	return m.DeleteItem(ctx, itemID)
}

func (m *mockCartRepo) addCart(t *testing.T, userID int64) *model.Cart {
	t.Helper()
	cart := &model.Cart{UserID: userID}
	require.NoError(t, m.Create(context.Background(), cart))
	return cart
}

func TestCartService_CreateCart(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.add(t, "alice", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, newMockProductRepo(), userRepo)

	cart, err := svc.CreateCart(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, cart.UserID)
	assert.Positive(t, cart.ID)
}

func TestCartService_CreateCart_UserNotFound(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo(), newMockUserRepo())
	_, err := svc.CreateCart(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCartService_AddItem(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.add(t, "alice", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	cart := cartRepo.addCart(t, user.ID)
	productRepo := newMockProductRepo()
	product := productRepo.add(t, "keyboard", decimal.NewFromInt(20))
	svc := NewCartService(cartRepo, productRepo, userRepo)

	item, err := svc.AddItem(context.Background(), user.ID, cart.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Len(t, cartRepo.items, 1)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.add(t, "alice", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	cart := cartRepo.addCart(t, user.ID)
	svc := NewCartService(cartRepo, newMockProductRepo(), userRepo)

	_, err := svc.AddItem(context.Background(), user.ID, cart.ID, 1, 0)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.KindInvalidQuantity, ve.Kind)
	assert.Empty(t, cartRepo.items)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.add(t, "alice", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	cart := cartRepo.addCart(t, user.ID)
	svc := NewCartService(cartRepo, newMockProductRepo(), userRepo)

	_, err := svc.AddItem(context.Background(), user.ID, cart.ID, 42, 2)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_WrongOwner(t *testing.T) {
	userRepo := newMockUserRepo()
	owner := userRepo.add(t, "alice", "h", model.RoleUser)
	other := userRepo.add(t, "bob", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	cart := cartRepo.addCart(t, owner.ID)
	productRepo := newMockProductRepo()
	product := productRepo.add(t, "keyboard", decimal.NewFromInt(20))
	svc := NewCartService(cartRepo, productRepo, userRepo)

	_, err := svc.AddItem(context.Background(), other.ID, cart.ID, product.ID, 1)
	assert.ErrorIs(t, err, ErrCartAccessDenied)
}

func TestCartService_UpdateItem(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.add(t, "alice", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	cart := cartRepo.addCart(t, user.ID)
	productRepo := newMockProductRepo()
	product := productRepo.add(t, "keyboard", decimal.NewFromInt(20))
	svc := NewCartService(cartRepo, productRepo, userRepo)

	item, err := svc.AddItem(context.Background(), user.ID, cart.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateItem(context.Background(), user.ID, item.ID, 5))
	updated, _ := cartRepo.GetItem(context.Background(), item.ID)
	assert.Equal(t, 5, updated.Quantity)

	err = svc.UpdateItem(context.Background(), user.ID, item.ID, -1)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.KindInvalidQuantity, ve.Kind)
}

func TestCartService_DeleteItem(t *testing.T) {
	userRepo := newMockUserRepo()
	user := userRepo.add(t, "alice", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	cart := cartRepo.addCart(t, user.ID)
	productRepo := newMockProductRepo()
	product := productRepo.add(t, "keyboard", decimal.NewFromInt(20))
	svc := NewCartService(cartRepo, productRepo, userRepo)

	item, err := svc.AddItem(context.Background(), user.ID, cart.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), user.ID, item.ID))
	assert.Empty(t, cartRepo.items)
}

func TestCartService_DeleteItem_WrongOwner(t *testing.T) {
	userRepo := newMockUserRepo()
	owner := userRepo.add(t, "alice", "h", model.RoleUser)
	other := userRepo.add(t, "bob", "h", model.RoleUser)
	cartRepo := newMockCartRepo()
	cart := cartRepo.addCart(t, owner.ID)
	productRepo := newMockProductRepo()
	product := productRepo.add(t, "keyboard", decimal.NewFromInt(20))
	svc := NewCartService(cartRepo, productRepo, userRepo)

	item, err := svc.AddItem(context.Background(), owner.ID, cart.ID, product.ID, 1)
	require.NoError(t, err)

	err = svc.DeleteItem(context.Background(), other.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartAccessDenied)
	assert.Len(t, cartRepo.items, 1)
}
