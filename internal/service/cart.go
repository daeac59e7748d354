package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nordvik/go-shop-api/internal/model"
	"github.com/nordvik/go-shop-api/internal/repository"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, userRepo: userRepo}
}

func (s *CartService) CreateCart(ctx context.Context, userID int64) (*model.Cart, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	cart := &model.Cart{UserID: userID}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// GetCart returns a cart, refusing access when it belongs to another user.
func (s *CartService) GetCart(ctx context.Context, userID, cartID int64) (*model.Cart, []model.CartItem, error) {
	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, nil, ErrCartNotFound
	}
	if cart.UserID != userID {
		return nil, nil, ErrCartAccessDenied
	}

	items, err := s.cartRepo.ListItems(ctx, cartID)
	if err != nil {
		return nil, nil, fmt.Errorf("list cart items: %w", err)
	}
	return cart, items, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, cartID, productID int64, quantity int) (*model.CartItem, error) {
	if err := model.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.UserID != userID {
		return nil, ErrCartAccessDenied
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	item := &model.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	if err := s.cartRepo.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return item, nil
}

// UpdateItem changes an item's quantity, re-validating it at the point of
// mutation.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) error {
	if err := model.ValidateQuantity(quantity); err != nil {
		return err
	}

	item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	item.Quantity = quantity
	return s.cartRepo.UpdateItem(ctx, item)
}

func (s *CartService) DeleteItem(ctx context.Context, userID, itemID int64) error {
	item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(ctx, item.ID)
}

// findOwnedItem resolves an item and its owning cart, refusing access when the
// cart belongs to another user.
func (s *CartService) findOwnedItem(ctx context.Context, userID, itemID int64) (*model.CartItem, error) {
	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	cart, err := s.cartRepo.GetByID(ctx, item.CartID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.UserID != userID {
		return nil, ErrCartAccessDenied
	}
	return item, nil
}
