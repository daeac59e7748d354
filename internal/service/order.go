package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nordvik/go-shop-api/internal/model"
	"github.com/nordvik/go-shop-api/internal/repository"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCartNotFound      = errors.New("cart not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCartAccessDenied  = errors.New("cart belongs to another user")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	amqpCh      *amqp.Channel
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	amqpCh *amqp.Channel,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		amqpCh:      amqpCh,
	}
}

// PlaceOrder converts the cart's contents into a new pending order, capturing
// each product's price at this instant, and empties the cart. The whole
// migration runs in one transaction: any failure leaves both the cart and the
// order set untouched. Returns the new order's id.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, cartID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cart, err := s.cartRepo.LockByID(ctx, tx, cartID)
	if err != nil {
		return 0, fmt.Errorf("lock cart: %w", err)
	}
	if cart == nil {
		return 0, ErrCartNotFound
	}
	if cart.UserID != userID {
		return 0, ErrCartAccessDenied
	}

	items, err := s.cartRepo.ListItemsTx(ctx, tx, cartID)
	if err != nil {
		return 0, fmt.Errorf("list cart items: %w", err)
	}
	if len(items) == 0 {
		return 0, ErrEmptyCart
	}

	order := &model.Order{UserID: userID, Status: model.StatusPending}
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	for _, item := range items {
		product, err := s.productRepo.GetByIDTx(ctx, tx, item.ProductID)
		if err != nil {
			return 0, fmt.Errorf("get product %d: %w", item.ProductID, err)
		}
		if product == nil {
			return 0, ErrProductNotFound
		}

		orderItem := &model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		}
		if err := s.orderRepo.CreateItem(ctx, tx, orderItem); err != nil {
			return 0, fmt.Errorf("create order item: %w", err)
		}
		if err := s.cartRepo.DeleteItemTx(ctx, tx, item.ID); err != nil {
			return 0, fmt.Errorf("delete cart item %d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	s.publishOrderPlaced(ctx, order.ID, userID)
	return order.ID, nil
}

// publishOrderPlaced is best effort; completion just waits for a later message
// or a manual status update when the broker is down.
func (s *OrderService) publishOrderPlaced(ctx context.Context, orderID, userID int64) {
	if s.amqpCh == nil {
		return
	}
	msg, err := json.Marshal(model.OrderMessage{
		MessageID: uuid.NewString(),
		OrderID:   orderID,
		UserID:    userID,
	})
	if err != nil {
		return
	}
	_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}

// UpdateStatus is the admin path for the pending/completed transition.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, completed bool) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.orderRepo.UpdateStatus(ctx, nil, orderID, completed)
}
