package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Order status is stored as a boolean: false is pending, true is completed.
const (
	StatusPending   = false
	StatusCompleted = true
)

const (
	statusPendingLabel   = "pending"
	statusCompletedLabel = "completed"
)

// ParseOrderStatus converts the wire form of an order status to its stored
// boolean form. Anything other than "pending" or "completed" is rejected.
func ParseOrderStatus(s string) (bool, error) {
	switch s {
	case statusPendingLabel:
		return StatusPending, nil
	case statusCompletedLabel:
		return StatusCompleted, nil
	default:
		return false, &ValidationError{
			Kind:    KindInvalidStatus,
			Field:   "order_status",
			Message: `order status must be "pending" or "completed"`,
		}
	}
}

func FormatOrderStatus(completed bool) string {
	if completed {
		return statusCompletedLabel
	}
	return statusPendingLabel
}

type User struct {
	ID        int64
	Name      string
	Password  string // bcrypt hash
	Role      Role
	CreatedAt time.Time
}

// NewUser builds a validated User. A zero createdAt means "now".
func NewUser(id int64, name, password string, role Role, createdAt time.Time) (*User, error) {
	if err := validateID("user ID", id); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("user name", name); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("password", password); err != nil {
		return nil, err
	}
	if err := ValidateRole(role); err != nil {
		return nil, err
	}
	createdAt, err := resolveTimestamp("created at", createdAt)
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Name: name, Password: password, Role: role, CreatedAt: createdAt}, nil
}

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
}

// NewProduct builds a validated Product. Description is optional.
func NewProduct(id int64, name, description string, price decimal.Decimal, createdAt time.Time) (*Product, error) {
	if err := validateID("product ID", id); err != nil {
		return nil, err
	}
	if err := validateNonEmpty("product name", name); err != nil {
		return nil, err
	}
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}
	createdAt, err := resolveTimestamp("created at", createdAt)
	if err != nil {
		return nil, err
	}
	return &Product{ID: id, Name: name, Description: description, Price: price, CreatedAt: createdAt}, nil
}

type Cart struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

func NewCart(id, userID int64, createdAt time.Time) (*Cart, error) {
	if err := validateID("cart ID", id); err != nil {
		return nil, err
	}
	if err := validateID("user ID", userID); err != nil {
		return nil, err
	}
	createdAt, err := resolveTimestamp("created at", createdAt)
	if err != nil {
		return nil, err
	}
	return &Cart{ID: id, UserID: userID, CreatedAt: createdAt}, nil
}

type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int
	AddedAt   time.Time
}

func NewCartItem(id, cartID, productID int64, quantity int, addedAt time.Time) (*CartItem, error) {
	if err := validateID("cart item ID", id); err != nil {
		return nil, err
	}
	if err := validateID("cart ID", cartID); err != nil {
		return nil, err
	}
	if err := validateID("product ID", productID); err != nil {
		return nil, err
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	addedAt, err := resolveTimestamp("added at", addedAt)
	if err != nil {
		return nil, err
	}
	return &CartItem{ID: id, CartID: cartID, ProductID: productID, Quantity: quantity, AddedAt: addedAt}, nil
}

type Order struct {
	ID        int64
	UserID    int64
	Status    bool
	Items     []OrderItem
	CreatedAt time.Time
}

func NewOrder(id, userID int64, status bool, createdAt time.Time) (*Order, error) {
	if err := validateID("order ID", id); err != nil {
		return nil, err
	}
	if err := validateID("user ID", userID); err != nil {
		return nil, err
	}
	createdAt, err := resolveTimestamp("created at", createdAt)
	if err != nil {
		return nil, err
	}
	return &Order{ID: id, UserID: userID, Status: status, CreatedAt: createdAt}, nil
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	// Price is captured at order time and never follows later product changes.
	Price     decimal.Decimal
	CreatedAt time.Time
}

func NewOrderItem(id, orderID, productID int64, quantity int, price decimal.Decimal, createdAt time.Time) (*OrderItem, error) {
	if err := validateID("order item ID", id); err != nil {
		return nil, err
	}
	if err := validateID("order ID", orderID); err != nil {
		return nil, err
	}
	if err := validateID("product ID", productID); err != nil {
		return nil, err
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}
	createdAt, err := resolveTimestamp("created at", createdAt)
	if err != nil {
		return nil, err
	}
	return &OrderItem{ID: id, OrderID: orderID, ProductID: productID, Quantity: quantity, Price: price, CreatedAt: createdAt}, nil
}

// OrderMessage is published after a successful placement and consumed by the
// completion worker.
type OrderMessage struct {
	MessageID string `json:"message_id"`
	OrderID   int64  `json:"order_id"`
	UserID    int64  `json:"user_id"`
}
