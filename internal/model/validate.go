package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationKind tags a ValidationError with the invariant that was violated,
// so callers can branch on kind instead of matching message text.
type ValidationKind string

const (
	KindInvalidID        ValidationKind = "invalid_id"
	KindEmptyField       ValidationKind = "empty_field"
	KindInvalidPrice     ValidationKind = "invalid_price"
	KindInvalidQuantity  ValidationKind = "invalid_quantity"
	KindInvalidRole      ValidationKind = "invalid_role"
	KindInvalidStatus    ValidationKind = "invalid_status"
	KindInvalidTimestamp ValidationKind = "invalid_timestamp"
)

type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validateID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{
			Kind:    KindInvalidID,
			Field:   field,
			Message: fmt.Sprintf("%s must be greater than zero", field),
		}
	}
	return nil
}

func validateNonEmpty(field, value string) error {
	if value == "" {
		return &ValidationError{
			Kind:    KindEmptyField,
			Field:   field,
			Message: fmt.Sprintf("%s cannot be empty", field),
		}
	}
	return nil
}

// ValidatePrice enforces strict positivity; a price of exactly zero is invalid.
func ValidatePrice(price decimal.Decimal) error {
	if price.Sign() <= 0 {
		return &ValidationError{
			Kind:    KindInvalidPrice,
			Field:   "price",
			Message: "price must be a positive number",
		}
	}
	return nil
}

// ValidateQuantity enforces strict positivity; a quantity of exactly zero is invalid.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return &ValidationError{
			Kind:    KindInvalidQuantity,
			Field:   "quantity",
			Message: "quantity must be greater than zero",
		}
	}
	return nil
}

func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAdmin {
		return &ValidationError{
			Kind:    KindInvalidRole,
			Field:   "role",
			Message: `role must be "user" or "admin"`,
		}
	}
	return nil
}

// timestamps read back from storage may lead the local clock slightly
const timestampSkew = time.Minute

// resolveTimestamp fills a zero timestamp with the current time and rejects
// future-dated values.
func resolveTimestamp(field string, ts time.Time) (time.Time, error) {
	if ts.IsZero() {
		return time.Now(), nil
	}
	if ts.After(time.Now().Add(timestampSkew)) {
		return time.Time{}, &ValidationError{
			Kind:    KindInvalidTimestamp,
			Field:   field,
			Message: fmt.Sprintf("%s cannot be in the future", field),
		}
	}
	return ts, nil
}
