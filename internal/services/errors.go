package services

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity is returned by cart mutations given a quantity below 1.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrLineItemNotFound is returned by SetQuantity when the product has no
// line in the cart. Unlike AddProduct, SetQuantity never creates lines.
var ErrLineItemNotFound = errors.New("product not found in cart")

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports an absent entity.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// DuplicateCodeError reports a product code collision.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("product code %s already exists", e.Code)
}
