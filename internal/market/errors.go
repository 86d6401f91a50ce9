package market

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrDuplicateTransaction = errors.New("transaction already pending")
	ErrAlreadySettled       = errors.New("order already settled")
	ErrInvalidStatus        = errors.New("invalid payment status")
)
