// Package services holds the business logic. Services own transaction
// boundaries; repositories stay free of invariants.
package services

import "errors"

// Outcome codes returned by cart operations. They ride in the HTTP body
// alongside a human detail string; the status is 200 for all three.
const (
	CodeDone    = "done"
	CodeSoldOut = "sold_out"
	CodeNoMore  = "no_more"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrAlreadyInCart    = errors.New("product already in cart")
	ErrSoldOut          = errors.New("product sold out")
	ErrNothingToRemove  = errors.New("nothing left to remove")
	ErrInvalidQuantity  = errors.New("quantity must not be negative")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
