package catalog

import "errors"

var (
	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")

	// -- Authorization --
	ErrNotSeller = errors.New("user is not authorized to add products")
	ErrNotOwner  = errors.New("only the owning seller can modify the product")

	// -- Validation & Input --
	ErrNameRequired        = errors.New("product name cannot be empty")
	ErrDescriptionRequired = errors.New("product description cannot be empty")
	ErrInvalidPrice        = errors.New("price must be greater than zero")
	ErrInvalidStock        = errors.New("stock quantity must be greater than zero")
	ErrInsufficientStock   = errors.New("quantity exceeds available stock")
	ErrNoUpdateFields      = errors.New("no fields to update")
)
