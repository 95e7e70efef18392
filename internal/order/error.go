package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound  = errors.New("order not found")
	ErrEscrowNotFound = errors.New("escrow not found")
	ErrStatusConflict = errors.New("status changed by a concurrent update")

	// -- Lifecycle --
	ErrOrderNotPending     = errors.New("Only pending orders can be updated")
	ErrOrderNotCompletable = errors.New("only pending orders can be completed")
	ErrOrderNotDisputed    = errors.New("only pending orders can be disputed")
	ErrOrderNotDisputable  = errors.New("Order is not in a disputable state")
	ErrEscrowNotHeld       = errors.New("Escrow is not in a held state")

	// -- Validation & Input --
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidAmount     = errors.New("escrow amount must be greater than zero")
	ErrInvalidResolution = errors.New(`resolution must be "Complete" or "Refund"`)
)
