package order

import "time"

type Order struct {
	ID         uint64
	ProductID  uint64
	BuyerID    uint64
	Quantity   uint32
	TotalPrice uint64
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// Escrow is a custody record for funds held pending order resolution.
// Nothing enforces one escrow per order.
type Escrow struct {
	ID        uint64
	OrderID   uint64
	Amount    uint64
	Status    EscrowStatus
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type PlaceOrderInput struct {
	BuyerID    uint64
	ProductID  uint64
	Quantity   uint32
	TotalPrice uint64
}

type UpdateOrderInput struct {
	ProductID  *uint64
	Quantity   *uint32
	TotalPrice *uint64
}
