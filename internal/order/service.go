package order

import (
	"context"

	"marketbay-be/internal/catalog"
	"marketbay-be/internal/logger"
	"marketbay-be/internal/metrics"
	"marketbay-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error)
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	UpdateOrder(ctx context.Context, id uint64, input UpdateOrderInput) (*Order, error)
	DeleteOrder(ctx context.Context, id uint64) (*Order, error)
	CompleteOrder(ctx context.Context, id uint64) (*Order, error)
	DisputeOrder(ctx context.Context, id uint64) (*Order, error)
	ResolveDispute(ctx context.Context, id uint64, resolution string) (*Order, error)

	HoldEscrow(ctx context.Context, orderID, amount uint64) (*Escrow, error)
	GetEscrow(ctx context.Context, id uint64) (*Escrow, error)
	ReleaseEscrow(ctx context.Context, id uint64) (*Escrow, error)
	RefundEscrow(ctx context.Context, id uint64) (*Escrow, error)
}

type service struct {
	repo    Repository
	catalog catalog.Service
	users   user.Repository
	stats   *metrics.Engine
}

func NewService(repo Repository, cat catalog.Service, users user.Repository, stats *metrics.Engine) Service {
	return &service{
		repo:    repo,
		catalog: cat,
		users:   users,
		stats:   stats,
	}
}

// PlaceOrder persists the order and then deducts stock through the catalog.
// The two writes are not one transaction: a crash in between leaves an order
// without its deduction. Retrying blindly is therefore not safe; callers
// must check for the order first. The deduction itself is guarded, so stock
// never goes negative.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Uint64("buyer_id", input.BuyerID),
		zap.Uint64("product_id", input.ProductID),
		zap.Uint32("quantity", input.Quantity),
	)

	if input.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}

	// Any role may buy.
	if _, err := s.users.GetByID(ctx, input.BuyerID); err != nil {
		return nil, err
	}

	p, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if input.Quantity > p.StockQuantity {
		log.Warn("order rejected, insufficient stock",
			zap.Uint32("stock", p.StockQuantity),
		)
		return nil, catalog.ErrInsufficientStock
	}

	o := &Order{
		ProductID:  input.ProductID,
		BuyerID:    input.BuyerID,
		Quantity:   input.Quantity,
		TotalPrice: input.TotalPrice,
		Status:     StatusPending,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	if _, err := s.catalog.DeductStock(ctx, input.ProductID, input.Quantity); err != nil {
		log.Error("stock deduction failed after order write",
			zap.Uint64("order_id", o.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if s.stats != nil {
		s.stats.OrdersPlaced.Inc()
	}

	log.Info("order placed", zap.Uint64("order_id", o.ID))

	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id uint64) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// UpdateOrder does not re-validate stock against a changed quantity; only
// placement checks inventory.
func (s *service) UpdateOrder(ctx context.Context, id uint64, input UpdateOrderInput) (*Order, error) {
	if input.Quantity != nil && *input.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, ok := nextStatus(o.Status, actionUpdate); !ok {
		return nil, ErrOrderNotPending
	}

	if input.ProductID != nil {
		o.ProductID = *input.ProductID
	}
	if input.Quantity != nil {
		o.Quantity = *input.Quantity
	}
	if input.TotalPrice != nil {
		o.TotalPrice = *input.TotalPrice
	}

	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, id uint64) (*Order, error) {
	return s.repo.DeleteOrder(ctx, id)
}

func (s *service) transition(ctx context.Context, id uint64, act action, stateErr error) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := nextStatus(o.Status, act)
	if !ok {
		return nil, stateErr
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, id, o.Status, next)
	if err == ErrStatusConflict {
		// Lost the race; the order is no longer in the state we read.
		return nil, stateErr
	}
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order transitioned",
		zap.Uint64("order_id", id),
		zap.String("from", string(o.Status)),
		zap.String("to", string(next)),
	)

	return updated, nil
}

func (s *service) CompleteOrder(ctx context.Context, id uint64) (*Order, error) {
	o, err := s.transition(ctx, id, actionComplete, ErrOrderNotCompletable)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.OrdersCompleted.Inc()
	}
	return o, nil
}

func (s *service) DisputeOrder(ctx context.Context, id uint64) (*Order, error) {
	o, err := s.transition(ctx, id, actionDispute, ErrOrderNotDisputed)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.DisputesOpened.Inc()
	}
	return o, nil
}

func (s *service) ResolveDispute(ctx context.Context, id uint64, resolution string) (*Order, error) {
	var act action
	switch resolution {
	case ResolutionComplete:
		act = actionResolveComplete
	case ResolutionRefund:
		act = actionResolveRefund
	default:
		return nil, ErrInvalidResolution
	}

	o, err := s.transition(ctx, id, act, ErrOrderNotDisputable)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.DisputesResolved.Inc()
	}
	return o, nil
}

// HoldEscrow does not verify the order exists; an escrow may reference an
// order id that was never allocated.
func (s *service) HoldEscrow(ctx context.Context, orderID, amount uint64) (*Escrow, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	e := &Escrow{
		OrderID: orderID,
		Amount:  amount,
		Status:  EscrowHeld,
	}

	if err := s.repo.CreateEscrow(ctx, e); err != nil {
		logger.FromCtx(ctx).Error("failed to create escrow",
			zap.Uint64("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}

	if s.stats != nil {
		s.stats.EscrowsHeld.Inc()
	}

	return e, nil
}

func (s *service) GetEscrow(ctx context.Context, id uint64) (*Escrow, error) {
	return s.repo.GetEscrow(ctx, id)
}

func (s *service) escrowTransition(ctx context.Context, id uint64, act escrowAction) (*Escrow, error) {
	e, err := s.repo.GetEscrow(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := nextEscrowStatus(e.Status, act)
	if !ok {
		return nil, ErrEscrowNotHeld
	}

	updated, err := s.repo.UpdateEscrowStatus(ctx, id, e.Status, next)
	if err == ErrStatusConflict {
		return nil, ErrEscrowNotHeld
	}
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("escrow transitioned",
		zap.Uint64("escrow_id", id),
		zap.String("to", string(next)),
	)

	return updated, nil
}

func (s *service) ReleaseEscrow(ctx context.Context, id uint64) (*Escrow, error) {
	e, err := s.escrowTransition(ctx, id, escrowRelease)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.EscrowsReleased.Inc()
	}
	return e, nil
}

func (s *service) RefundEscrow(ctx context.Context, id uint64) (*Escrow, error) {
	e, err := s.escrowTransition(ctx, id, escrowRefund)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		s.stats.EscrowsRefunded.Inc()
	}
	return e, nil
}
