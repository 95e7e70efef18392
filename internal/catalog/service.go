package catalog

import (
	"context"
	"strings"

	"marketbay-be/internal/logger"
	"marketbay-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	GetProduct(ctx context.Context, id uint64) (*Product, error)
	UpdateProduct(ctx context.Context, productID, sellerID uint64, input UpdateProductInput) (*Product, error)
	DeductStock(ctx context.Context, productID uint64, quantity uint32) (*Product, error)
	SetStock(ctx context.Context, productID uint64, quantity uint32) (*Product, error)
	DeleteProduct(ctx context.Context, id uint64) (*Product, error)
}

type service struct {
	repo  Repository
	users user.Repository
}

func NewService(repo Repository, users user.Repository) Service {
	return &service{repo: repo, users: users}
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if input.Price == 0 {
		return nil, ErrInvalidPrice
	}
	if input.StockQuantity == 0 {
		return nil, ErrInvalidStock
	}

	seller, err := s.users.GetByID(ctx, input.SellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != user.RoleSeller {
		return nil, ErrNotSeller
	}

	p := &Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		SellerID:      input.SellerID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		logger.FromCtx(ctx).Error("failed to create product",
			zap.Uint64("seller_id", input.SellerID),
			zap.Error(err),
		)
		return nil, err
	}

	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id uint64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProduct checks ownership, not the caller's role: only the seller the
// product belongs to may change it. seller_id itself is immutable.
func (s *service) UpdateProduct(ctx context.Context, productID, sellerID uint64, input UpdateProductInput) (*Product, error) {
	if input.Name == nil && input.Description == nil && input.Price == nil && input.StockQuantity == nil {
		return nil, ErrNoUpdateFields
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if input.Price != nil && *input.Price == 0 {
		return nil, ErrInvalidPrice
	}
	if input.StockQuantity != nil && *input.StockQuantity == 0 {
		return nil, ErrInvalidStock
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.SellerID != sellerID {
		return nil, ErrNotOwner
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.StockQuantity != nil {
		p.StockQuantity = *input.StockQuantity
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) DeductStock(ctx context.Context, productID uint64, quantity uint32) (*Product, error) {
	p, err := s.repo.DeductStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("stock deducted",
		zap.Uint64("product_id", productID),
		zap.Uint32("quantity", quantity),
		zap.Uint32("remaining", p.StockQuantity),
	)

	return p, nil
}

// SetStock overwrites the stock level. Zero is rejected as invalid input
// rather than treated as out-of-stock.
func (s *service) SetStock(ctx context.Context, productID uint64, quantity uint32) (*Product, error) {
	if quantity == 0 {
		return nil, ErrInvalidStock
	}
	return s.repo.SetStock(ctx, productID, quantity)
}

// DeleteProduct removes the product unconditionally, in-flight orders
// included.
func (s *service) DeleteProduct(ctx context.Context, id uint64) (*Product, error) {
	return s.repo.Delete(ctx, id)
}
