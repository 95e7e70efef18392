package catalog

import "time"

type Product struct {
	ID            uint64
	Name          string
	Description   string
	Price         uint64
	StockQuantity uint32
	SellerID      uint64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type CreateProductInput struct {
	SellerID      uint64
	Name          string
	Description   string
	Price         uint64
	StockQuantity uint32
}

type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *uint64
	StockQuantity *uint32
}
