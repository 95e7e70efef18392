package catalog

import (
	"context"
	"database/sql"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uint64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	DeductStock(ctx context.Context, id uint64, quantity uint32) (*Product, error)
	SetStock(ctx context.Context, id uint64, quantity uint32) (*Product, error)
	Delete(ctx context.Context, id uint64) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, price, stock_quantity, seller_id, created_at, updated_at`

func scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price,
		&p.StockQuantity, &p.SellerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock_quantity, seller_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		p.Name, p.Description, p.Price, p.StockQuantity, p.SellerID,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repository) GetByID(ctx context.Context, id uint64) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock_quantity = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.StockQuantity,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrProductNotFound
	}
	return err
}

// DeductStock subtracts quantity in a single guarded statement so stock can
// never go negative, even with concurrent writers.
func (r *repository) DeductStock(ctx context.Context, id uint64, quantity uint32) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING `+productColumns, id, quantity)

	p, err := scanProduct(row)
	if err == ErrProductNotFound {
		// Row exists but the guard failed, or the product is gone.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInsufficientStock
	}
	return p, err
}

func (r *repository) SetStock(ctx context.Context, id uint64, quantity uint32) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock_quantity = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns, id, quantity)
	return scanProduct(row)
}

func (r *repository) Delete(ctx context.Context, id uint64) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM products WHERE id = $1
		RETURNING `+productColumns, id)
	return scanProduct(row)
}
