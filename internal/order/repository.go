package order

import (
	"context"
	"database/sql"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	UpdateOrderStatus(ctx context.Context, id uint64, from, to Status) (*Order, error)
	DeleteOrder(ctx context.Context, id uint64) (*Order, error)

	CreateEscrow(ctx context.Context, e *Escrow) error
	GetEscrow(ctx context.Context, id uint64) (*Escrow, error)
	UpdateEscrowStatus(ctx context.Context, id uint64, from, to EscrowStatus) (*Escrow, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, product_id, buyer_id, quantity, total_price, status, created_at, updated_at`

func scanOrder(row *sql.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.ProductID, &o.BuyerID, &o.Quantity,
		&o.TotalPrice, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO orders (product_id, buyer_id, quantity, total_price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		o.ProductID, o.BuyerID, o.Quantity, o.TotalPrice, string(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
}

func (r *repository) GetOrder(ctx context.Context, id uint64) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *repository) UpdateOrder(ctx context.Context, o *Order) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET product_id = $2, quantity = $3, total_price = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		o.ID, o.ProductID, o.Quantity, o.TotalPrice,
	).Scan(&o.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	return err
}

// UpdateOrderStatus is a compare-and-set: the row is touched only when it is
// still in the expected status, which keeps transitions single-writer under
// concurrent requests.
func (r *repository) UpdateOrderStatus(ctx context.Context, id uint64, from, to Status) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns,
		id, string(from), string(to))

	o, err := scanOrder(row)
	if err == ErrOrderNotFound {
		if _, getErr := r.GetOrder(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	return o, err
}

func (r *repository) DeleteOrder(ctx context.Context, id uint64) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM orders WHERE id = $1
		RETURNING `+orderColumns, id)
	return scanOrder(row)
}

const escrowColumns = `id, order_id, amount, status, created_at, updated_at`

func scanEscrow(row *sql.Row) (*Escrow, error) {
	var e Escrow
	err := row.Scan(&e.ID, &e.OrderID, &e.Amount, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrEscrowNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) CreateEscrow(ctx context.Context, e *Escrow) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO escrows (order_id, amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		e.OrderID, e.Amount, string(e.Status),
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *repository) GetEscrow(ctx context.Context, id uint64) (*Escrow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+escrowColumns+` FROM escrows WHERE id = $1`, id)
	return scanEscrow(row)
}

func (r *repository) UpdateEscrowStatus(ctx context.Context, id uint64, from, to EscrowStatus) (*Escrow, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE escrows
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+escrowColumns,
		id, string(from), string(to))

	e, err := scanEscrow(row)
	if err == ErrEscrowNotFound {
		if _, getErr := r.GetEscrow(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	return e, err
}
