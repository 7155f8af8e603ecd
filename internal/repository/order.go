package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (int64, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type orderRepository struct {
	db *Database
}

func NewOrderRepository(db *Database) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, bread, sweets, bars, choco, fruits, vegetable, college_available, comments, "timestamp"`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (int64, error) {
	query := `INSERT INTO orders (bread, sweets, bars, choco, fruits, vegetable, college_available, comments, "timestamp")
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id`

	var id int64
	err := r.db.db.QueryRowContext(ctx, query,
		order.Bread,
		order.Sweets,
		order.Bars,
		order.Choco,
		order.Fruits,
		order.Vegetable,
		order.CollegeAvailable,
		order.Comments,
		order.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, &StorageError{Op: "create order", Err: err}
	}

	return id, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY id ASC`

	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &StorageError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	orders := make([]*model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, &StorageError{Op: "scan order", Err: err}
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list orders", Err: err}
	}

	return orders, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get order", Err: err}
	}

	return order, nil
}

func (r *orderRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, &StorageError{Op: "delete order", Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, &StorageError{Op: "delete order", Err: err}
	}

	return affected > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*model.Order, error) {
	var order model.Order
	var comments sql.NullString

	if err := row.Scan(
		&order.ID,
		&order.Bread,
		&order.Sweets,
		&order.Bars,
		&order.Choco,
		&order.Fruits,
		&order.Vegetable,
		&order.CollegeAvailable,
		&comments,
		&order.Timestamp,
	); err != nil {
		return nil, err
	}

	if comments.Valid {
		order.Comments = comments.String
	}

	return &order, nil
}
