package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/solenne/boutique/internal/data/pgxutil"
	"github.com/solenne/boutique/internal/domain/model"
	apperrors "github.com/solenne/boutique/internal/errors"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo provides database operations for orders and their lines.
type OrderRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOrderRepo creates a new OrderRepo with real time provider.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewOrderRepoWithTimeProvider creates a new OrderRepo with a custom time provider (useful for tests).
func NewOrderRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: tp}
}

// Create inserts an order and its lines in a single transaction.
// Either the whole order lands or none of it does.
func (r *OrderRepo) Create(ctx context.Context, order *model.Order, lines []model.OrderLine) (*model.Order, error) {
	if order == nil {
		return nil, errors.New("order is required")
	}
	if len(lines) == 0 {
		return nil, errors.New("order requires at least one line")
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Order
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				INSERT INTO orders (id, user_id, status, total, certificate_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, NULL, $5, $5)
				RETURNING id, user_id, status, total, certificate_id, created_at, updated_at
			`, order.ID, order.UserID, order.Status, order.Total, createdAt)
			if err != nil {
				return err
			}
			out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
			if err != nil {
				return err
			}

			batch := &pgx.Batch{}
			for _, line := range lines {
				batch.Queue(`
					INSERT INTO order_lines (order_id, product_id, title, price)
					VALUES ($1, $2, $3, $4)`,
					order.ID, line.ProductID, line.Title, line.Price)
			}
			return tx.SendBatch(ctx, batch).Close()
		},
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, orderGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return &order, nil
}

// ListByUser retrieves a user's orders with pagination, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Order
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, orderListByUserQuery, userID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Order])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list orders for user: %w", err)
	}

	res := make([]*model.Order, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Lines retrieves the lines of an order.
func (r *OrderRepo) Lines(ctx context.Context, orderID string) ([]model.OrderLine, error) {
	var rowsOut []model.OrderLine
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT order_id, product_id, title, price
			FROM order_lines
			WHERE order_id = $1`, orderID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.OrderLine])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	return rowsOut, nil
}

// AttachCertificate records the certificate ID issued for a confirmed order.
func (r *OrderRepo) AttachCertificate(ctx context.Context, orderID, certificateID string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE orders SET certificate_id = $1, status = $2, updated_at = $3 WHERE id = $4`,
			certificateID, model.OrderStatusConfirmed, r.timeProvider.Now().UTC(), orderID)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to attach certificate: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

const (
	orderGetByIDQuery = `
		SELECT id, user_id, status, total, certificate_id, created_at, updated_at
		FROM orders
		WHERE id = $1`

	orderListByUserQuery = `
		SELECT id, user_id, status, total, certificate_id, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
)
