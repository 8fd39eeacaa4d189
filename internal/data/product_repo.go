package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solenne/boutique/internal/data/pgxutil"
	"github.com/solenne/boutique/internal/domain/model"
	apperrors "github.com/solenne/boutique/internal/errors"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductRepo provides database operations for catalog products.
type ProductRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProductRepo creates a new ProductRepo with real time provider.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProductRepoWithTimeProvider creates a new ProductRepo with a custom time provider (useful for tests).
func NewProductRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProductRepo {
	return &ProductRepo{DB: db, timeProvider: tp}
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, errors.New("create product request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO products (
				id, title, house, asset_class, price, image, available, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, TRUE, $7, $7
			) RETURNING id, title, house, asset_class, price, image, available, created_at, updated_at
		`,
			uuid.NewString(),
			strings.TrimSpace(req.Title),
			strings.TrimSpace(req.House),
			req.AssetClass,
			req.Price,
			req.Image,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, productGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		product, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Product])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return &product, nil
}

// GetByIDs retrieves products for the given IDs in one query.
// The result order is unspecified; callers index by ID.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rowsOut []model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, title, house, asset_class, price, image, available, created_at, updated_at
			FROM products
			WHERE id = ANY($1)`, ids)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}

	res := make([]*model.Product, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// List retrieves products with pagination, newest first.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*model.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Product
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, productListQuery, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Product])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	res := make([]*model.Product, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// SetAvailability flips a product's availability flag.
func (r *ProductRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE products SET available = $1, updated_at = $2 WHERE id = $3`,
			available, r.timeProvider.Now().UTC(), id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set product availability: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	productGetByIDQuery = `
		SELECT id, title, house, asset_class, price, image, available, created_at, updated_at
		FROM products
		WHERE id = $1`

	productListQuery = `
		SELECT id, title, house, asset_class, price, image, available, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
)
