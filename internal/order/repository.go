package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hoodies-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	InsertMany(ctx context.Context, orders []Order) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Count(ctx context.Context, status *Status) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const insertColumns = 11

const orderColumns = `
	o.id, o.user_id, o.product_id, o.quantity, o.size, o.price_paid,
	o.shipping_address, o.shipping_city, o.shipping_state,
	o.shipping_postal_code, o.shipping_country, o.status, o.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// InsertMany writes all orders in a single statement so a checkout either
// creates every line or none of them.
func (r *repository) InsertMany(ctx context.Context, orders []Order) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "InsertMany"),
		zap.Int("count", len(orders)),
	)

	if len(orders) == 0 {
		return nil, ErrNoOrders
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO orders (
		user_id, product_id, quantity, size, price_paid,
		shipping_address, shipping_city, shipping_state,
		shipping_postal_code, shipping_country, status
	) VALUES `)

	args := make([]any, 0, len(orders)*insertColumns)
	for i, o := range orders {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 1; j <= insertColumns; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*insertColumns+j)
		}
		sb.WriteString(")")

		args = append(args,
			o.UserID, o.ProductID, o.Quantity, o.Size, o.PricePaid,
			o.Shipping.Address, o.Shipping.City, o.Shipping.State,
			o.Shipping.PostalCode, o.Shipping.Country, o.Status,
		)
	}
	sb.WriteString(" RETURNING id, created_at")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to insert orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, len(orders))
	copy(out, orders)

	i := 0
	for rows.Next() {
		if i >= len(out) {
			return nil, fmt.Errorf("insert orders: unexpected extra row")
		}
		if err := rows.Scan(&out[i].ID, &out[i].CreatedAt); err != nil {
			log.Error("failed to scan inserted order", zap.Error(err))
			return nil, err
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if i != len(out) {
		return nil, fmt.Errorf("insert orders: expected %d rows, got %d", len(out), i)
	}

	log.Info("orders inserted")
	return out, nil
}

func scanOrder(row rowScanner, extra ...any) (*Order, error) {
	var o Order
	dest := []any{
		&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.Size, &o.PricePaid,
		&o.Shipping.Address, &o.Shipping.City, &o.Shipping.State,
		&o.Shipping.PostalCode, &o.Shipping.Country, &o.Status, &o.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
		zap.String("user_id", userID),
	)

	query := `SELECT` + orderColumns + `,
		p.name, p.image_url
	FROM orders o
	LEFT JOIN products p ON p.id = o.product_id
	WHERE o.user_id = $1
	ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		var name, image sql.NullString
		o, err := scanOrder(rows, &name, &image)
		if err != nil {
			log.Error("failed to scan order", zap.Error(err))
			return nil, err
		}
		o.Product = productInfo(name, image)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT` + orderColumns + `,
		p.name, p.image_url,
		pr.full_name, pr.email, pr.phone
	FROM orders o
	LEFT JOIN products p ON p.id = o.product_id
	LEFT JOIN profiles pr ON pr.id = o.user_id`

	args := []any{}
	if opts.Status != nil {
		query += " WHERE o.status = $1"
		args = append(args, *opts.Status)
	}
	query += " ORDER BY o.created_at DESC"

	log.Debug("executing list orders query", zap.Any("args", args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		var name, image, fullName, email, phone sql.NullString
		o, err := scanOrder(rows, &name, &image, &fullName, &email, &phone)
		if err != nil {
			log.Error("failed to scan order", zap.Error(err))
			return nil, err
		}
		o.Product = productInfo(name, image)
		if email.Valid {
			o.Customer = &Customer{
				FullName: nullableString(fullName),
				Email:    email.String,
				Phone:    nullableString(phone),
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order status",
			zap.String("layer", "repository"),
			zap.Int64("order_id", id),
			zap.Error(err),
		)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context, status *Status) (int, error) {
	query := `SELECT COUNT(*) FROM orders`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func productInfo(name, image sql.NullString) *ProductInfo {
	if !name.Valid {
		return nil
	}
	return &ProductInfo{Name: name.String, ImageURL: nullableString(image)}
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
