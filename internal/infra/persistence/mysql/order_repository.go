package mysql

import (
	"context"
	"database/sql"
	"errors"

	domorder "example.com/bookstore/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
    id, order_number, user_id,
    total_amount, discount, delivery_charge, final_amount, total_items, total_weight_grams,
    status, payment_method, payment_status,
    gateway_order_id, gateway_payment_id, gateway_signature,
    ship_house_number, ship_street, ship_city, ship_state, ship_zip_code, ship_country,
    bill_house_number, bill_street, bill_city, bill_state, bill_zip_code, bill_country,
    tracking_carrier, tracking_number, tracking_url, notes,
    estimated_delivery, shipped_at, delivered_at, cancelled_at, refunded_at, created_at`

func (r *OrderRepository) Create(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (
            order_number, user_id,
            total_amount, discount, delivery_charge, final_amount, total_items, total_weight_grams,
            status, payment_method, payment_status, gateway_order_id,
            ship_house_number, ship_street, ship_city, ship_state, ship_zip_code, ship_country,
            bill_house_number, bill_street, bill_city, bill_state, bill_zip_code, bill_country
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, o.OrderNumber, o.UserID,
		o.TotalAmount, o.Discount, o.DeliveryCharge, o.FinalAmount, o.TotalItems, o.TotalWeightGrams,
		o.Status, o.PaymentMethod, o.PaymentStatus, nullable(o.GatewayOrderID),
		o.ShippingAddress.HouseNumber, o.ShippingAddress.Street, o.ShippingAddress.City,
		o.ShippingAddress.State, o.ShippingAddress.ZipCode, o.ShippingAddress.Country,
		o.BillingAddress.HouseNumber, o.BillingAddress.Street, o.BillingAddress.City,
		o.BillingAddress.State, o.BillingAddress.ZipCode, o.BillingAddress.Country)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	orderID, _ := res.LastInsertId()

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, book_id, quantity, unit_price, title, author)
            VALUES (?, ?, ?, ?, ?, ?)
        `, orderID, item.BookID, item.Quantity, item.Price, item.Title, item.Author)
		if err != nil {
			retErr = err
			return nil, retErr
		}
	}

	if err = tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}

	return r.GetByID(ctx, orderID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return r.scanWithItems(ctx, row)
}

func (r *OrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE gateway_order_id = ?`, gatewayOrderID)
	return r.scanWithItems(ctx, row)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, limit int64) ([]*domorder.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+orderColumns+` FROM orders
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *OrderRepository) List(ctx context.Context, filter domorder.ListFilter) ([]*domorder.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []any
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, *filter.Status)
	}
	if filter.UserID != nil {
		query += ` AND user_id = ?`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *domorder.Order) error {
	var carrier, number, url any
	if o.Tracking != nil {
		carrier = o.Tracking.Carrier
		number = o.Tracking.Number
		url = o.Tracking.URL
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, payment_status = ?,
            gateway_payment_id = ?, gateway_signature = ?,
            tracking_carrier = ?, tracking_number = ?, tracking_url = ?, notes = ?,
            estimated_delivery = ?, shipped_at = ?, delivered_at = ?, cancelled_at = ?, refunded_at = ?
        WHERE id = ?
    `, o.Status, o.PaymentStatus,
		nullable(o.GatewayPaymentID), nullable(o.GatewaySignature),
		carrier, number, url, o.Notes,
		o.EstimatedDelivery, o.ShippedAt, o.DeliveredAt, o.CancelledAt, o.RefundedAt,
		o.ID)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domorder.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) collect(ctx context.Context, rows *sql.Rows) ([]*domorder.Order, error) {
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.listItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *OrderRepository) scanWithItems(ctx context.Context, row *sql.Row) (*domorder.Order, error) {
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID int64) ([]domorder.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT book_id, quantity, unit_price, title, author
        FROM order_items WHERE order_id = ?
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.Item
	for rows.Next() {
		var item domorder.Item
		if err := rows.Scan(&item.BookID, &item.Quantity, &item.Price, &item.Title, &item.Author); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row rowScanner) (*domorder.Order, error) {
	var o domorder.Order
	var gatewayOrderID, gatewayPaymentID, gatewaySignature sql.NullString
	var carrier, number, url, notes sql.NullString

	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID,
		&o.TotalAmount, &o.Discount, &o.DeliveryCharge, &o.FinalAmount, &o.TotalItems, &o.TotalWeightGrams,
		&o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&gatewayOrderID, &gatewayPaymentID, &gatewaySignature,
		&o.ShippingAddress.HouseNumber, &o.ShippingAddress.Street, &o.ShippingAddress.City,
		&o.ShippingAddress.State, &o.ShippingAddress.ZipCode, &o.ShippingAddress.Country,
		&o.BillingAddress.HouseNumber, &o.BillingAddress.Street, &o.BillingAddress.City,
		&o.BillingAddress.State, &o.BillingAddress.ZipCode, &o.BillingAddress.Country,
		&carrier, &number, &url, &notes,
		&o.EstimatedDelivery, &o.ShippedAt, &o.DeliveredAt, &o.CancelledAt, &o.RefundedAt, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.GatewayOrderID = gatewayOrderID.String
	o.GatewayPaymentID = gatewayPaymentID.String
	o.GatewaySignature = gatewaySignature.String
	o.Notes = notes.String
	if carrier.Valid || number.Valid || url.Valid {
		o.Tracking = &domorder.Tracking{
			Carrier: carrier.String,
			Number:  number.String,
			URL:     url.String,
		}
	}
	return &o, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
