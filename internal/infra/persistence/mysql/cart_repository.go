package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcart "example.com/bookstore/internal/domain/cart"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetByUser(ctx context.Context, userID int64) (*domcart.Cart, error) {
	c := &domcart.Cart{UserID: userID}

	var couponCode, couponType sql.NullString
	var couponDiscount sql.NullFloat64
	row := r.db.QueryRowContext(ctx, `
        SELECT coupon_code, coupon_discount, coupon_type, updated_at
        FROM carts WHERE user_id = ?
    `, userID)
	if err := row.Scan(&couponCode, &couponDiscount, &couponType, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrCartNotFound
		}
		return nil, err
	}
	if couponCode.Valid {
		c.Coupon = &domcart.Coupon{
			Code:     couponCode.String,
			Discount: couponDiscount.Float64,
			Type:     domcart.DiscountType(couponType.String),
		}
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT book_id, quantity, unit_price, weight_grams
        FROM cart_lines WHERE user_id = ?
        ORDER BY book_id
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domcart.Line
		if err := rows.Scan(&line.BookID, &line.Quantity, &line.Price, &line.WeightGrams); err != nil {
			return nil, err
		}
		c.Lines = append(c.Lines, line)
	}
	return c, rows.Err()
}

// Save upserts the whole aggregate in one transaction so a cart is never
// observed with half-written lines.
func (r *CartRepository) Save(ctx context.Context, c *domcart.Cart) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var couponCode, couponType any
	var couponDiscount any
	if c.Coupon != nil {
		couponCode = c.Coupon.Code
		couponDiscount = c.Coupon.Discount
		couponType = string(c.Coupon.Type)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO carts (user_id, coupon_code, coupon_discount, coupon_type, updated_at)
        VALUES (?, ?, ?, ?, NOW())
        ON DUPLICATE KEY UPDATE
            coupon_code = VALUES(coupon_code),
            coupon_discount = VALUES(coupon_discount),
            coupon_type = VALUES(coupon_type),
            updated_at = NOW()
    `, c.UserID, couponCode, couponDiscount, couponType)
	if err != nil {
		retErr = err
		return retErr
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = ?`, c.UserID); err != nil {
		retErr = err
		return retErr
	}

	for _, line := range c.Lines {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO cart_lines (user_id, book_id, quantity, unit_price, weight_grams)
            VALUES (?, ?, ?, ?, ?)
        `, c.UserID, line.BookID, line.Quantity, line.Price, line.WeightGrams)
		if err != nil {
			retErr = err
			return retErr
		}
	}

	return tx.Commit()
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = ?`, userID); err != nil {
		retErr = err
		return retErr
	}
	_, err = tx.ExecContext(ctx, `
        UPDATE carts
        SET coupon_code = NULL, coupon_discount = NULL, coupon_type = NULL, updated_at = NOW()
        WHERE user_id = ?
    `, userID)
	if err != nil {
		retErr = err
		return retErr
	}

	return tx.Commit()
}
