package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	dombook "example.com/bookstore/internal/domain/book"
)

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, b *dombook.Book) (*dombook.Book, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO books (title, author, publisher, format, price, stock, available, weight_grams)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, b.Title, b.Author, b.Publisher, b.Format, b.Price, b.Stock, b.Available, b.WeightGrams)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

func (r *BookRepository) Update(ctx context.Context, b *dombook.Book) (*dombook.Book, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE books
        SET title = ?, author = ?, publisher = ?, format = ?, price = ?,
            stock = ?, available = ?, weight_grams = ?
        WHERE id = ?
    `, b.Title, b.Author, b.Publisher, b.Format, b.Price, b.Stock, b.Available, b.WeightGrams, b.ID)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, dombook.ErrBookNotFound
	}
	return r.GetByID(ctx, b.ID)
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return dombook.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*dombook.Book, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, title, author, publisher, format, price, stock, available, weight_grams, created_at
        FROM books WHERE id = ?
    `, id)
	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dombook.ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BookRepository) GetByIDs(ctx context.Context, ids []int64) ([]*dombook.Book, error) {
	if len(ids) == 0 {
		return []*dombook.Book{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, author, publisher, format, price, stock, available, weight_grams, created_at
        FROM books WHERE id IN (`+placeholders+`)
    `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*dombook.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) List(ctx context.Context, filter dombook.ListFilter) ([]*dombook.Book, error) {
	query := `
        SELECT id, title, author, publisher, format, price, stock, available, weight_grams, created_at
        FROM books WHERE 1=1`
	var args []any
	if filter.OnlyAvailable {
		query += ` AND available = TRUE`
	}
	if filter.Search != "" {
		query += ` AND (title LIKE ? OR author LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*dombook.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// BulkAdjustStock applies every adjustment as a single conditional UPDATE per
// row, never a read-modify-write. The availability CASE references the
// pre-update stock: a drop to zero disables the book, and a restore
// re-enables it only when the previous stock was zero, so a manually
// disabled in-stock title stays disabled.
func (r *BookRepository) BulkAdjustStock(ctx context.Context, adjustments []dombook.StockAdjustment) (retErr error) {
	if len(adjustments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, adj := range adjustments {
		_, err := tx.ExecContext(ctx, `
            UPDATE books
            SET available = CASE
                    WHEN stock + ? <= 0 THEN FALSE
                    WHEN ? > 0 AND stock = 0 THEN TRUE
                    ELSE available
                END,
                stock = GREATEST(stock + ?, 0)
            WHERE id = ?
        `, adj.Delta, adj.Delta, adj.Delta, adj.BookID)
		if err != nil {
			retErr = err
			return retErr
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*dombook.Book, error) {
	var b dombook.Book
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Format,
		&b.Price, &b.Stock, &b.Available, &b.WeightGrams, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
