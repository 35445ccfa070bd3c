package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	domuser "example.com/bookstore/internal/domain/user"
)

const mysqlErrDuplicateEntry = 1062

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO users (name, email, password_hash, role_code)
        VALUES (?, ?, ?, ?)
    `, u.Name, u.Email, u.PasswordHash, u.RoleCode)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return nil, domuser.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role_code
        FROM users WHERE id = ?
    `, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role_code
        FROM users WHERE email = ?
    `, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domuser.User, error) {
	var u domuser.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domuser.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
