package repository

import (
	"context"
	"database/sql"

	"github.com/xuhuan/visitor-management/internal/model"
)

// UserRepo persists active accounts in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "user_id, password_hash, name, unit, phone, role"

// probePendingUser is the cross-table uniqueness check run before an
// insert into users. FOR UPDATE makes it a locking read rather than a
// snapshot read: the record or gap lock on the probed key blocks a
// concurrent self-registration for the same user_id until this
// transaction finishes, so the two sides cannot both pass their probe
// and commit into different tables.
const probePendingUser = "SELECT user_id FROM pending_users WHERE user_id=? LIMIT 1 FOR UPDATE"

// Create inserts an account. A user_id must be unique across both the
// users and pending_users tables; the primary key covers the first
// half, and the locking probe of pending_users inside the same
// transaction covers the second.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx, probePendingUser, u.UserID).Scan(&existing)
	if err == nil {
		return ErrDuplicate
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (user_id, password_hash, name, unit, phone, role) VALUES (?,?,?,?,?,?)",
		u.UserID, u.PasswordHash, u.Name, u.Unit, u.Phone, u.Role)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches one account by its user_id.
func (r *UserRepo) GetByID(ctx context.Context, userID string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1",
		userID).Scan(&u.UserID, &u.PasswordHash, &u.Name, &u.Unit, &u.Phone, &u.Role)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// ListResidents returns every resident account. The admin login
// response embeds this list so the admin client can show registered
// hosts without a second request.
func (r *UserRepo) ListResidents(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role='resident'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.PasswordHash, &u.Name, &u.Unit, &u.Phone, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// FindPhonesByUnit returns the resident names and phone numbers for a
// unit. Used by the guard house to contact hosts on arrival.
func (r *UserRepo) FindPhonesByUnit(ctx context.Context, unit string) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE unit=? AND role='resident'", unit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.PasswordHash, &u.Name, &u.Unit, &u.Phone, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Update rewrites the mutable profile fields of an account. A zero
// match count is reported as ErrNotFound.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, unit=?, phone=?, role=? WHERE user_id=?",
		u.Name, u.Unit, u.Phone, u.Role, u.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an account and reports ErrNotFound when nothing
// matched, so the handler can distinguish "deleted" from "no-op".
func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE user_id=?", userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
